// @title Learnul 后端 API
// @version 1.0
// @description Learnul 在线学习平台的后端服务器。

// @contact.name API支持

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"learnul_backend/internal/app"
	"learnul_backend/internal/config"
	"learnul_backend/pkg/logger"
	"log"

	"github.com/spf13/pflag"
)

func main() {
	// 命令行参数
	configDir := pflag.String("config", "configs", "配置文件 config.yaml 所在目录")
	migrateOnly := pflag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := pflag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
