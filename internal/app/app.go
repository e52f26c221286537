package app

import (
	"context"
	"errors"
	"learnul_backend/internal/config"
	"learnul_backend/internal/controller"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/service"
	"learnul_backend/pkg/configwatcher"
	"learnul_backend/pkg/database"
	"learnul_backend/pkg/logger"
	"learnul_backend/pkg/monitoring"
	"learnul_backend/pkg/security"
	"learnul_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 应用依赖的外部存储。直接提供 Tokens 时 Redis 可以为 nil
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Tokens  service.TokenStore
	Storage *service.StorageService
	Mailer  service.Mailer
}

type App struct {
	Config    *config.Config
	ConfigDir string
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client

	ctx             context.Context
	cancel          context.CancelFunc
	maintenance     atomic.Bool
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	enrollment *repository.EnrollmentRepository
	analytics  *repository.AnalyticsRepository
	quiz       *repository.QuizRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	user       *service.UserService
	course     *service.CourseService
	lesson     *service.LessonService
	enrollment *service.EnrollmentService
	analytics  *service.AnalyticsService
	quiz       *service.QuizService
}

type controllers struct {
	auth    *controller.AuthController
	user    *controller.UserController
	course  *controller.CourseController
	lesson  *controller.LessonController
	teacher *controller.TeacherController
	admin   *controller.AdminController
	health  *controller.HealthController
}

// RegisterConfigCallback 注册配置热加载后的回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		analytics:  repository.NewAnalyticsRepository(db),
		quiz:       repository.NewQuizRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, deps Deps) *services {
	s := &services{storage: deps.Storage}

	s.auth = service.NewAuthService(repos.user, deps.Tokens, deps.Mailer, cfg)
	s.user = service.NewUserService(repos.user, repos.lesson, repos.course, repos.enrollment, s.storage, cfg.Server.Location())
	s.course = service.NewCourseService(repos.course, repos.enrollment, repos.user, cfg)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.quiz, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.user, repos.course, repos.enrollment)
	s.analytics = service.NewAnalyticsService(repos.analytics)
	s.quiz = service.NewQuizService(repos.quiz, s.analytics)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, deps Deps) *controllers {
	maxUpload := cfg.Storage.MaxUploadMB << 20
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		user:    controller.NewUserController(s.user, s.lesson, s.analytics, maxUpload),
		course:  controller.NewCourseController(s.course, s.lesson, s.enrollment, s.analytics),
		lesson:  controller.NewLessonController(s.lesson, s.quiz),
		teacher: controller.NewTeacherController(s.course, s.lesson, s.analytics, s.quiz, s.storage, maxUpload),
		admin:   controller.NewAdminController(s.user, s.course),
		health:  controller.NewHealthController(deps.DB, deps.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(a.maintenanceMiddleware())
}

// applyConfig 应用新配置中可热加载的部分，其余配置需要重启生效
func (a *App) applyConfig(cfg *config.Config) {
	a.maintenance.Store(cfg.Server.Maintenance)
	logger.SetMode(cfg.Server.Mode)
	logger.Log.Info("Runtime settings updated",
		zap.Bool("maintenance", cfg.Server.Maintenance),
		zap.String("level", logger.Level().String()))

	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) startBackgroundTasks() {
	if a.ConfigDir == "" {
		return
	}
	go func() {
		if err := configwatcher.Watch(a.ctx, a.ConfigDir, 500*time.Millisecond, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// New 基于已打开的存储组装路由
func New(cfg *config.Config, deps Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     deps.DB,
		Redis:  deps.Redis,
		ctx:    ctx,
		cancel: cancel,
	}
	app.maintenance.Store(cfg.Server.Maintenance)

	controller.RegisterValidators()
	monitoring.Init()

	repos := app.initRepositories(deps.DB)
	services := app.initServices(repos, cfg, deps)
	controllers := app.initControllers(services, cfg, deps)

	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services.user)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// NewApp 打开配置中的全部存储并创建应用，失败即退出
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.String("type", cfg.Storage.Type), zap.Error(err))
	}

	app := New(cfg, Deps{
		DB:      db,
		Redis:   rdb,
		Tokens:  service.NewRedisTokenStore(rdb),
		Storage: storage,
		Mailer:  service.NewMailer(cfg.Mail),
	})
	app.ConfigDir = configDir

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.startBackgroundTasks()
	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放存储连接
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
