package service

import (
	"context"
	"errors"
	"fmt"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storeErr 保留已分类的错误，其余标记为存储调用失败
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if util.KindOf(err) != "" {
		return err
	}
	return util.Unavailable(op, err)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Clock 服务写入记录时使用的时间源
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// sameDay 按 loc 时区比较 a 和 b 是否为同一天
func sameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// compensate 后续写入失败时删除已上传的文件；删除也失败会留下孤立文件，报告为部分写入
func compensate(ctx context.Context, storage *StorageService, key, op string, cause error) error {
	if delErr := storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
		logger.Log.Error("Orphaned upload",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(delErr))
		return util.PartialWrite(op, fmt.Errorf("orphaned object %q: %w", key, errors.Join(cause, delErr)))
	}
	return cause
}
