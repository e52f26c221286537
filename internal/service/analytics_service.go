package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	courseAnalyticsLimit = 100
	userActivityLimit    = 50
)

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	Clock         Clock
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{AnalyticsRepo: analyticsRepo}
}

// TrackActivity 追加一条行为记录，不回读也不重试
func (s *AnalyticsService) TrackActivity(ctx context.Context, userID, action string, metadata map[string]interface{}) error {
	if action == "" {
		return util.Invalid("analytics.track", "action is required")
	}
	event := &model.ActivityEvent{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		Action:    action,
		Metadata:  datatypes.JSONMap(metadata),
		Timestamp: s.Clock.now(),
	}
	if event.Metadata == nil {
		event.Metadata = datatypes.JSONMap{}
	}
	return util.Unavailable("analytics.track", s.AnalyticsRepo.Append(ctx, event))
}

// TrackAsync 在脱离请求的上下文中异步记录行为，失败只记日志，不影响响应
func (s *AnalyticsService) TrackAsync(ctx context.Context, userID, action string, metadata map[string]interface{}) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := s.TrackActivity(detached, userID, action, metadata); err != nil {
			logger.Log.Warn("Failed to track activity",
				zap.String("userId", userID),
				zap.String("action", action),
				zap.Error(err))
		}
	}()
}

// GetCourseAnalytics 按时间倒序返回课程的行为记录
func (s *AnalyticsService) GetCourseAnalytics(ctx context.Context, courseID string) ([]model.ActivityEvent, error) {
	events, err := s.AnalyticsRepo.FindByCourse(ctx, courseID, courseAnalyticsLimit)
	if err != nil {
		return nil, util.Unavailable("analytics.by_course", err)
	}
	return events, nil
}

// GetUserActivity 按时间倒序返回用户的行为记录，limit 限制在 (0, courseAnalyticsLimit] 内
func (s *AnalyticsService) GetUserActivity(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = userActivityLimit
	}
	if limit > courseAnalyticsLimit {
		limit = courseAnalyticsLimit
	}
	events, err := s.AnalyticsRepo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, util.Unavailable("analytics.by_user", err)
	}
	if events == nil {
		events = []model.ActivityEvent{}
	}
	return events, nil
}
