package repository

import (
	"context"
	"learnul_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// Append 追加一条行为记录，不提供修改和删除
func (r *AnalyticsRepository) Append(ctx context.Context, event *model.ActivityEvent) error {
	return r.DB.WithContext(ctx).Create(event).Error
}

// FindByCourse 按时间倒序查询 metadata 中 courseId 匹配的记录
func (r *AnalyticsRepository) FindByCourse(ctx context.Context, courseID string, limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.DB.WithContext(ctx).
		Where(datatypes.JSONQuery("metadata").Equals(courseID, "courseId")).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *AnalyticsRepository) FindByUser(ctx context.Context, userID string, limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
