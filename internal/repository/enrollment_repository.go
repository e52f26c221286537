package repository

import (
	"context"
	"learnul_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) Find(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	return firstOrNil(r.DB.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID), &model.Enrollment{})
}

func (r *EnrollmentRepository) CountFor(ctx context.Context, userID, courseID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	return n, err
}

// DistinctUsersInCourses 查询报名了这些课程的学生（去重）
func (r *EnrollmentRepository) DistinctUsersInCourses(ctx context.Context, courseIDs []string) ([]string, error) {
	var ids []string
	if len(courseIDs) == 0 {
		return ids, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *EnrollmentRepository) FindByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) Touch(ctx context.Context, userID, courseID string, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(fields).Error
}
