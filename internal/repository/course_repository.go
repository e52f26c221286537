package repository

import (
	"context"
	"learnul_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return firstOrNil(r.DB.WithContext(ctx).Where("id = ?", id), &model.Course{})
}

// List 按创建时间倒序返回最多 limit 门课程，可按分类过滤
func (r *CourseRepository) List(ctx context.Context, category string, limit int) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.WithContext(ctx).Model(&model.Course{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// IncrementEnrolled 原子递增报名人数，并发报名不会互相覆盖
func (r *CourseRepository) IncrementEnrolled(ctx context.Context, id string, delta int) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", id).
		UpdateColumn("students_enrolled", gorm.Expr("students_enrolled + ?", delta))
	return res.RowsAffected, res.Error
}

// BumpPopularity 增加课程热度，课程目录按热度排序
func (r *CourseRepository) BumpPopularity(ctx context.Context, id string, delta int) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", id).
		UpdateColumn("popularity", gorm.Expr("popularity + ?", delta)).Error
}

func (r *CourseRepository) IncrementLessons(ctx context.Context, id string, delta int) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", id).
		UpdateColumn("lessons_count", gorm.Expr("lessons_count + ?", delta)).Error
}

func (r *CourseRepository) AddDuration(ctx context.Context, id string, minutes int) error {
	if minutes == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", id).
		UpdateColumn("duration", gorm.Expr("duration + ?", minutes)).Error
}
