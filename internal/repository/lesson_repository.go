package repository

import (
	"context"
	"learnul_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) WithTx(tx *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: tx}
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	return firstOrNil(r.DB.WithContext(ctx).Where("id = ?", id), &model.Lesson{})
}

// FindByCourse 按课时顺序返回课程的全部课时
func (r *LessonRepository) FindByCourse(ctx context.Context, courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) SetQuiz(ctx context.Context, lessonID, quizID string) error {
	return r.DB.WithContext(ctx).Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		Update("quiz_id", quizID).Error
}
