package model

import (
	"time"

	"gorm.io/datatypes"
)

// 行为类型
const (
	ActionLessonCompleted = "lesson_completed"
	ActionCourseEnrolled  = "course_enrolled"
	ActionQuizCompleted   = "quiz_completed"
	ActionCourseCreated   = "course_created"
)

// ActivityEvent 行为记录，只追加不修改
type ActivityEvent struct {
	ID        string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string            `gorm:"size:36;index" json:"userId"`
	Action    string            `gorm:"size:100;index" json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	Timestamp time.Time         `gorm:"index" json:"timestamp"`
}

func (ActivityEvent) TableName() string {
	return "analytics"
}
