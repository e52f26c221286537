package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	UserID       string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID     string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_user_course;index" json:"courseId"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	Progress     int       `gorm:"default:0" json:"progress"`
	LastAccessed time.Time `json:"lastAccessed"`
	Completed    bool      `gorm:"default:false" json:"completed"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
