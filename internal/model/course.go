package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title            string  `gorm:"size:200;not null" json:"title"`
	Description      string  `gorm:"type:text" json:"description"`
	Category         string  `gorm:"size:100;index" json:"category"`
	InstructorID     string  `gorm:"size:36;index" json:"instructorId"`
	Instructor       string  `gorm:"size:100" json:"instructor"`
	Price            float64 `gorm:"default:0" json:"price"`
	Rating           float64 `gorm:"default:0" json:"rating"`
	StudentsEnrolled int     `gorm:"default:0" json:"studentsEnrolled"`
	LessonsCount     int     `gorm:"default:0" json:"lessonsCount"`
	Duration         int     `gorm:"default:0" json:"duration"` // 时长（分钟）
	Level            string  `gorm:"size:50" json:"level"`
	Popularity       int     `gorm:"default:0" json:"popularity"` // 热度：报名数加课时完成数
	ThumbnailURL     string  `gorm:"size:255" json:"thumbnailURL"`
}

func (Course) TableName() string {
	return "courses"
}
