package model

type LessonType string

const (
	LessonVideo   LessonType = "video"
	LessonArticle LessonType = "article"
	LessonQuiz    LessonType = "quiz"
)

func (t LessonType) Valid() bool {
	switch t {
	case LessonVideo, LessonArticle, LessonQuiz:
		return true
	}
	return false
}

// Lesson 课时。Order 决定课程内的顺序，允许间隔，不检查重复
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	CourseID string     `gorm:"size:36;index:idx_course_order;not null" json:"courseId"`
	Order    int        `gorm:"column:sort_order;index:idx_course_order" json:"order"`
	Title    string     `gorm:"size:200;not null" json:"title"`
	Content  string     `gorm:"type:text" json:"content"`
	Type     LessonType `gorm:"size:20;not null;default:'article'" json:"type"`
	Duration int        `gorm:"default:0" json:"duration"` // 时长（分钟）
	VideoURL string     `gorm:"size:255" json:"videoURL"`
	QuizID   *string    `gorm:"size:36" json:"quizId,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
