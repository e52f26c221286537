package model

import "gorm.io/datatypes"

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	LessonID  string                            `gorm:"size:36;index" json:"lessonId"`
	Title     string                            `gorm:"size:200" json:"title"`
	Questions datatypes.JSONSlice[QuizQuestion] `json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestionView 学生看到的题目，不含正确答案
type QuizQuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// swagger:model QuizView
type QuizView struct {
	ID        string             `json:"id"`
	LessonID  string             `json:"lessonId"`
	Title     string             `json:"title"`
	Questions []QuizQuestionView `json:"questions"`
}

// View 去掉正确答案，评分只在服务端进行
func (q *Quiz) View() *QuizView {
	v := &QuizView{
		ID:        q.ID,
		LessonID:  q.LessonID,
		Title:     q.Title,
		Questions: make([]QuizQuestionView, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		v.Questions = append(v.Questions, QuizQuestionView{Question: question.Question, Options: question.Options})
	}
	return v
}

// QuizResult 测验评分结果
type QuizResult struct {
	QuizID     string  `json:"quizId"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}
