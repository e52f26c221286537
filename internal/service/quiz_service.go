package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
)

type QuizService struct {
	QuizRepo  *repository.QuizRepository
	Analytics *AnalyticsService
}

func NewQuizService(quizRepo *repository.QuizRepository, analytics *AnalyticsService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, Analytics: analytics}
}

// GetQuiz 获取测验，不存在时返回 nil
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, id)
	if err != nil {
		return nil, util.Unavailable("quizzes.get", err)
	}
	return quiz, nil
}

// ScoreQuiz 统计答对的题数，未作答视为答错
func ScoreQuiz(quiz *model.Quiz, answers []int) model.QuizResult {
	result := model.QuizResult{QuizID: quiz.ID, Total: len(quiz.Questions)}
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			result.Score++
		}
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Score) / float64(result.Total) * 100
	}
	return result
}

// SubmitQuiz 评分并记录 quiz_completed 行为
func (s *QuizService) SubmitQuiz(ctx context.Context, userID, quizID string, answers []int) (*model.QuizResult, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}
	if len(answers) > len(quiz.Questions) {
		return nil, util.Invalid("quizzes.submit", "got %d answers for %d questions", len(answers), len(quiz.Questions))
	}

	result := ScoreQuiz(quiz, answers)
	if s.Analytics != nil {
		s.Analytics.TrackAsync(ctx, userID, model.ActionQuizCompleted, map[string]interface{}{
			"quizId":     quiz.ID,
			"lessonId":   quiz.LessonID,
			"score":      result.Score,
			"total":      result.Total,
			"percentage": result.Percentage,
		})
	}
	return &result, nil
}
