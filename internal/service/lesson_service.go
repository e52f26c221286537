package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonInput 创建课时请求。VideoPath 指向已保存到本地的视频，会读取时长后上传到存储
// swagger:model LessonInput
type LessonInput struct {
	Title            string               `json:"title" binding:"required,max=200"`
	Content          string               `json:"content"`
	Type             model.LessonType     `json:"type" binding:"required,lessontype"`
	Order            int                  `json:"order" binding:"gte=0"`
	Duration         int                  `json:"duration" binding:"gte=0"`
	VideoURL         string               `json:"videoURL"`
	Questions        []model.QuizQuestion `json:"questions"`
	VideoPath        string               `json:"-"`
	VideoName        string               `json:"-"`
	VideoContentType string               `json:"-"`
}

// LessonNavigation 课时及其上一节和下一节
// swagger:model LessonNavigation
type LessonNavigation struct {
	Lesson   *model.Lesson `json:"lesson"`
	Previous *model.Lesson `json:"previous"`
	Next     *model.Lesson `json:"next"`
}

// VideoProber 读取本地视频文件信息
type VideoProber func(path string) (*util.VideoInfo, error)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	QuizRepo   *repository.QuizRepository
	Storage    *StorageService
	Probe      VideoProber
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	storage *StorageService,
) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		QuizRepo:   quizRepo,
		Storage:    storage,
		Probe:      util.GetVideoInfo,
	}
}

// GetLesson 获取课时，不存在时返回 nil
func (s *LessonService) GetLesson(ctx context.Context, id string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, util.Unavailable("lessons.get", err)
	}
	return lesson, nil
}

// GetCourseLessons 按顺序返回课程的全部课时
func (s *LessonService) GetCourseLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	lessons, err := s.LessonRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, util.Unavailable("lessons.by_course", err)
	}
	return lessons, nil
}

// GetLessonWithNeighbors 获取课时及相邻课时，课时不存在时返回 nil
func (s *LessonService) GetLessonWithNeighbors(ctx context.Context, id string) (*LessonNavigation, error) {
	lesson, err := s.GetLesson(ctx, id)
	if err != nil || lesson == nil {
		return nil, err
	}
	lessons, err := s.GetCourseLessons(ctx, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	nav := &LessonNavigation{Lesson: lesson}
	for i := range lessons {
		if lessons[i].ID != lesson.ID {
			continue
		}
		if i > 0 {
			nav.Previous = &lessons[i-1]
		}
		if i+1 < len(lessons) {
			nav.Next = &lessons[i+1]
		}
		break
	}
	return nav, nil
}

// CreateLesson 为自己的课程添加课时，管理员可以为任何课程添加
func (s *LessonService) CreateLesson(ctx context.Context, actor *model.User, courseID string, in LessonInput) (*model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, util.Unavailable("lessons.create", err)
	}
	if course == nil {
		return nil, util.ErrCourseNotFound
	}
	if actor == nil || (actor.Role != model.Admin && course.InstructorID != actor.ID) {
		return nil, util.ErrPermissionDenied
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, util.Invalid("lessons.create", "title is required")
	}
	if !in.Type.Valid() {
		return nil, util.Invalid("lessons.create", "unknown lesson type %q", in.Type)
	}
	if in.Type == model.LessonQuiz && len(in.Questions) == 0 {
		return nil, util.Invalid("lessons.create", "quiz lessons need at least one question")
	}
	for i, q := range in.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, util.Invalid("lessons.create", "question %d: correct answer out of range", i+1)
		}
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Order:    in.Order,
		Title:    title,
		Content:  in.Content,
		Type:     in.Type,
		Duration: in.Duration,
		VideoURL: in.VideoURL,
	}

	var key string
	if in.VideoPath != "" {
		if lesson.Duration == 0 && s.Probe != nil {
			info, err := s.Probe(in.VideoPath)
			if err != nil {
				logger.Log.Warn("Video probe failed", zap.String("path", in.VideoPath), zap.Error(err))
			} else {
				lesson.Duration = info.DurationMinutes()
			}
		}
		name := in.VideoName
		if name == "" {
			name = filepath.Base(in.VideoPath)
		}
		key = ObjectKey("lessons/"+courseID, name)
		url, err := s.Storage.UploadLocal(ctx, key, in.VideoPath, in.VideoContentType)
		if err != nil {
			return nil, err
		}
		lesson.VideoURL = url
	}

	err = s.LessonRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lessons := s.LessonRepo.WithTx(tx)
		if err := lessons.Create(ctx, lesson); err != nil {
			return err
		}
		if len(in.Questions) > 0 {
			quiz := &model.Quiz{
				LessonID:  lesson.ID,
				Title:     title,
				Questions: datatypes.JSONSlice[model.QuizQuestion](in.Questions),
			}
			if err := s.QuizRepo.WithTx(tx).Create(ctx, quiz); err != nil {
				return err
			}
			if err := lessons.SetQuiz(ctx, lesson.ID, quiz.ID); err != nil {
				return err
			}
			lesson.QuizID = &quiz.ID
		}
		courses := s.CourseRepo.WithTx(tx)
		if err := courses.IncrementLessons(ctx, courseID, 1); err != nil {
			return err
		}
		return courses.AddDuration(ctx, courseID, lesson.Duration)
	})
	if err != nil {
		err = storeErr("lessons.create", err)
		if key != "" {
			return nil, compensate(ctx, s.Storage, key, "lessons.create", err)
		}
		return nil, err
	}
	return lesson, nil
}
