package service

import (
	"context"
	"learnul_backend/internal/config"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"learnul_backend/pkg/monitoring"
	"learnul_backend/pkg/tracing"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CatalogState 课程目录的展示状态
type CatalogState string

const (
	CatalogReady       CatalogState = "ready"
	CatalogEmpty       CatalogState = "empty"
	CatalogUnavailable CatalogState = "unavailable"
)

// CourseQuery 课程目录查询条件。分类为空或 "all" 时匹配全部课程，Max 限制在配置范围内
type CourseQuery struct {
	Category string
	Max      int
}

// CatalogResult 课程目录查询结果。仅当存储失败且调试模式返回示例课程时 Placeholder 为 true
// swagger:model CatalogResult
type CatalogResult struct {
	State       CatalogState   `json:"state"`
	Courses     []model.Course `json:"courses"`
	Placeholder bool           `json:"placeholder,omitempty"`
}

// CourseInput 创建课程请求
// swagger:model CourseInput
type CourseInput struct {
	Title        string  `json:"title" binding:"required,max=200"`
	Description  string  `json:"description"`
	Category     string  `json:"category" binding:"max=100"`
	Price        float64 `json:"price" binding:"gte=0"`
	Level        string  `json:"level" binding:"max=50"`
	Duration     int     `json:"duration" binding:"gte=0"`
	ThumbnailURL string  `json:"thumbnailURL"`
}

// TeacherStats 教师课程统计
// swagger:model TeacherStats
type TeacherStats struct {
	TotalStudents int     `json:"totalStudents"`
	TotalCourses  int     `json:"totalCourses"`
	AvgRating     float64 `json:"avgRating"`
}

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Catalog        config.CatalogConfig
	Placeholders   bool
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Catalog:        cfg.Catalog,
		Placeholders:   cfg.PlaceholderCatalogAllowed(),
	}
}

func (s *CourseService) limit(max int) int {
	def, ceiling := s.Catalog.DefaultLimit, s.Catalog.MaxLimit
	if def <= 0 {
		def = 20
	}
	if ceiling <= 0 {
		ceiling = 100
	}
	switch {
	case max <= 0:
		return def
	case max > ceiling:
		return ceiling
	}
	return max
}

// GetCourses 按创建时间倒序读取课程目录
func (s *CourseService) GetCourses(ctx context.Context, q CourseQuery) (result *CatalogResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "courses.list", attribute.String("category", q.Category))
	defer func() { tracing.End(span, err) }()

	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	courses, err := s.CourseRepo.List(ctx, category, s.limit(q.Max))
	if err != nil {
		monitoring.CatalogFetches.WithLabelValues(string(CatalogUnavailable)).Inc()
		if s.Placeholders {
			logger.Log.Warn("Catalog unavailable, serving placeholder courses", zap.Error(err))
			return &CatalogResult{State: CatalogUnavailable, Courses: placeholderCourses(category), Placeholder: true}, nil
		}
		return &CatalogResult{State: CatalogUnavailable, Courses: []model.Course{}}, util.Unavailable("courses.list", err)
	}

	state := CatalogReady
	if len(courses) == 0 {
		state = CatalogEmpty
	}
	monitoring.CatalogFetches.WithLabelValues(string(state)).Inc()
	return &CatalogResult{State: state, Courses: courses}, nil
}

// GetCourse 获取课程，不存在时返回 nil
func (s *CourseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, util.Unavailable("courses.get", err)
	}
	return course, nil
}

// CreateCourse 创建课程，计数字段一律从零开始
func (s *CourseService) CreateCourse(ctx context.Context, in CourseInput, instructor *model.User) (*model.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, util.Invalid("courses.create", "title is required")
	}
	if instructor == nil {
		return nil, util.ErrPermissionDenied
	}

	name := instructor.DisplayName
	if name == "" {
		name = instructor.Email
	}
	course := &model.Course{
		Title:        title,
		Description:  in.Description,
		Category:     strings.TrimSpace(in.Category),
		InstructorID: instructor.ID,
		Instructor:   name,
		Price:        in.Price,
		Level:        in.Level,
		Duration:     in.Duration,
		ThumbnailURL: in.ThumbnailURL,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, util.Unavailable("courses.create", err)
	}
	return course, nil
}

func (s *CourseService) GetTeacherCourses(ctx context.Context, teacherID string) ([]model.Course, error) {
	courses, err := s.CourseRepo.FindByInstructor(ctx, teacherID)
	if err != nil {
		return nil, util.Unavailable("courses.by_instructor", err)
	}
	return courses, nil
}

func (s *CourseService) GetTeacherStats(ctx context.Context, teacherID string) (*TeacherStats, error) {
	courses, err := s.GetTeacherCourses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	stats := ComputeTeacherStats(courses)
	return &stats, nil
}

// ComputeTeacherStats 汇总报名人数并计算平均评分，没有课程时全部为零
func ComputeTeacherStats(courses []model.Course) TeacherStats {
	stats := TeacherStats{TotalCourses: len(courses)}
	if len(courses) == 0 {
		return stats
	}
	var ratings float64
	for _, c := range courses {
		stats.TotalStudents += c.StudentsEnrolled
		ratings += c.Rating
	}
	stats.AvgRating = ratings / float64(len(courses))
	return stats
}

// GetTeacherStudents 查询报名了该教师课程的学生（去重）
func (s *CourseService) GetTeacherStudents(ctx context.Context, teacherID string) ([]model.User, error) {
	courses, err := s.GetTeacherCourses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	userIDs, err := s.EnrollmentRepo.DistinctUsersInCourses(ctx, ids)
	if err != nil {
		return nil, util.Unavailable("courses.students", err)
	}
	users, err := s.UserRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, util.Unavailable("courses.students", err)
	}
	return users, nil
}

func placeholderCourses(category string) []model.Course {
	demo := []model.Course{
		{UUIDBase: model.UUIDBase{ID: "placeholder-1"}, Title: "Introduction to Programming", Category: "programming", Instructor: "Learnul", Level: "beginner", Duration: 120, LessonsCount: 8, Rating: 4.5},
		{UUIDBase: model.UUIDBase{ID: "placeholder-2"}, Title: "Design Fundamentals", Category: "design", Instructor: "Learnul", Level: "beginner", Duration: 90, LessonsCount: 6, Rating: 4.2},
		{UUIDBase: model.UUIDBase{ID: "placeholder-3"}, Title: "Data Analysis Basics", Category: "data", Instructor: "Learnul", Level: "intermediate", Duration: 150, LessonsCount: 10, Rating: 4.7},
	}
	if category == "" {
		return demo
	}
	out := demo[:0]
	for _, c := range demo {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}
