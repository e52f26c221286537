package controller

import (
	"encoding/json"
	"learnul_backend/internal/middleware"
	"learnul_backend/internal/model"
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TeacherController struct {
	CourseService    *service.CourseService
	LessonService    *service.LessonService
	AnalyticsService *service.AnalyticsService
	QuizService      *service.QuizService
	StorageService   *service.StorageService
	MaxUploadBytes   int64
}

func NewTeacherController(
	courseService *service.CourseService,
	lessonService *service.LessonService,
	analytics *service.AnalyticsService,
	quizService *service.QuizService,
	storage *service.StorageService,
	maxUploadBytes int64,
) *TeacherController {
	return &TeacherController{
		CourseService:    courseService,
		LessonService:    lessonService,
		AnalyticsService: analytics,
		QuizService:      quizService,
		StorageService:   storage,
		MaxUploadBytes:   maxUploadBytes,
	}
}

// teacher 获取当前教师的用户资料。教师只能操作自己的课程，没有资料的用户无法操作
func teacher(ctx *gin.Context) *model.User {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.HandleError(ctx, util.ErrUserNotFound)
	}
	return user
}

// GetMyCourses godoc
// @Summary 我的课程
// @Tags 教师
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/teacher/courses [get]
func (c *TeacherController) GetMyCourses(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}
	courses, err := c.CourseService.GetTeacherCourses(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 教师
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /api/teacher/courses [post]
func (c *TeacherController) CreateCourse(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}
	var req service.CourseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), req, user)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.AnalyticsService.TrackAsync(ctx.Request.Context(), user.ID, model.ActionCourseCreated, map[string]interface{}{"courseId": course.ID})
	util.Created(ctx, course)
}

// CreateLesson godoc
// @Summary 添加课时
// @Description 接受 JSON，或带 video 文件的 multipart 表单；视频时长由 ffprobe 读取
// @Tags 教师
// @Security ApiKeyAuth
// @Accept  json,mpfd
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   body body service.LessonInput false "课时信息 (JSON)"
// @Param   video formData file false "视频文件 (multipart)"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response "不是该课程的教师"
// @Router /api/teacher/courses/{id}/lessons [post]
func (c *TeacherController) CreateLesson(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}

	var in service.LessonInput
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		parsed, cleanup, err := c.lessonFromForm(ctx)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		defer cleanup()
		in = parsed
	} else if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}

	lesson, err := c.LessonService.CreateLesson(ctx.Request.Context(), user, ctx.Param("id"), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

func (c *TeacherController) lessonFromForm(ctx *gin.Context) (service.LessonInput, func(), error) {
	noop := func() {}
	in := service.LessonInput{
		Title:   ctx.PostForm("title"),
		Content: ctx.PostForm("content"),
		Type:    model.LessonType(ctx.DefaultPostForm("type", string(model.LessonVideo))),
	}
	in.Order, _ = strconv.Atoi(ctx.PostForm("order"))
	in.Duration, _ = strconv.Atoi(ctx.PostForm("duration"))
	if raw := ctx.PostForm("questions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Questions); err != nil {
			return in, noop, util.Invalid("lessons.create", "questions must be a JSON array")
		}
	}

	fh, err := ctx.FormFile("video")
	if err != nil {
		return in, noop, nil
	}
	if !hasExtension(fh.Filename, util.AllowedVideoExtensions) {
		return in, noop, util.Invalid("lessons.create", "unsupported video extension %q", filepath.Ext(fh.Filename))
	}
	mimeType, err := sniffUpload(fh, c.MaxUploadBytes, []string{util.MimeVideo})
	if err != nil {
		return in, noop, err
	}
	path, err := spoolToTemp(fh)
	if err != nil {
		return in, noop, err
	}
	in.VideoPath = path
	in.VideoName = fh.Filename
	in.VideoContentType = mimeType
	return in, func() {
		if err := os.Remove(path); err != nil {
			logger.Log.Warn("Failed to remove spooled upload", zap.String("path", path), zap.Error(err))
		}
	}, nil
}

// GetStats godoc
// @Summary 教师统计
// @Description 学生总数、课程数、平均评分
// @Tags 教师
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=service.TeacherStats}
// @Router /api/teacher/stats [get]
func (c *TeacherController) GetStats(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}
	stats, err := c.CourseService.GetTeacherStats(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// GetStudents godoc
// @Summary 我的学生
// @Description 报名过任一本人课程的学生，每人一条
// @Tags 教师
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/teacher/students [get]
func (c *TeacherController) GetStudents(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}
	students, err := c.CourseService.GetTeacherStudents(ctx.Request.Context(), user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// GetCourseAnalytics godoc
// @Summary 课程行为记录
// @Description 最近 100 条，按时间倒序
// @Tags 教师
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ActivityEvent}
// @Failure 403 {object} util.Response
// @Router /api/teacher/courses/{id}/analytics [get]
func (c *TeacherController) GetCourseAnalytics(ctx *gin.Context) {
	course := c.managedCourse(ctx, ctx.Param("id"))
	if course == nil {
		return
	}

	events, err := c.AnalyticsService.GetCourseAnalytics(ctx.Request.Context(), course.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// managedCourse 加载课程，仅限课程教师或管理员；否则写入错误响应并返回 nil
func (c *TeacherController) managedCourse(ctx *gin.Context, courseID string) *model.Course {
	user := teacher(ctx)
	if user == nil {
		return nil
	}
	course, err := c.CourseService.GetCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return nil
	}
	if course == nil {
		util.HandleError(ctx, util.ErrCourseNotFound)
		return nil
	}
	if user.Role != model.Admin && course.InstructorID != user.ID {
		util.HandleError(ctx, util.ErrPermissionDenied)
		return nil
	}
	return course
}

// GetQuizAnswers godoc
// @Summary 测验答案
// @Description 返回包含正确答案的测验，仅限课程教师或管理员
// @Tags 教师
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Router /api/teacher/quizzes/{id} [get]
func (c *TeacherController) GetQuizAnswers(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if quiz == nil {
		util.HandleError(ctx, util.ErrQuizNotFound)
		return
	}
	lesson, err := c.LessonService.GetLesson(ctx.Request.Context(), quiz.LessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if lesson == nil {
		util.HandleError(ctx, util.ErrLessonNotFound)
		return
	}
	if c.managedCourse(ctx, lesson.CourseID) == nil {
		return
	}
	util.Success(ctx, quiz)
}

// Upload godoc
// @Summary 上传课程资源
// @Tags 教师
// @Security ApiKeyAuth
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/teacher/uploads [post]
func (c *TeacherController) Upload(ctx *gin.Context) {
	user := teacher(ctx)
	if user == nil {
		return
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	mimeType, err := sniffUpload(fh, c.MaxUploadBytes, util.LessonMimeTypes)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	key := service.ObjectKey("uploads/"+user.ID, fh.Filename)
	url, err := c.StorageService.UploadFile(ctx.Request.Context(), key, f, fh.Size, mimeType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url, "key": key, "contentType": mimeType})
}

func hasExtension(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
