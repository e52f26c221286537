package controller

import (
	"learnul_backend/internal/model"
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService     *service.CourseService
	LessonService     *service.LessonService
	EnrollmentService *service.EnrollmentService
	AnalyticsService  *service.AnalyticsService
}

func NewCourseController(
	courseService *service.CourseService,
	lessonService *service.LessonService,
	enrollmentService *service.EnrollmentService,
	analytics *service.AnalyticsService,
) *CourseController {
	return &CourseController{
		CourseService:     courseService,
		LessonService:     lessonService,
		EnrollmentService: enrollmentService,
		AnalyticsService:  analytics,
	}
}

func optionalFloat(ctx *gin.Context, key string) *float64 {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ListCourses godoc
// @Summary 课程目录
// @Description 按分类读取课程，再按关键词、价格区间筛选并排序
// @Tags 课程
// @Produce  json
// @Param   category query string false "分类，all 表示全部"
// @Param   limit query int false "最大条数" default(20)
// @Param   search query string false "关键词"
// @Param   minPrice query number false "最低价格"
// @Param   maxPrice query number false "最高价格"
// @Param   sort query string false "popular|price-low|price-high|rating|students"
// @Success 200 {object} util.Response{data=service.CatalogResult}
// @Failure 503 {object} util.Response "课程目录不可用"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	category := ctx.Query("category")
	res, err := c.CourseService.GetCourses(ctx.Request.Context(), service.CourseQuery{
		Category: category,
		Max:      util.QueryInt(ctx, "limit", 0),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	filtered := service.FilterCourses(res.Courses, service.CatalogFilter{
		Search:   ctx.Query("search"),
		MinPrice: optionalFloat(ctx, "minPrice"),
		MaxPrice: optionalFloat(ctx, "maxPrice"),
		Sort:     ctx.Query("sort"),
	})
	out := *res
	out.Courses = filtered
	if out.State == service.CatalogReady && len(filtered) == 0 {
		out.State = service.CatalogEmpty
	}
	util.Success(ctx, out)
}

// GetCourse godoc
// @Summary 课程详情
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if course == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// GetCourseLessons godoc
// @Summary 课程课时列表
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{id}/lessons [get]
func (c *CourseController) GetCourseLessons(ctx *gin.Context) {
	lessons, err := c.LessonService.GetCourseLessons(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Enroll godoc
// @Summary 报名课程
// @Tags 课程
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "已报名"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	courseID := ctx.Param("id")
	userID := principalID(ctx)

	enrollment, err := c.EnrollmentService.EnrollInCourse(ctx.Request.Context(), userID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.AnalyticsService.TrackAsync(ctx.Request.Context(), userID, model.ActionCourseEnrolled, map[string]interface{}{"courseId": courseID})
	util.Created(ctx, enrollment)
}

// MyEnrollments godoc
// @Summary 我的报名
// @Description 含学习进度，按报名时间倒序
// @Tags 课程
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *CourseController) MyEnrollments(ctx *gin.Context) {
	enrollments, err := c.EnrollmentService.GetUserEnrollments(ctx.Request.Context(), principalID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
