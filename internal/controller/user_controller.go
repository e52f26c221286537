package controller

import (
	"learnul_backend/internal/middleware"
	"learnul_backend/internal/model"
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController 处理用户相关的HTTP请求
type UserController struct {
	UserService      *service.UserService
	LessonService    *service.LessonService
	AnalyticsService *service.AnalyticsService
	MaxUploadBytes   int64
}

func NewUserController(userService *service.UserService, lessonService *service.LessonService, analytics *service.AnalyticsService, maxUploadBytes int64) *UserController {
	return &UserController{
		UserService:      userService,
		LessonService:    lessonService,
		AnalyticsService: analytics,
		MaxUploadBytes:   maxUploadBytes,
	}
}

// ActivityRequest 记录用户行为
// swagger:model ActivityRequest
type ActivityRequest struct {
	Action   string                 `json:"action" binding:"required,notblank,max=100"`
	Metadata map[string]interface{} `json:"metadata"`
}

func principalID(ctx *gin.Context) string {
	if sess := middleware.CurrentSession(ctx); sess != nil {
		if p := sess.Principal(); p != nil {
			return p.UserID
		}
	}
	return ""
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Tags 用户
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response "用户资料不存在"
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		util.HandleError(ctx, util.ErrUserNotFound)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Description 只修改请求中出现的字段；角色不可在此修改
// @Tags 用户
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body service.ProfileUpdate true "资料字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	user, err := c.UserService.UpdateUserProfile(ctx.Request.Context(), principalID(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Security ApiKeyAuth
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "文件类型或大小不符合要求"
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	mimeType, err := sniffUpload(fh, c.MaxUploadBytes, util.AvatarMimeTypes)
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

	user, err := c.UserService.UpdateAvatar(ctx.Request.Context(), principalID(ctx), fh.Filename, f, fh.Size, mimeType)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// CompleteLesson godoc
// @Summary 标记课时完成
// @Description 记录完成的课时并更新连续学习天数
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *UserController) CompleteLesson(ctx *gin.Context) {
	lessonID := ctx.Param("id")
	userID := principalID(ctx)

	user, err := c.UserService.MarkLessonComplete(ctx.Request.Context(), userID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	meta := map[string]interface{}{"lessonId": lessonID}
	if lesson, err := c.LessonService.GetLesson(ctx.Request.Context(), lessonID); err == nil && lesson != nil {
		meta["courseId"] = lesson.CourseID
	}
	c.AnalyticsService.TrackAsync(ctx.Request.Context(), userID, model.ActionLessonCompleted, meta)

	util.Success(ctx, user)
}

// MyActivity godoc
// @Summary 我的学习记录
// @Description 按时间倒序返回当前用户的行为记录
// @Tags 分析
// @Security ApiKeyAuth
// @Produce  json
// @Param   limit query int false "条数，默认50，最多100"
// @Success 200 {object} util.Response{data=[]model.ActivityEvent}
// @Router /api/activity [get]
func (c *UserController) MyActivity(ctx *gin.Context) {
	events, err := c.AnalyticsService.GetUserActivity(ctx.Request.Context(), principalID(ctx), util.QueryInt(ctx, "limit", 0))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// TrackActivity godoc
// @Summary 记录用户行为
// @Description 追加一条行为记录，不返回内容
// @Tags 分析
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body ActivityRequest true "行为"
// @Success 202 {object} util.Response
// @Router /api/activity [post]
func (c *UserController) TrackActivity(ctx *gin.Context) {
	var req ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	c.AnalyticsService.TrackAsync(ctx.Request.Context(), principalID(ctx), req.Action, req.Metadata)
	ctx.JSON(http.StatusAccepted, util.Response{Code: http.StatusAccepted, Message: "accepted"})
}
