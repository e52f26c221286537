package controller

import (
	"learnul_backend/internal/middleware"
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// LoginRequest 登录请求
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest 申请重置密码
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm 确认重置密码
// swagger:model PasswordResetConfirm
type PasswordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionView 当前会话
// swagger:model SessionView
type SessionView struct {
	State     string      `json:"state"`
	Principal interface{} `json:"principal"`
	Role      string      `json:"role"`
	Profile   interface{} `json:"profile"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册账号并创建用户资料，未指定角色时为 student
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "用户注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 503 {object} util.Response "存储不可用"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult} "成功"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Failure 403 {object} util.Response "账号已禁用"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}

	res, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Logout godoc
// @Summary 退出登录
// @Description 吊销当前令牌
// @Tags 认证
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), util.GetUserFromContext(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	if sess := middleware.CurrentSession(ctx); sess != nil {
		sess.SignOut()
	}
	util.Success(ctx, nil)
}

// CurrentSession godoc
// @Summary 当前会话
// @Description 返回会话状态、身份、角色和用户资料
// @Tags 认证
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=SessionView}
// @Router /api/session [get]
func (c *AuthController) CurrentSession(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	if sess == nil {
		util.Unauthorized(ctx)
		return
	}
	view := SessionView{
		State: sess.State().String(),
		Role:  string(sess.Role()),
	}
	if p := sess.Principal(); p != nil {
		view.Principal = p
	}
	if u := sess.Profile(); u != nil {
		view.Profile = u
	}
	util.Success(ctx, view)
}

// RequestPasswordReset godoc
// @Summary 申请重置密码
// @Description 向邮箱发送重置链接；未注册的邮箱同样返回成功
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body PasswordResetRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/password-reset [post]
func (c *AuthController) RequestPasswordReset(ctx *gin.Context) {
	var req PasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	if err := c.AuthService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ConfirmPasswordReset godoc
// @Summary 确认重置密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body PasswordResetConfirm true "令牌和新密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/password-reset/confirm [post]
func (c *AuthController) ConfirmPasswordReset(ctx *gin.Context) {
	var req PasswordResetConfirm
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	if err := c.AuthService.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
