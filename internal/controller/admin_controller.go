package controller

import (
	"learnul_backend/internal/model"
	"learnul_backend/internal/service"
	"learnul_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	UserService   *service.UserService
	CourseService *service.CourseService
}

func NewAdminController(userService *service.UserService, courseService *service.CourseService) *AdminController {
	return &AdminController{UserService: userService, CourseService: courseService}
}

// UpdateRoleRequest 修改用户角色
// swagger:model UpdateRoleRequest
type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required,role"`
}

// UpdateStatusRequest 启用/禁用用户
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Disabled bool `json:"disabled"`
}

// GetUsers godoc
// @Summary 获取用户列表
// @Description 获取用户列表，支持筛选和排序
// @Tags 用户管理
// @Security ApiKeyAuth
// @Produce  json
// @Param   limit query int false "最大条数" default(100)
// @Param   search query string false "搜索关键词"
// @Param   role query string false "角色筛选"
// @Param   status query string false "active|disabled"
// @Param   sortBy query string false "name|email|role|status"
// @Param   order query string false "asc|desc"
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/users [get]
func (c *AdminController) GetUsers(ctx *gin.Context) {
	users, err := c.UserService.GetAllUsers(ctx.Request.Context(), util.QueryInt(ctx, "limit", 0))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.FilterUsers(users, service.UserFilter{
		Search: ctx.Query("search"),
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		SortBy: ctx.Query("sortBy"),
		Desc:   ctx.Query("order") == "desc",
	}))
}

// UpdateUserRole godoc
// @Summary 修改用户角色
// @Tags 用户管理
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   body body UpdateRoleRequest true "角色"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/users/{id}/role [put]
func (c *AdminController) UpdateUserRole(ctx *gin.Context) {
	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	user, err := c.UserService.UpdateUserRole(ctx.Request.Context(), ctx.Param("id"), req.Role)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUserStatus godoc
// @Summary 禁用/启用用户
// @Tags 用户管理
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   id path string true "用户ID"
// @Param   body body UpdateStatusRequest true "状态"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/status [put]
func (c *AdminController) UpdateUserStatus(ctx *gin.Context) {
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, validationMessage(err))
		return
	}
	if err := c.UserService.SetDisabled(ctx.Request.Context(), ctx.Param("id"), req.Disabled); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetCourses godoc
// @Summary 全部课程
// @Tags 用户管理
// @Security ApiKeyAuth
// @Produce  json
// @Param   limit query int false "最大条数"
// @Success 200 {object} util.Response{data=service.CatalogResult}
// @Router /api/admin/courses [get]
func (c *AdminController) GetCourses(ctx *gin.Context) {
	res, err := c.CourseService.GetCourses(ctx.Request.Context(), service.CourseQuery{Max: util.QueryInt(ctx, "limit", 100)})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
