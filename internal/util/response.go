package util

import (
	"learnul_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Kind    ErrorKind   `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

// ErrorJSON 按给定状态码返回错误消息
func ErrorJSON(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	ErrorJSON(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	ErrorJSON(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	ErrorJSON(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	ErrorJSON(c, http.StatusNotFound, "Resource not found")
}

func ServiceUnavailable(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, Response{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Kind:    KindBackendUnavailable,
	})
}

func InternalServerError(c *gin.Context) {
	ErrorJSON(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// StatusFor 将错误类别映射为HTTP状态码
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError 统一错误响应。服务端错误会记录日志，未分类错误的详情不会返回给客户端
func HandleError(c *gin.Context, err error) {
	status := StatusFor(err)
	kind := KindOf(err)

	message := err.Error()
	switch {
	case kind == "":
		LogInternalError(c, err)
		return
	case status >= http.StatusInternalServerError:
		logger.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(kind)),
			zap.Error(err))
		if kind == KindBackendUnavailable {
			message = "backend unavailable"
		}
	}

	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Kind:    kind,
	})
}
