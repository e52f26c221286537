package middleware

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/session"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	claimsKey  = "user"
	sessionKey = "session"
)

// Authenticator 校验 Bearer 令牌
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// 媒体标签无法携带请求头，允许通过查询参数传递
	return c.Query("token")
}

// AuthMiddleware 认证中间件，校验令牌并根据存储的用户资料创建会话，不检查角色
func AuthMiddleware(auth Authenticator, profiles session.ProfileSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("Token rejected", zap.Error(err))
			util.HandleError(c, err)
			c.Abort()
			return
		}

		sess := session.New(profiles)
		sess.SignIn(c.Request.Context(), session.Principal{UserID: claims.UserID, Email: claims.Email})

		c.Set(claimsKey, claims)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession 获取当前请求的会话，未经过 AuthMiddleware 时返回 nil
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// CurrentUser 获取当前登录用户的资料
func CurrentUser(c *gin.Context) *model.User {
	if sess := CurrentSession(c); sess != nil {
		return sess.Profile()
	}
	return nil
}

// RoleMiddleware 角色中间件，只放行指定角色；未指定角色时任何登录用户都可通过
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		switch sess.Authorize(roles...) {
		case session.Allow:
			c.Next()
			return
		case session.Forbidden:
			util.Forbidden(c)
		case session.Unavailable:
			logger.Log.Warn("Profile unavailable for signed-in user",
				zap.String("path", c.FullPath()),
				zap.Error(sess.Err()))
			util.ServiceUnavailable(c, "profile unavailable")
		case session.RequireSignIn:
			util.Unauthorized(c)
		default:
			util.ServiceUnavailable(c, "session not resolved")
		}
		c.Abort()
	}
}

// MaintenanceMiddleware 维护模式中间件，维护期间返回503，健康检查不受影响
func MaintenanceMiddleware(enabled func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled() && !strings.HasSuffix(c.Request.URL.Path, "/health") {
			c.Header("Retry-After", "300")
			util.ErrorJSON(c, http.StatusServiceUnavailable, "under maintenance")
			c.Abort()
			return
		}
		c.Next()
	}
}
