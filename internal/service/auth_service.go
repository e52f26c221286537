package service

import (
	"context"
	"fmt"
	"learnul_backend/internal/config"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/logger"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput 注册请求
// swagger:model RegisterInput
type RegisterInput struct {
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required"`
	DisplayName string         `json:"displayName" binding:"max=100"`
	Role        model.UserRole `json:"role" binding:"omitempty,signuprole"`
}

// LoginResult 登录结果
// swagger:model LoginResult
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Tokens   TokenStore
	Mailer   Mailer
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, tokens TokenStore, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Mailer:   mailer,
		Cfg:      cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) minPassword() int {
	if s.Cfg.Auth.MinPasswordLn > 0 {
		return s.Cfg.Auth.MinPasswordLn
	}
	return 8
}

// Register 注册账号并创建用户资料。自助注册可选学生或教师，未指定时为学生
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, util.Invalid("auth.register", "email is required")
	}
	if len(in.Password) < s.minPassword() {
		return nil, util.Invalid("auth.register", "password must be at least %d characters", s.minPassword())
	}
	switch in.Role {
	case "", model.Student, model.Teacher:
	default:
		return nil, util.Invalid("auth.register", "role %q cannot be chosen at sign-up", in.Role)
	}

	existing, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, util.Unavailable("auth.register", err)
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user := &model.User{
		Email:       email,
		DisplayName: name,
		Password:    string(hashedPassword),
		Role:        in.Role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, util.ErrEmailRegistered
		}
		return nil, util.Unavailable("auth.register", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, util.Unavailable("auth.login", err)
	}
	if user == nil {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, util.ErrUserDisabled
	}

	token, claims, err := util.GenerateJWT(user.ID, user.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authenticate 校验令牌，拒绝已注销的令牌
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, &util.Error{Kind: util.KindUnauthenticated, Op: "auth.verify", Err: err}
	}
	revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, util.Unavailable("auth.verify", err)
	}
	if revoked {
		return nil, util.ErrTokenRevoked
	}
	return claims, nil
}

// Logout 注销令牌直到其过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return nil
	}
	return util.Unavailable("auth.logout", s.Tokens.Revoke(ctx, claims.ID, claims.Remaining()))
}

// RequestPasswordReset 发送一次性重置链接。未注册的邮箱同样返回成功，不暴露账号是否存在
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return util.Unavailable("auth.reset_request", err)
	}
	if user == nil {
		return nil
	}

	token, err := gonanoid.Nanoid(32)
	if err != nil {
		return err
	}
	if err := s.Tokens.SaveResetToken(ctx, token, user.ID, s.Cfg.Auth.ResetTTL); err != nil {
		return util.Unavailable("auth.reset_request", err)
	}

	link := s.Cfg.Auth.ResetURL + "?token=" + url.QueryEscape(token)
	err = s.Mailer.Send(ctx, MailMessage{
		ToName:  user.DisplayName,
		ToEmail: user.Email,
		Subject: "Reset your password",
		Text: fmt.Sprintf("Use this link to choose a new password: %s\nIt expires in %d minutes.",
			link, int(s.Cfg.Auth.ResetTTL/time.Minute)),
	})
	if err != nil {
		logger.Log.Error("Failed to send reset email", zap.String("userId", user.ID), zap.Error(err))
		return util.Unavailable("auth.reset_request", err)
	}
	return nil
}

// ResetPassword 使用重置令牌并保存新密码
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < s.minPassword() {
		return util.Invalid("auth.reset", "password must be at least %d characters", s.minPassword())
	}
	userID, err := s.Tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return util.Unavailable("auth.reset", err)
	}
	if userID == "" {
		return util.ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	n, err := s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": string(hashedPassword)})
	if err != nil {
		return util.Unavailable("auth.reset", err)
	}
	if n == 0 {
		return util.ErrInvalidResetToken
	}
	return nil
}
