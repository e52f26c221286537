// Package session 会话管理：当前登录用户及其角色。
//
// 会话初始为 Unresolved。SignIn 进入 ResolvingProfile，读取用户资料成功后为 SignedIn，
// 失败则为 Degraded。SignOut 在任何状态下都会清空会话。
package session

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/pkg/monitoring"
	"sync"
)

type State int

const (
	Unresolved State = iota
	SignedOut
	ResolvingProfile
	SignedIn
	Degraded
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case SignedOut:
		return "signed_out"
	case ResolvingProfile:
		return "resolving_profile"
	case SignedIn:
		return "signed_in"
	case Degraded:
		return "degraded"
	}
	return "unknown"
}

// Principal 已认证的身份，尚未加载用户资料
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// ProfileSource 读取用户资料。资料和错误都为 nil 表示该用户还没有资料
type ProfileSource interface {
	GetUserData(ctx context.Context, userID string) (*model.User, error)
}

type Session struct {
	source ProfileSource

	mu        sync.RWMutex
	state     State
	gen       uint64
	principal *Principal
	profile   *model.User
	role      model.UserRole
	err       error
}

func New(source ProfileSource) *Session {
	return &Session{source: source}
}

// SignIn 读取一次用户资料并返回最终状态。同一用户已登录或正在加载时重复调用会被忽略
func (s *Session) SignIn(ctx context.Context, p Principal) State {
	s.mu.Lock()
	if s.principal != nil && s.principal.UserID == p.UserID &&
		(s.state == SignedIn || s.state == ResolvingProfile) {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.gen++
	gen := s.gen
	s.principal = &p
	s.profile = nil
	s.role = ""
	s.err = nil
	s.state = ResolvingProfile
	s.mu.Unlock()

	profile, err := s.source.GetUserData(ctx, p.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// 读取期间已退出或切换了用户
		return s.state
	}
	if err != nil {
		s.err = err
		s.state = Degraded
	} else {
		s.profile = profile
		s.role = model.Student
		if profile != nil {
			s.role = model.ResolveRole(profile.Role)
		}
		s.state = SignedIn
	}
	monitoring.SessionResolutions.WithLabelValues(s.state.String()).Inc()
	return s.state
}

// SignOut 清空身份、资料和角色
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = SignedOut
	s.principal = nil
	s.profile = nil
	s.role = ""
	s.err = nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading 页面是否仍需等待会话加载
func (s *Session) Loading() bool {
	st := s.State()
	return st == Unresolved || st == ResolvingProfile
}

func (s *Session) Principal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

// Role 仅在 SignedIn 状态下非空
func (s *Session) Role() model.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Profile 用户没有资料时即使 SignedIn 也可能为 nil
func (s *Session) Profile() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Err Degraded 状态对应的读取错误
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
