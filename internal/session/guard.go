package session

import "learnul_backend/internal/model"

// Decision 受保护页面对当前会话的处理结果
type Decision int

const (
	Wait Decision = iota
	RequireSignIn
	Forbidden
	Unavailable
	Allow
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case RequireSignIn:
		return "sign_in"
	case Forbidden:
		return "forbidden"
	case Unavailable:
		return "unavailable"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// Authorize 判断会话能否访问限定角色的页面。未指定角色时任何登录用户都可访问，被禁用的用户一律拒绝
func (s *Session) Authorize(allowed ...model.UserRole) Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case Unresolved, ResolvingProfile:
		return Wait
	case SignedOut:
		return RequireSignIn
	case Degraded:
		return Unavailable
	}

	if s.profile != nil && s.profile.Disabled {
		return Forbidden
	}
	if len(allowed) == 0 {
		return Allow
	}
	for _, r := range allowed {
		if r == s.role {
			return Allow
		}
	}
	return Forbidden
}
