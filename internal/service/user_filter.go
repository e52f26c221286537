package service

import (
	"learnul_backend/internal/model"
	"sort"
	"strings"
)

// UserFilter 定义用户筛选条件
// swagger:model UserFilter
type UserFilter struct {
	Search string
	Role   string
	Status string // 状态：active | disabled
	SortBy string // 排序字段：name | email | role | status
	Desc   bool
}

// FilterUsers 筛选并排序用户列表
func FilterUsers(users []model.User, f UserFilter) []model.User {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if f.Role != "" && f.Role != "all" && string(u.Role) != f.Role {
			continue
		}
		if f.Status != "" && f.Status != "all" && u.Status() != f.Status {
			continue
		}
		out = append(out, u)
	}

	var key func(u model.User) string
	switch f.SortBy {
	case "name":
		key = func(u model.User) string { return strings.ToLower(u.DisplayName) }
	case "email":
		key = func(u model.User) string { return strings.ToLower(u.Email) }
	case "role":
		key = func(u model.User) string { return string(u.Role) }
	case "status":
		key = func(u model.User) string { return u.Status() }
	}
	if key != nil {
		sort.SliceStable(out, func(i, j int) bool {
			if f.Desc {
				return key(out[i]) > key(out[j])
			}
			return key(out[i]) < key(out[j])
		})
	}
	return out
}
