package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

// ResolveRole 将存储的角色转换为有效角色，缺失或无法识别时为权限最低的学生
func ResolveRole(r UserRole) UserRole {
	if r.Valid() {
		return r
	}
	return Student
}

// swagger:model User
type User struct {
	UUIDBase
	Email            string                      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	DisplayName      string                      `gorm:"size:100" json:"displayName"`
	Password         string                      `gorm:"size:100;not null" json:"-"`
	Role             UserRole                    `gorm:"size:20;not null;default:'student'" json:"role"`
	EnrolledCourses  datatypes.JSONSlice[string] `json:"enrolledCourses"`
	CompletedLessons datatypes.JSONSlice[string] `json:"completedLessons"`
	Streak           int                         `gorm:"default:0" json:"streak"`
	LastActivity     *time.Time                  `json:"lastActivity"`
	Bio              string                      `gorm:"size:1000" json:"bio"`
	Location         string                      `gorm:"size:200" json:"location"`
	Links            datatypes.JSONMap           `json:"links"`
	PhotoURL         string                      `gorm:"size:255" json:"photoURL"`
	Disabled         bool                        `gorm:"default:false" json:"disabled"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成ID并确定角色，保证存储的用户都有角色
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if err := u.UUIDBase.BeforeCreate(tx); err != nil {
		return err
	}
	u.Role = ResolveRole(u.Role)
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = datatypes.JSONSlice[string]{}
	}
	if u.CompletedLessons == nil {
		u.CompletedLessons = datatypes.JSONSlice[string]{}
	}
	return nil
}

// AfterFind 规范化旧数据中缺失的角色
func (u *User) AfterFind(tx *gorm.DB) error {
	u.Role = ResolveRole(u.Role)
	return nil
}

func (u *User) Status() string {
	if u.Disabled {
		return "disabled"
	}
	return "active"
}

// HasEnrolled 是否已报名该课程
func (u *User) HasEnrolled(courseID string) bool {
	return containsString(u.EnrolledCourses, courseID)
}

func (u *User) HasCompleted(lessonID string) bool {
	return containsString(u.CompletedLessons, lessonID)
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// AddToSet 不存在时追加 v，等同于数组并集写入
func AddToSet(set datatypes.JSONSlice[string], v string) (datatypes.JSONSlice[string], bool) {
	if containsString(set, v) {
		return set, false
	}
	return append(set, v), true
}
