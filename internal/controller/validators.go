package controller

import (
	"errors"
	"fmt"
	"learnul_backend/internal/model"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 自定义校验标签
const (
	roleTag       = "role"
	signupRoleTag = "signuprole"
	lessonTypeTag = "lessontype"
	notBlankTag   = "notblank"
)

var registerOnce sync.Once

// RegisterValidators 在gin的校验器上注册自定义标签
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 错误信息使用JSON字段名而不是结构体字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
			return model.UserRole(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(signupRoleTag, func(fl validator.FieldLevel) bool {
			r := model.UserRole(fl.Field().String())
			return r == model.Student || r == model.Teacher
		})
		_ = v.RegisterValidation(lessonTypeTag, func(fl validator.FieldLevel) bool {
			return model.LessonType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// validationMessage 将绑定错误转换为一行可读的提示
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", notBlankTag:
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case roleTag, signupRoleTag:
			parts = append(parts, fmt.Sprintf("%s %q is not an allowed role", fe.Field(), fe.Value()))
		case lessonTypeTag:
			parts = append(parts, fmt.Sprintf("%s must be video, article or quiz", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}
