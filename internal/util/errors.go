package util

import (
	"errors"
	"fmt"
)

// ErrorKind 错误类别，处理器据此选择状态码，无需关心出错的存储
type ErrorKind string

const (
	KindBackendUnavailable ErrorKind = "backend_unavailable"
	KindValidation         ErrorKind = "validation_failure"
	KindPartialWrite       ErrorKind = "partial_write_failure"
	KindPermission         ErrorKind = "permission_denied"
	KindConflict           ErrorKind = "conflict"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindNotFound           ErrorKind = "not_found"
)

type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newKind(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

var (
	ErrUserNotFound       = newKind(KindNotFound, "user not found")
	ErrCourseNotFound     = newKind(KindNotFound, "course not found")
	ErrLessonNotFound     = newKind(KindNotFound, "lesson not found")
	ErrQuizNotFound       = newKind(KindNotFound, "quiz not found")
	ErrEmailRegistered    = newKind(KindConflict, "email already registered")
	ErrAlreadyEnrolled    = newKind(KindConflict, "already enrolled in course")
	ErrInvalidCredentials = newKind(KindUnauthenticated, "invalid credentials")
	ErrTokenRevoked       = newKind(KindUnauthenticated, "token revoked")
	ErrUserDisabled       = newKind(KindPermission, "user disabled")
	ErrPermissionDenied   = newKind(KindPermission, "permission denied")
	ErrInvalidResetToken  = newKind(KindValidation, "invalid or expired reset token")
)

// Unavailable 标记外部存储调用失败
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBackendUnavailable, Op: op, Err: err}
}

// Invalid 客户端参数校验失败
func Invalid(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// PartialWrite 多步写入失败且留下了残留数据
func PartialWrite(op string, err error) error {
	return &Error{Kind: KindPartialWrite, Op: op, Err: err}
}

// KindOf 返回错误链中最外层 *Error 的类别，未分类的错误返回空字符串
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == "" {
			return KindOf(e.Err)
		}
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
