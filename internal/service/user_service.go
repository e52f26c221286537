package service

import (
	"context"
	"io"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/monitoring"
	"learnul_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultUserListLimit = 100

// ProfileUpdate 可修改的资料字段，为 nil 的字段不修改
// swagger:model ProfileUpdate
type ProfileUpdate struct {
	DisplayName *string            `json:"displayName"`
	Bio         *string            `json:"bio"`
	Location    *string            `json:"location"`
	Links       *map[string]string `json:"links"`
	PhotoURL    *string            `json:"photoURL"`
}

func (p ProfileUpdate) fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if p.DisplayName != nil {
		name := strings.TrimSpace(*p.DisplayName)
		if name == "" || len(name) > 100 {
			return nil, util.Invalid("users.update", "displayName must be 1-100 characters")
		}
		fields["display_name"] = name
	}
	if p.Bio != nil {
		if len(*p.Bio) > 1000 {
			return nil, util.Invalid("users.update", "bio must be at most 1000 characters")
		}
		fields["bio"] = *p.Bio
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if p.Links != nil {
		links := datatypes.JSONMap{}
		for k, v := range *p.Links {
			links[k] = v
		}
		fields["links"] = links
	}
	if p.PhotoURL != nil {
		fields["photo_url"] = *p.PhotoURL
	}
	return fields, nil
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo       *repository.UserRepository
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
	Location       *time.Location
	Clock          Clock
}

func NewUserService(
	userRepo *repository.UserRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage *StorageService,
	loc *time.Location,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
		Location:       loc,
	}
}

// GetUserData 获取用户资料，不存在时返回 nil
func (s *UserService) GetUserData(ctx context.Context, userID string) (user *model.User, err error) {
	ctx, span := tracing.StartSpan(ctx, "users.get", attribute.String("user.id", userID))
	defer func() { tracing.End(span, err) }()

	user, err = s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, util.Unavailable("users.get", err)
	}
	return user, nil
}

// UpdateUserProfile 合并更新用户资料，不能修改角色
func (s *UserService) UpdateUserProfile(ctx context.Context, userID string, update ProfileUpdate) (user *model.User, err error) {
	ctx, span := tracing.StartSpan(ctx, "users.update", attribute.String("user.id", userID))
	defer func() { tracing.End(span, err) }()

	fields, err := update.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		n, err := s.UserRepo.UpdateFields(ctx, userID, fields)
		if err != nil {
			return nil, util.Unavailable("users.update", err)
		}
		if n == 0 {
			return nil, util.ErrUserNotFound
		}
	}

	user, err = s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, util.Unavailable("users.update", err)
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// UpdateAvatar 上传头像并更新资料，资料写入失败时删除已上传的头像
func (s *UserService) UpdateAvatar(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (*model.User, error) {
	key := ObjectKey("avatars/"+userID, filename)
	url, err := s.Storage.UploadFile(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	user, err := s.UpdateUserProfile(ctx, userID, ProfileUpdate{PhotoURL: &url})
	if err != nil {
		return nil, compensate(ctx, s.Storage, key, "users.avatar", err)
	}
	return user, nil
}

// MarkLessonComplete 记录完成的课时并更新连续学习天数，每个自然日最多加一，不会重置
func (s *UserService) MarkLessonComplete(ctx context.Context, userID, lessonID string) (user *model.User, err error) {
	ctx, span := tracing.StartSpan(ctx, "users.complete_lesson",
		attribute.String("user.id", userID),
		attribute.String("lesson.id", lessonID))
	defer func() { tracing.End(span, err) }()

	now := s.Clock.now()
	err = s.UserRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)

		u, err := users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return util.ErrUserNotFound
		}
		lesson, err := s.LessonRepo.WithTx(tx).FindByID(ctx, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return util.ErrLessonNotFound
		}

		completed, added := model.AddToSet(u.CompletedLessons, lessonID)
		streak := u.Streak
		if u.LastActivity == nil || !sameDay(*u.LastActivity, now, s.Location) {
			streak++
		}

		if _, err := users.UpdateFields(ctx, userID, map[string]interface{}{
			"completed_lessons": completed,
			"streak":            streak,
			"last_activity":     now,
		}); err != nil {
			return err
		}
		u.CompletedLessons = completed
		u.Streak = streak
		u.LastActivity = &now

		if added {
			if err := s.CourseRepo.WithTx(tx).BumpPopularity(ctx, lesson.CourseID, 1); err != nil {
				return err
			}
		}

		if err := s.updateProgress(ctx, tx, u, lesson.CourseID, now); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, storeErr("users.complete_lesson", err)
	}
	monitoring.LessonCompletions.Inc()
	return user, nil
}

// updateProgress 重新计算课程的学习进度，未报名的用户没有可更新的记录
func (s *UserService) updateProgress(ctx context.Context, tx *gorm.DB, u *model.User, courseID string, now time.Time) error {
	lessons, err := s.LessonRepo.WithTx(tx).FindByCourse(ctx, courseID)
	if err != nil || len(lessons) == 0 {
		return err
	}
	done := 0
	for _, l := range lessons {
		if u.HasCompleted(l.ID) {
			done++
		}
	}
	progress := done * 100 / len(lessons)
	return s.EnrollmentRepo.WithTx(tx).Touch(ctx, u.ID, courseID, map[string]interface{}{
		"progress":      progress,
		"completed":     progress == 100,
		"last_accessed": now,
	})
}

// GetAllUsers 按创建时间倒序返回最多 max 个用户
func (s *UserService) GetAllUsers(ctx context.Context, max int) ([]model.User, error) {
	if max <= 0 {
		max = defaultUserListLimit
	}
	users, err := s.UserRepo.List(ctx, max)
	if err != nil {
		return nil, util.Unavailable("users.list", err)
	}
	return users, nil
}

// UpdateUserRole 修改用户角色的唯一入口
func (s *UserService) UpdateUserRole(ctx context.Context, userID string, role model.UserRole) (*model.User, error) {
	if !role.Valid() {
		return nil, util.Invalid("users.role", "unknown role %q", role)
	}
	n, err := s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"role": role})
	if err != nil {
		return nil, util.Unavailable("users.role", err)
	}
	if n == 0 {
		return nil, util.ErrUserNotFound
	}
	return s.GetUserData(ctx, userID)
}

// SetDisabled 禁用或启用用户
func (s *UserService) SetDisabled(ctx context.Context, userID string, disabled bool) error {
	n, err := s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"disabled": disabled})
	if err != nil {
		return util.Unavailable("users.disable", err)
	}
	if n == 0 {
		return util.ErrUserNotFound
	}
	return nil
}
