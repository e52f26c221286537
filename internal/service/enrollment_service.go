package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/internal/util"
	"learnul_backend/pkg/monitoring"
	"learnul_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Clock          Clock
}

func NewEnrollmentService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *EnrollmentService {
	return &EnrollmentService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// EnrollInCourse 在一个事务中记录用户报名、递增课程报名人数并创建报名记录。
// 重复报名返回冲突且不做任何修改
func (s *EnrollmentService) EnrollInCourse(ctx context.Context, userID, courseID string) (enrollment *model.Enrollment, err error) {
	ctx, span := tracing.StartSpan(ctx, "enrollments.create",
		attribute.String("user.id", userID),
		attribute.String("course.id", courseID))
	defer func() { tracing.End(span, err) }()

	now := s.Clock.now()
	err = s.EnrollmentRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		courses := s.CourseRepo.WithTx(tx)
		enrollments := s.EnrollmentRepo.WithTx(tx)

		user, err := users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return util.ErrUserNotFound
		}
		course, err := courses.FindByID(ctx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return util.ErrCourseNotFound
		}

		enrolled, added := model.AddToSet(user.EnrolledCourses, courseID)
		existing, err := enrollments.CountFor(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if !added || existing > 0 {
			return util.ErrAlreadyEnrolled
		}

		if _, err := users.UpdateFields(ctx, userID, map[string]interface{}{"enrolled_courses": enrolled}); err != nil {
			return err
		}
		if _, err := courses.IncrementEnrolled(ctx, courseID, 1); err != nil {
			return err
		}
		if err := courses.BumpPopularity(ctx, courseID, 1); err != nil {
			return err
		}
		e := &model.Enrollment{
			UserID:       userID,
			CourseID:     courseID,
			EnrolledAt:   now,
			LastAccessed: now,
		}
		if err := enrollments.Create(ctx, e); err != nil {
			if isDuplicate(err) {
				return util.ErrAlreadyEnrolled
			}
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		return nil, storeErr("enrollments.create", err)
	}
	monitoring.Enrollments.Inc()
	return enrollment, nil
}

// GetUserEnrollments 按时间倒序返回用户的报名记录
func (s *EnrollmentService) GetUserEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	list, err := s.EnrollmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, util.Unavailable("enrollments.by_user", err)
	}
	return list, nil
}
