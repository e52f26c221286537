package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/util"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetUserDataReturnsNilForUnknownUser(t *testing.T) {
	s := newServices(t)
	user, err := s.users.GetUserData(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUserDataReportsStoreFailure(t *testing.T) {
	s := newServices(t)
	closeDB(s.db)

	_, err := s.users.GetUserData(context.Background(), "any")
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
}

func TestUpdateUserProfileMergesOnlyGivenFields(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "p@example.com", model.Teacher)
	_, err := s.users.UpdateUserProfile(ctx, u.ID, ProfileUpdate{Location: strPtr("Nairobi")})
	require.NoError(t, err)

	links := map[string]string{"github": "https://github.com/p"}
	got, err := s.users.UpdateUserProfile(ctx, u.ID, ProfileUpdate{Bio: strPtr("hello"), Links: &links})
	require.NoError(t, err)

	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "Nairobi", got.Location)
	assert.Equal(t, "https://github.com/p", got.Links["github"])
	assert.Equal(t, u.DisplayName, got.DisplayName)
	assert.Equal(t, model.Teacher, got.Role)
	assert.False(t, got.UpdatedAt.Before(u.UpdatedAt))
}

func TestUpdateUserProfileRejectsBadInputAndUnknownUser(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "q@example.com", model.Student)

	_, err := s.users.UpdateUserProfile(ctx, u.ID, ProfileUpdate{DisplayName: strPtr("   ")})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = s.users.UpdateUserProfile(ctx, u.ID, ProfileUpdate{Bio: strPtr(strings.Repeat("x", 1001))})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = s.users.UpdateUserProfile(ctx, "ghost", ProfileUpdate{Bio: strPtr("x")})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestMarkLessonCompleteStreakOncePerDay(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "streak@example.com", model.Student)
	course := seedCourse(t, s.db, model.Course{Title: "C"})
	l1 := seedLesson(t, s.db, course.ID, 1)
	l2 := seedLesson(t, s.db, course.ID, 2)

	day1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.users.Clock = fixedClock(day1)
	got, err := s.users.MarkLessonComplete(ctx, u.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak, "never active counts as a new day")

	s.users.Clock = fixedClock(day1.Add(10 * time.Hour))
	got, err = s.users.MarkLessonComplete(ctx, u.ID, l2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak)
	assert.ElementsMatch(t, []string{l1.ID, l2.ID}, []string(got.CompletedLessons))

	// 间隔多天也只加一
	s.users.Clock = fixedClock(day1.AddDate(0, 0, 5))
	got, err = s.users.MarkLessonComplete(ctx, u.ID, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Streak)
	assert.Len(t, got.CompletedLessons, 2)

	stored, err := s.users.GetUserData(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Streak)
	require.NotNil(t, stored.LastActivity)
	assert.True(t, stored.LastActivity.Equal(day1.AddDate(0, 0, 5)))
}

func TestMarkLessonCompleteUsesConfiguredTimezone(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*3600)
	s.users.Location = loc
	u := seedUser(t, s.db, "tz@example.com", model.Student)
	course := seedCourse(t, s.db, model.Course{Title: "C"})
	l := seedLesson(t, s.db, course.ID, 1)

	// 当地时间 23:00 和 00:30 属于不同日期
	s.users.Clock = fixedClock(time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC))
	_, err := s.users.MarkLessonComplete(ctx, u.ID, l.ID)
	require.NoError(t, err)
	s.users.Clock = fixedClock(time.Date(2024, 5, 1, 21, 30, 0, 0, time.UTC))
	got, err := s.users.MarkLessonComplete(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Streak)
}

func TestMarkLessonCompleteUpdatesEnrollmentProgress(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "prog@example.com", model.Student)
	course := seedCourse(t, s.db, model.Course{Title: "C"})
	l1 := seedLesson(t, s.db, course.ID, 1)
	l2 := seedLesson(t, s.db, course.ID, 2)

	_, err := s.enrollments.EnrollInCourse(ctx, u.ID, course.ID)
	require.NoError(t, err)

	_, err = s.users.MarkLessonComplete(ctx, u.ID, l1.ID)
	require.NoError(t, err)
	e, err := s.enrollments.EnrollmentRepo.Find(ctx, u.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	assert.False(t, e.Completed)

	_, err = s.users.MarkLessonComplete(ctx, u.ID, l2.ID)
	require.NoError(t, err)
	e, err = s.enrollments.EnrollmentRepo.Find(ctx, u.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress)
	assert.True(t, e.Completed)
}

func TestMarkLessonCompleteMissingRecords(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "m@example.com", model.Student)

	_, err := s.users.MarkLessonComplete(ctx, "ghost", "l")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	_, err = s.users.MarkLessonComplete(ctx, u.ID, "nope")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := seedUser(t, s.db, "r@example.com", "")
	assert.Equal(t, model.Student, u.Role)

	got, err := s.users.UpdateUserRole(ctx, u.ID, model.Teacher)
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, got.Role)

	_, err = s.users.UpdateUserRole(ctx, u.ID, "root")
	assert.True(t, util.IsKind(err, util.KindValidation))
	_, err = s.users.UpdateUserRole(ctx, "ghost", model.Admin)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestGetAllUsersBounded(t *testing.T) {
	s := newServices(t)
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		seedUser(t, s.db, e, model.Student)
	}
	users, err := s.users.GetAllUsers(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = s.users.GetAllUsers(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUpdateAvatarStoresAndLinksPhoto(t *testing.T) {
	s := newServices(t)
	u := seedUser(t, s.db, "av@example.com", model.Student)

	got, err := s.users.UpdateAvatar(context.Background(), u.ID, "me.PNG", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.PhotoURL, "mem://avatars/"+u.ID+"/"))
	assert.True(t, strings.HasSuffix(got.PhotoURL, ".png"))
	assert.Equal(t, 1, s.storage.count())
}

func TestUpdateAvatarRemovesUploadWhenProfileWriteFails(t *testing.T) {
	s := newServices(t)

	_, err := s.users.UpdateAvatar(context.Background(), "ghost", "me.png", strings.NewReader("png"), 3, "image/png")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.Zero(t, s.storage.count())
	assert.Len(t, s.storage.deletions, 1)
}

func TestUpdateAvatarReportsOrphanedUpload(t *testing.T) {
	s := newServices(t)
	s.storage.failDel = true

	_, err := s.users.UpdateAvatar(context.Background(), "ghost", "me.png", strings.NewReader("png"), 3, "image/png")
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindPartialWrite))
	assert.Contains(t, err.Error(), "avatars/ghost/")
	assert.Equal(t, 1, s.storage.count())
}

func TestUpdateAvatarUploadFailure(t *testing.T) {
	s := newServices(t)
	u := seedUser(t, s.db, "up@example.com", model.Student)
	s.storage.failPut = true

	_, err := s.users.UpdateAvatar(context.Background(), u.ID, "me.png", strings.NewReader("png"), 3, "image/png")
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
}
