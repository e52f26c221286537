package service

import (
	"context"
	"learnul_backend/internal/model"
	"learnul_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackActivityAndCourseAnalytics(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s.analytics.Clock = fixedClock(base.Add(time.Duration(i) * time.Hour))
		require.NoError(t, s.analytics.TrackActivity(ctx, "u1", model.ActionLessonCompleted, map[string]interface{}{"courseId": "c1", "lessonId": i}))
	}
	require.NoError(t, s.analytics.TrackActivity(ctx, "u1", model.ActionCourseEnrolled, map[string]interface{}{"courseId": "c2"}))
	require.NoError(t, s.analytics.TrackActivity(ctx, "u1", "page_view", nil))

	events, err := s.analytics.GetCourseAnalytics(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].Timestamp.After(events[2].Timestamp))

	assert.True(t, util.IsKind(s.analytics.TrackActivity(ctx, "u1", "", nil), util.KindValidation))
}

func TestGetUserActivityNewestFirst(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, action := range []string{model.ActionCourseEnrolled, model.ActionLessonCompleted, "page_view"} {
		s.analytics.Clock = fixedClock(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, s.analytics.TrackActivity(ctx, "u1", action, nil))
	}
	require.NoError(t, s.analytics.TrackActivity(ctx, "u2", "page_view", nil))

	events, err := s.analytics.GetUserActivity(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "page_view", events[0].Action)
	assert.Equal(t, model.ActionCourseEnrolled, events[2].Action)

	events, err = s.analytics.GetUserActivity(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	closeDB(s.db)
	_, err = s.analytics.GetUserActivity(ctx, "u1", 0)
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
}

func TestTrackActivityReportsStoreFailure(t *testing.T) {
	s := newServices(t)
	closeDB(s.db)
	err := s.analytics.TrackActivity(context.Background(), "u1", model.ActionCourseCreated, nil)
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
}
