package service

import (
	"context"
	"fmt"
	"learnul_backend/internal/model"
	"learnul_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCoursesBoundedByMax(t *testing.T) {
	s := newServices(t)
	for i := 0; i < 5; i++ {
		seedCourse(t, s.db, model.Course{Title: fmt.Sprintf("course %d", i), Category: "programming"})
	}

	res, err := s.courses.GetCourses(context.Background(), CourseQuery{Max: 2})
	require.NoError(t, err)
	assert.Equal(t, CatalogReady, res.State)
	assert.Len(t, res.Courses, 2)

	res, err = s.courses.GetCourses(context.Background(), CourseQuery{Max: 1000})
	require.NoError(t, err)
	assert.Len(t, res.Courses, 5)
}

func TestGetCoursesFiltersByCategory(t *testing.T) {
	s := newServices(t)
	seedCourse(t, s.db, model.Course{Title: "Go", Category: "programming"})
	seedCourse(t, s.db, model.Course{Title: "Rust", Category: "programming"})
	seedCourse(t, s.db, model.Course{Title: "Sketching", Category: "art"})

	res, err := s.courses.GetCourses(context.Background(), CourseQuery{Category: "programming"})
	require.NoError(t, err)
	require.Len(t, res.Courses, 2)
	for _, c := range res.Courses {
		assert.Equal(t, "programming", c.Category)
	}

	res, err = s.courses.GetCourses(context.Background(), CourseQuery{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, res.Courses, 3)

	res, err = s.courses.GetCourses(context.Background(), CourseQuery{Category: "music"})
	require.NoError(t, err)
	assert.Equal(t, CatalogEmpty, res.State)
	assert.Empty(t, res.Courses)
}

func TestGetCoursesUnavailable(t *testing.T) {
	s := newServices(t)
	closeDB(s.db)

	res, err := s.courses.GetCourses(context.Background(), CourseQuery{})
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
	require.NotNil(t, res)
	assert.Equal(t, CatalogUnavailable, res.State)
	assert.False(t, res.Placeholder)
	assert.Empty(t, res.Courses)
}

func TestGetCoursesPlaceholdersOnlyWhenAllowed(t *testing.T) {
	s := newServices(t)
	s.courses.Placeholders = true
	closeDB(s.db)

	res, err := s.courses.GetCourses(context.Background(), CourseQuery{Category: "design"})
	require.NoError(t, err)
	assert.Equal(t, CatalogUnavailable, res.State)
	assert.True(t, res.Placeholder)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "design", res.Courses[0].Category)
}

func TestNewCourseServicePlaceholdersRequireDebug(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.PlaceholderOnError = true
	assert.True(t, NewCourseService(nil, nil, nil, cfg).Placeholders)

	cfg.Server.Mode = "release"
	assert.False(t, NewCourseService(nil, nil, nil, cfg).Placeholders)
}

func TestCreateCourseStartsCountersAtZero(t *testing.T) {
	s := newServices(t)
	teacher := seedUser(t, s.db, "t@example.com", model.Teacher)
	teacher.DisplayName = "Ada"

	course, err := s.courses.CreateCourse(context.Background(), CourseInput{Title: " Go ", Category: "programming", Price: 10}, teacher)
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)

	got, err := s.courses.GetCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)
	assert.Equal(t, teacher.ID, got.InstructorID)
	assert.Equal(t, "Ada", got.Instructor)
	assert.Zero(t, got.StudentsEnrolled)
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.LessonsCount)

	_, err = s.courses.CreateCourse(context.Background(), CourseInput{Title: "  "}, teacher)
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestComputeTeacherStats(t *testing.T) {
	assert.Equal(t, TeacherStats{}, ComputeTeacherStats(nil))

	stats := ComputeTeacherStats([]model.Course{
		{StudentsEnrolled: 10, Rating: 4},
		{StudentsEnrolled: 5, Rating: 5},
		{StudentsEnrolled: 0, Rating: 0},
	})
	assert.Equal(t, 15, stats.TotalStudents)
	assert.Equal(t, 3, stats.TotalCourses)
	assert.InDelta(t, 3.0, stats.AvgRating, 1e-9)
}

func TestTeacherStatsAndStudents(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	teacher := seedUser(t, s.db, "t@example.com", model.Teacher)
	other := seedUser(t, s.db, "o@example.com", model.Teacher)
	c1 := seedCourse(t, s.db, model.Course{Title: "A", InstructorID: teacher.ID, Rating: 4})
	c2 := seedCourse(t, s.db, model.Course{Title: "B", InstructorID: teacher.ID, Rating: 2})
	c3 := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: other.ID})

	st1 := seedUser(t, s.db, "s1@example.com", model.Student)
	st2 := seedUser(t, s.db, "s2@example.com", model.Student)
	st3 := seedUser(t, s.db, "s3@example.com", model.Student)
	for _, e := range [][2]string{{st1.ID, c1.ID}, {st1.ID, c2.ID}, {st2.ID, c2.ID}, {st3.ID, c3.ID}} {
		_, err := s.enrollments.EnrollInCourse(ctx, e[0], e[1])
		require.NoError(t, err)
	}

	stats, err := s.courses.GetTeacherStats(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 2, stats.TotalCourses)
	assert.InDelta(t, 3.0, stats.AvgRating, 1e-9)

	students, err := s.courses.GetTeacherStudents(ctx, teacher.ID)
	require.NoError(t, err)
	ids := []string{}
	for _, u := range students {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{st1.ID, st2.ID}, ids)

	none, err := s.courses.GetTeacherStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, TeacherStats{}, *none)
}
