package service

import (
	"context"
	"errors"
	"learnul_backend/internal/model"
	"learnul_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLessonWithNeighbors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	c := seedCourse(t, s.db, model.Course{Title: "C"})
	l3 := seedLesson(t, s.db, c.ID, 30)
	l1 := seedLesson(t, s.db, c.ID, 10)
	l2 := seedLesson(t, s.db, c.ID, 20)

	nav, err := s.lessons.GetLessonWithNeighbors(ctx, l2.ID)
	require.NoError(t, err)
	require.NotNil(t, nav.Previous)
	require.NotNil(t, nav.Next)
	assert.Equal(t, l1.ID, nav.Previous.ID)
	assert.Equal(t, l3.ID, nav.Next.ID)

	nav, err = s.lessons.GetLessonWithNeighbors(ctx, l1.ID)
	require.NoError(t, err)
	assert.Nil(t, nav.Previous)
	assert.Equal(t, l2.ID, nav.Next.ID)

	nav, err = s.lessons.GetLessonWithNeighbors(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, nav)
}

func TestCreateLessonChecksOwnership(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "own@example.com", model.Teacher)
	stranger := seedUser(t, s.db, "str@example.com", model.Teacher)
	admin := seedUser(t, s.db, "adm@example.com", model.Admin)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})

	in := LessonInput{Title: "Intro", Type: model.LessonArticle, Order: 1, Duration: 5}
	_, err := s.lessons.CreateLesson(ctx, stranger, c.ID, in)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = s.lessons.CreateLesson(ctx, owner, c.ID, in)
	require.NoError(t, err)
	_, err = s.lessons.CreateLesson(ctx, admin, c.ID, in)
	require.NoError(t, err)

	course, err := s.courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, course.LessonsCount)
	assert.Equal(t, 10, course.Duration)

	_, err = s.lessons.CreateLesson(ctx, owner, "nope", in)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCreateLessonValidates(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "v@example.com", model.Teacher)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})

	for _, in := range []LessonInput{
		{Title: "", Type: model.LessonArticle},
		{Title: "x", Type: "podcast"},
		{Title: "x", Type: model.LessonQuiz},
		{Title: "x", Type: model.LessonQuiz, Questions: []model.QuizQuestion{{Question: "q", Options: []string{"a"}, CorrectAnswer: 2}}},
	} {
		_, err := s.lessons.CreateLesson(ctx, owner, c.ID, in)
		assert.True(t, util.IsKind(err, util.KindValidation), "%+v", in)
	}
}

func TestCreateQuizLessonStoresQuiz(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "qz@example.com", model.Teacher)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})

	lesson, err := s.lessons.CreateLesson(ctx, owner, c.ID, LessonInput{
		Title: "Check", Type: model.LessonQuiz,
		Questions: []model.QuizQuestion{{Question: "1+1", Options: []string{"1", "2"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, lesson.QuizID)

	stored, err := s.lessons.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.QuizID)
	assert.Equal(t, *lesson.QuizID, *stored.QuizID)
}

func TestCreateVideoLessonProbesAndUploads(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "vid@example.com", model.Teacher)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})

	s.lessons.Probe = func(path string) (*util.VideoInfo, error) {
		return &util.VideoInfo{Duration: 61}, nil
	}
	lesson, err := s.lessons.CreateLesson(ctx, owner, c.ID, LessonInput{
		Title: "Video", Type: model.LessonVideo,
		VideoPath: "/tmp/upload-123", VideoName: "intro.mp4", VideoContentType: "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, lesson.Duration)
	assert.True(t, strings.HasPrefix(lesson.VideoURL, "mem://lessons/"+c.ID+"/"))
	assert.True(t, strings.HasSuffix(lesson.VideoURL, ".mp4"))
	assert.Equal(t, 1, s.storage.count())
}

func TestCreateVideoLessonKeepsGivenDurationWhenProbeFails(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "vf@example.com", model.Teacher)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})

	s.lessons.Probe = func(path string) (*util.VideoInfo, error) { return nil, errors.New("no ffprobe") }
	lesson, err := s.lessons.CreateLesson(ctx, owner, c.ID, LessonInput{
		Title: "Video", Type: model.LessonVideo, VideoPath: "/tmp/v.mp4",
	})
	require.NoError(t, err)
	assert.Zero(t, lesson.Duration)
}

func TestCreateVideoLessonRemovesUploadOnStoreFailure(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	owner := seedUser(t, s.db, "vr@example.com", model.Teacher)
	c := seedCourse(t, s.db, model.Course{Title: "C", InstructorID: owner.ID})
	s.lessons.Probe = nil

	// 课程查询成功后、写入课时前删除数据表
	require.NoError(t, s.db.Migrator().DropTable(&model.Lesson{}))
	_, err := s.lessons.CreateLesson(ctx, owner, c.ID, LessonInput{
		Title: "Video", Type: model.LessonVideo, VideoPath: "/tmp/v.mp4",
	})
	assert.True(t, util.IsKind(err, util.KindBackendUnavailable))
	assert.Zero(t, s.storage.count())
}
