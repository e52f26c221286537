package service

import (
	"context"
	"errors"
	"io"
	"learnul_backend/internal/config"
	"learnul_backend/internal/model"
	"learnul_backend/internal/repository"
	"learnul_backend/pkg/database"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}, true)
	require.NoError(t, err)
	t.Cleanup(func() { closeDB(db) })
	return db
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour},
		Auth:    config.AuthConfig{ResetTTL: 30 * time.Minute, ResetURL: "http://app.local/reset", MinPasswordLn: 8},
		Catalog: config.CatalogConfig{DefaultLimit: 20, MaxLimit: 100},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Email: email, DisplayName: email, Password: "x", Role: role}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, c model.Course) *model.Course {
	t.Helper()
	require.NoError(t, repository.NewCourseRepository(db).Create(context.Background(), &c))
	return &c
}

func seedLesson(t *testing.T, db *gorm.DB, courseID string, order int) *model.Lesson {
	t.Helper()
	l := &model.Lesson{CourseID: courseID, Order: order, Title: "lesson", Type: model.LessonArticle}
	require.NoError(t, repository.NewLessonRepository(db).Create(context.Background(), l))
	return l
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// memoryProvider 内存实现的 StorageProvider
type memoryProvider struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failPut   bool
	failDel   bool
	deletions []string
}

func newMemoryProvider() *memoryProvider {
	return &memoryProvider{objects: map[string][]byte{}}
}

func (p *memoryProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if p.failPut {
		return "", errors.New("bucket unreachable")
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[filename] = b
	return p.GetURL(filename), nil
}

func (p *memoryProvider) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	if p.failPut {
		return "", errors.New("bucket unreachable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[filename] = []byte(localPath)
	return p.GetURL(filename), nil
}

func (p *memoryProvider) Delete(ctx context.Context, filename string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletions = append(p.deletions, filename)
	if p.failDel {
		return errors.New("delete refused")
	}
	delete(p.objects, filename)
	return nil
}

func (p *memoryProvider) GetURL(filename string) string {
	return "mem://" + filename
}

func (p *memoryProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects)
}

// memoryTokens 内存实现的 TokenStore
type memoryTokens struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	resets  map[string]string
	err     error
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{revoked: map[string]time.Duration{}, resets: map[string]string{}}
}

func (m *memoryTokens) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memoryTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *memoryTokens) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.resets[token] = userID
	return nil
}

func (m *memoryTokens) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	id := m.resets[token]
	delete(m.resets, token)
	return id, nil
}

// recordingMailer 记录所有待发送的邮件
type recordingMailer struct {
	mu   sync.Mutex
	sent []MailMessage
}

func (r *recordingMailer) Send(ctx context.Context, msg MailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

type services struct {
	db          *gorm.DB
	users       *UserService
	courses     *CourseService
	enrollments *EnrollmentService
	lessons     *LessonService
	analytics   *AnalyticsService
	storage     *memoryProvider
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	provider := newMemoryProvider()
	storage := &StorageService{Provider: provider}

	return &services{
		db:          db,
		users:       NewUserService(userRepo, lessonRepo, courseRepo, enrollmentRepo, storage, time.UTC),
		courses:     NewCourseService(courseRepo, enrollmentRepo, userRepo, cfg),
		enrollments: NewEnrollmentService(userRepo, courseRepo, enrollmentRepo),
		lessons:     NewLessonService(lessonRepo, courseRepo, quizRepo, storage),
		analytics:   NewAnalyticsService(repository.NewAnalyticsRepository(db)),
		storage:     provider,
	}
}
