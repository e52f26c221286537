package service

import (
	"context"
	"learnul_backend/internal/config"
	"learnul_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyKeepsExtension(t *testing.T) {
	a := ObjectKey("avatars/u1", "Me.JPG")
	b := ObjectKey("avatars/u1", "Me.JPG")
	assert.True(t, strings.HasPrefix(a, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: dir, PublicBaseURL: "http://cdn.local/"}}
	svc, err := NewStorageService(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	url, err := svc.UploadFile(ctx, "docs/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/uploads/docs/a.txt", url)

	b, err := os.ReadFile(filepath.Join(dir, "docs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	src := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(src, []byte("mp4"), 0o644))
	_, err = svc.UploadLocal(ctx, "lessons/v.mp4", src, "video/mp4")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "lessons", "v.mp4"))
	assert.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "docs/a.txt"))
	_, err = os.Stat(filepath.Join(dir, "docs", "a.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, svc.Delete(ctx, "docs/a.txt"))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}}
	svc, err := NewStorageService(cfg)
	require.NoError(t, err)

	_, err = svc.UploadFile(context.Background(), "../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	require.Error(t, err)
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}
