package database

import (
	"learnul_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBMigratesSqlite(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"}, true)
	require.NoError(t, err)

	for _, table := range []string{"users", "courses", "lessons", "enrollments", "analytics", "quizzes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}
