package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetModeSwitchesLevel(t *testing.T) {
	t.Cleanup(func() { SetMode("release") })

	SetMode("debug")
	assert.Equal(t, zapcore.DebugLevel, Level())

	SetMode("release")
	assert.Equal(t, zapcore.InfoLevel, Level())
}

func TestLogIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() { Log.Info("not initialised yet") })
}
