package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airsketch/internal/engine"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	assert.Equal(t, engine.DefaultConfig(), c.Engine)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, "airsketch.db", filepath.Base(c.DBPath()))
}

func TestFromEnv(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"AIRSKETCH_ADDR":              ":9000",
		"AIRSKETCH_DATA_DIR":          "/tmp/airsketch",
		"AIRSKETCH_CAMERA_ID":         "2",
		"AIRSKETCH_MIRROR":            "false",
		"AIRSKETCH_TRAY":              "0",
		"AIRSKETCH_LOG_LEVEL":         "debug",
		"AIRSKETCH_EXTEND_THRESHOLD":  "40",
		"AIRSKETCH_PEACE_SPREAD":      "80",
		"AIRSKETCH_RAMP_MS":           "750",
		"AIRSKETCH_SELECT_CONFIDENCE": "0.8",
		"AIRSKETCH_MIN_DEPTH":         "-60",
		"AIRSKETCH_SETTLE_MS":         "300",
		"AIRSKETCH_COOLDOWN_MS":       "0",
		"AIRSKETCH_WEB_DIR":           "",
	}), Default())
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "/tmp/airsketch", c.DataDir)
	assert.Equal(t, "web", c.WebDir, "empty values keep the default")
	assert.Equal(t, 2, c.CameraID)
	assert.False(t, c.Mirror)
	assert.False(t, c.Tray)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, 40.0, c.Engine.Gesture.ExtendThreshold)
	assert.Equal(t, 80.0, c.Engine.Gesture.PeaceSpread)
	assert.Equal(t, 750*time.Millisecond, c.Engine.Gesture.Ramp)
	assert.Equal(t, 0.8, c.Engine.Thresholds.Select)
	assert.Equal(t, 0.3, c.Engine.Thresholds.Draw)
	assert.Equal(t, -60.0, c.Engine.Brush.MinDepth)
	assert.Equal(t, 300*time.Millisecond, c.Engine.Selection.Settle)
	assert.Zero(t, c.Engine.Selection.Cooldown)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad int", map[string]string{"AIRSKETCH_CAMERA_ID": "front"}},
		{"bad float", map[string]string{"AIRSKETCH_MIN_SIZE": "big"}},
		{"bad bool", map[string]string{"AIRSKETCH_TRAY": "maybe"}},
		{"bad level", map[string]string{"AIRSKETCH_LOG_LEVEL": "chatty"}},
		{"bad millis", map[string]string{"AIRSKETCH_SETTLE_MS": "1.5s"}},
		{"inverted depth range", map[string]string{"AIRSKETCH_MIN_DEPTH": "50"}},
		{"negative camera", map[string]string{"AIRSKETCH_CAMERA_ID": "-1"}},
		{"motion threshold too high", map[string]string{"AIRSKETCH_MOTION_THRESHOLD": "150"}},
		{"unreachable threshold", map[string]string{"AIRSKETCH_DRAW_CONFIDENCE": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars), Default())
			assert.Error(t, err)
		})
	}

	t.Run("engine errors are wrapped", func(t *testing.T) {
		_, err := FromEnv(env(map[string]string{"AIRSKETCH_MAX_DEPTH": "-40"}), Default())
		assert.ErrorIs(t, err, engine.ErrInvalidConfig)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AIRSKETCH_SELECT_REACH=75\nAIRSKETCH_CAMERA_ID=3\n"), 0o644))

	// Real environment wins over the file.
	t.Setenv("AIRSKETCH_CAMERA_ID", "1")
	t.Cleanup(func() { os.Unsetenv("AIRSKETCH_SELECT_REACH") })

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75.0, c.Engine.Selection.Reach)
	assert.Equal(t, 1, c.CameraID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
