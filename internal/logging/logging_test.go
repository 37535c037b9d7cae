package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/mdobak/go-xerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("mode", "drawing"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "mode=drawing")
}

func TestNew_ExpandsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)

	logger.Error("plain", slog.Any("error", errors.New("boom")))
	assert.Contains(t, buf.String(), "error.msg=boom")
	assert.NotContains(t, buf.String(), "error.trace")

	buf.Reset()
	logger.Error("traced", slog.Any("error", xerrors.New(errors.New("detector failed"))))
	assert.Contains(t, buf.String(), "detector failed")
	assert.Contains(t, buf.String(), "error.trace")
}
