// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		l, err := New(types.LogConfig{Level: "debug", Format: format})
		require.NoError(t, err, "format %q", format)
		l.With(String("k", "v")).Debug("hello", Int("n", 1), Error(errors.New("boom")))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(types.LogConfig{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log format")
}

func TestFieldHelpers(t *testing.T) {
	f := Bool("api_key", true)
	assert.Equal(t, "api_key", f.Key)
	assert.Equal(t, zapcore.BoolType, f.Type)
	assert.Equal(t, int64(1), f.Integer)

	assert.Equal(t, zapcore.StringType, String("k", "v").Type)
	assert.Equal(t, "error", Error(errors.New("x")).Key)
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", String("a", "b"))
	assert.NoError(t, l.With(Bool("x", true)).Sync())
}
