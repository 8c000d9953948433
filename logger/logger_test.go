package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	maskedValue = "***"
	testMessage = "test message"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		pretty        bool
		expectedLevel zerolog.Level
	}{
		{
			name:          "info_level_pretty",
			level:         "info",
			pretty:        true,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "debug_level_not_pretty",
			level:         "debug",
			pretty:        false,
			expectedLevel: zerolog.DebugLevel,
		},
		{
			name:          "warn_level_not_pretty",
			level:         "warn",
			pretty:        false,
			expectedLevel: zerolog.WarnLevel,
		},
		{
			name:          "invalid_level_defaults_to_info",
			level:         "invalid_level",
			pretty:        false,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "empty_level_uses_zerolog_default",
			level:         "",
			pretty:        true,
			expectedLevel: zerolog.NoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, tt.pretty)

			require.NotNil(t, log)
			require.NotNil(t, log.zlog)
			require.NotNil(t, log.redactor)

			assert.Equal(t, tt.expectedLevel, log.zlog.GetLevel())
			assert.Equal(t, DefaultMaskValue, log.redactor.config.MaskValue)
			assert.Contains(t, log.redactor.config.SensitiveKeys, "authorization")

			var _ Logger = log
		})
	}
}

func TestNewWithRedaction(t *testing.T) {
	log := NewWithRedaction("debug", false, &RedactionConfig{
		SensitiveKeys: []string{"x-internal-token"},
		MaskValue:     "[HIDDEN]",
	})

	require.NotNil(t, log)
	assert.Equal(t, "[HIDDEN]", log.redactor.config.MaskValue)
	assert.Contains(t, log.redactor.config.SensitiveKeys, "x-internal-token")
}

func TestNewWithRedactionNilConfig(t *testing.T) {
	log := NewWithRedaction("info", false, nil)

	require.NotNil(t, log)
	assert.Equal(t, DefaultMaskValue, log.redactor.config.MaskValue)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	log := &ZeroLogger{zlog: &zl, redactor: NewRedactor(nil)}

	withFields := log.WithFields(map[string]any{
		"service":  "billing",
		"password": "hunter2",
	})
	withFields.Info().Msg(testMessage)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "billing", logEntry["service"])
	assert.Equal(t, maskedValue, logEntry["password"])
	assert.Equal(t, testMessage, logEntry["message"])
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	log := &ZeroLogger{zlog: &zl, redactor: NewRedactor(nil)}

	t.Run("plain context returns original logger", func(t *testing.T) {
		result := log.WithContext(context.Background())
		assert.Same(t, Logger(log), result)
	})

	t.Run("context carrying a zerolog logger is adopted", func(t *testing.T) {
		var ctxBuf bytes.Buffer
		ctxLogger := zerolog.New(&ctxBuf)
		ctx := ctxLogger.WithContext(context.Background())

		result := log.WithContext(ctx)
		require.NotNil(t, result)
		result.Info().Msg("from context")

		assert.Contains(t, ctxBuf.String(), "from context")
		assert.Empty(t, buf.String())
	})
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.WarnLevel)
	log := &ZeroLogger{zlog: &zl, redactor: NewRedactor(nil)}

	log.Debug().Msg("dropped")
	log.Info().Msg("dropped too")
	log.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
