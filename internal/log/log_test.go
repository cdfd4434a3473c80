package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		env      string
		expected zerolog.Level
	}{
		{env: "development", expected: zerolog.TraceLevel},
		{env: "staging", expected: zerolog.DebugLevel},
		{env: "production", expected: zerolog.InfoLevel},
		{env: "", expected: zerolog.InfoLevel},
	}
	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			assert.Equal(t, test.expected, LevelFor(test.env))
		})
	}
}

func TestAttachTraceIdFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Hook(AttachTraceIdFromContext())
	c := AttachRequestIDToContext(context.Background(), "req-42")

	logger.Info().Ctx(c).Msg("with request")
	assert.Contains(t, buf.String(), `"requestId":"req-42"`)
	assert.NotContains(t, buf.String(), KeyTraceID)

	buf.Reset()
	logger.Info().Msg("without context")
	assert.NotContains(t, buf.String(), KeyRequestID)
}
