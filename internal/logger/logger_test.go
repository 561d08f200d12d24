package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestNew_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "warn", Format: "json", Out: buf})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Console(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "debug", Format: "console", Out: buf})

	log.Debug().Str("table", "purchases").Msg("loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "purchases")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithComponent(NewWithWriter(buf), "store")
	log.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"store"`)
}
