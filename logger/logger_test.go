package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromFallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	From(context.Background()).Info("hello")
	assert.Equal(t, 1, logs.Len())
}

func TestFromUsesScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(RequestID("req-1"))

	ctx := ToContext(context.Background(), scoped)
	From(ctx).Info("scoped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestInitReplacesGlobal(t *testing.T) {
	t.Cleanup(func() { Set(nil) })
	l := Init(Config{Env: "production", Level: "warn", ServiceName: "contact-intake"})
	assert.Same(t, l, L())
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
}
