package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	tags     []string
	messages []Fields
	closed   bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.messages = append(f.messages, message.(Fields))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

type recordingLogger struct {
	nopLogger
	infos []string
}

func (r *recordingLogger) Info(msg string, _ Fields) { r.infos = append(r.infos, msg) }
func (r *recordingLogger) WithFields(Fields) Logger  { return r }

func TestFromContextWithoutLoggerIsNop(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithFields(Fields{"a": 1}).Error("x", errors.New("boom"), nil)
	})
}

func TestContextRoundTrip(t *testing.T) {
	rec := &recordingLogger{}
	ctx := ContextWithLogger(context.Background(), rec)
	ctx = ContextWithTraceID(ctx, "trace-1")

	FromContext(ctx).Info("olá", nil)

	assert.Equal(t, []string{"olá"}, rec.infos)
	assert.Equal(t, "trace-1", TraceIDFromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("qualquer"))
}

func TestSlogLoggerJSONIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(SlogConfig{Writer: &buf, JSON: true, Level: slog.LevelDebug})

	logger.WithFields(Fields{"trace_id": "abc"}).Error("falhou", errors.New("boom"), Fields{"property_id": "42"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "falhou", line["msg"])
	assert.Equal(t, "abc", line["trace_id"])
	assert.Equal(t, "42", line["property_id"])
	assert.Equal(t, "boom", line["err"])
}

func TestFluentLoggerRespectsLevelAndMergesFields(t *testing.T) {
	client := &fakePoster{}
	logger := newFluentLogger(client, slog.LevelInfo)

	logger.Debug("ignorado", nil)
	logger.WithFields(Fields{"component": "store"}).Warn("atenção", Fields{"n": 1})

	require.Len(t, client.messages, 1)
	assert.Equal(t, "warn", client.tags[0])
	msg := client.messages[0]
	assert.Equal(t, "store", msg["component"])
	assert.Equal(t, 1, msg["n"])
	assert.Equal(t, "atenção", msg["message"])

	require.NoError(t, logger.Close())
	assert.True(t, client.closed)
}

func TestMultiLoggerFansOut(t *testing.T) {
	_, err := NewMultiLogger()
	assert.Error(t, err)

	a, b := &recordingLogger{}, &recordingLogger{}
	multi, err := NewMultiLogger(a, b)
	require.NoError(t, err)

	multi.WithFields(Fields{"x": 1}).Info("evento", nil)

	assert.Equal(t, []string{"evento"}, a.infos)
	assert.Equal(t, []string{"evento"}, b.infos)
}
