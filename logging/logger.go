package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Fields são os dados estruturados anexados a uma mensagem de log.
type Fields map[string]interface{}

// Logger abstrai o sistema de logs usado pelos handlers, serviços e storage.
type Logger interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields retorna um novo logger com os campos adicionados.
	WithFields(fields Fields) Logger
}

type loggerKey struct{}

// ContextWithLogger coloca o logger no contexto.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retorna o logger do contexto, ou um logger que descarta tudo.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return logger
	}
	return Nop()
}

type traceIDKey struct{}

// ContextWithTraceID coloca o trace_id da requisição no contexto.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext retorna o trace_id, ou "" se não houver.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// ParseLevel converte "debug", "info", "warn" ou "error" em slog.Level.
// Valores desconhecidos viram info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopLogger struct{}

// Nop retorna um logger que descarta todas as mensagens.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(string, Fields)         {}
func (nopLogger) Warn(string, Fields)         {}
func (nopLogger) Error(string, error, Fields) {}
func (nopLogger) Debug(string, Fields)        {}
func (n nopLogger) WithFields(Fields) Logger  { return n }
