package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// SlogConfig configura o logger de saída padrão.
type SlogConfig struct {
	// Writer é o destino dos logs. Padrão: os.Stdout.
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	// JSON troca o formato colorido do tint por linhas JSON.
	JSON bool
}

// SlogLogger implementa Logger sobre log/slog.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger cria o logger de saída padrão.
func NewSlogLogger(cfg SlogConfig) *SlogLogger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	} else {
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}

	return &SlogLogger{logger: slog.New(handler)}
}

func toAttrs(fields Fields) []any {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *SlogLogger) Info(msg string, fields Fields) {
	l.logger.Info(msg, toAttrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields Fields) {
	l.logger.Warn(msg, toAttrs(fields)...)
}

func (l *SlogLogger) Error(msg string, err error, fields Fields) {
	attrs := toAttrs(fields)
	if err != nil {
		attrs = append(attrs, tint.Err(err))
	}
	l.logger.Error(msg, attrs...)
}

func (l *SlogLogger) Debug(msg string, fields Fields) {
	l.logger.Debug(msg, toAttrs(fields)...)
}

func (l *SlogLogger) WithFields(fields Fields) Logger {
	return &SlogLogger{logger: l.logger.With(toAttrs(fields)...)}
}
