package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig descreve a conexão com o Fluent Bit.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
	Level     slog.Leveler
}

// poster é o subconjunto de *fluent.Fluent usado pelo logger.
type poster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentLogger envia os logs para o Fluent Bit.
type FluentLogger struct {
	client   poster
	fields   Fields
	minLevel slog.Level
}

// NewFluentLogger conecta ao Fluent Bit. A conexão é preguiçosa: erros de rede
// só aparecem no primeiro envio.
func NewFluentLogger(cfg FluentConfig) (*FluentLogger, error) {
	if cfg.TagPrefix == "" {
		return nil, errors.New("fluent: prefixo de tag é obrigatório")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente fluent: %w", err)
	}
	return newFluentLogger(client, cfg.Level), nil
}

func newFluentLogger(client poster, level slog.Leveler) *FluentLogger {
	minLevel := slog.LevelInfo
	if level != nil {
		minLevel = level.Level()
	}
	return &FluentLogger{client: client, fields: Fields{}, minLevel: minLevel}
}

func (l *FluentLogger) merge(fields Fields) Fields {
	merged := make(Fields, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (l *FluentLogger) post(level slog.Level, tag, msg string, data Fields) {
	if level < l.minLevel {
		return
	}
	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	// Falha de envio não pode derrubar a requisição.
	_ = l.client.Post(tag, data)
}

func (l *FluentLogger) Info(msg string, fields Fields) {
	l.post(slog.LevelInfo, "info", msg, l.merge(fields))
}

func (l *FluentLogger) Warn(msg string, fields Fields) {
	l.post(slog.LevelWarn, "warn", msg, l.merge(fields))
}

func (l *FluentLogger) Error(msg string, err error, fields Fields) {
	data := l.merge(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	l.post(slog.LevelError, "error", msg, data)
}

func (l *FluentLogger) Debug(msg string, fields Fields) {
	l.post(slog.LevelDebug, "debug", msg, l.merge(fields))
}

func (l *FluentLogger) WithFields(fields Fields) Logger {
	return &FluentLogger{client: l.client, fields: l.merge(fields), minLevel: l.minLevel}
}

// Close fecha a conexão com o Fluent Bit.
func (l *FluentLogger) Close() error {
	return l.client.Close()
}
