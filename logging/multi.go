package logging

import "errors"

// MultiLogger replica cada mensagem para vários loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger exige ao menos um logger.
func NewMultiLogger(loggers ...Logger) (*MultiLogger, error) {
	if len(loggers) == 0 {
		return nil, errors.New("multilogger: pelo menos um logger é necessário")
	}
	return &MultiLogger{loggers: loggers}, nil
}

func (m *MultiLogger) Info(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Info(msg, fields)
	}
}

func (m *MultiLogger) Warn(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Warn(msg, fields)
	}
}

func (m *MultiLogger) Error(msg string, err error, fields Fields) {
	for _, l := range m.loggers {
		l.Error(msg, err, fields)
	}
}

func (m *MultiLogger) Debug(msg string, fields Fields) {
	for _, l := range m.loggers {
		l.Debug(msg, fields)
	}
}

func (m *MultiLogger) WithFields(fields Fields) Logger {
	enriched := make([]Logger, 0, len(m.loggers))
	for _, l := range m.loggers {
		enriched = append(enriched, l.WithFields(fields))
	}
	return &MultiLogger{loggers: enriched}
}
