package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Init создаёт структурированный JSON-логгер для сервиса и пишет в stdout
func Init(serviceName string) *logrus.Logger {
	return New(serviceName, os.Stdout, os.Getenv("LOG_LEVEL"))
}

// New настраивает логгер с произвольным выводом (файл для TUI, буфер в тестах)
func New(serviceName string, out io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	// Формат JSON для структурированного логирования
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	l.SetLevel(logrus.InfoLevel)
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			l.SetLevel(lvl)
		}
	}

	// Поле service во всех записях
	l.AddHook(serviceHook{service: serviceName})

	return l
}

// WithRequestID добавляет request-id в контекст логгера
func WithRequestID(logger *logrus.Logger, requestID string) *logrus.Entry {
	if requestID == "" {
		return logrus.NewEntry(logger)
	}
	return logger.WithField("request_id", requestID)
}

type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = h.service
	}
	return nil
}
