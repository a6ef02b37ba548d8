package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/nafijninja/genx/internal/domain"
)

type Logger struct {
	SlogLogger *slog.Logger
}

// NewLogger writes JSON records to loggingFilePath, or to stdout when the
// path is empty.
func NewLogger(loggingFilePath string, service string) *Logger {
	var out io.Writer = os.Stdout
	if loggingFilePath != "" {
		file, err := os.OpenFile(loggingFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(err)
		}
		out = file
	}

	return New(out, slog.LevelInfo).With("service.name", service).(*Logger)
}

func New(w io.Writer, level slog.Level) *Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))

	return &Logger{SlogLogger: logger}
}

func (l Logger) Debug(msg string, args ...any) {
	l.SlogLogger.Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.SlogLogger.Info(msg, args...)

}

func (l Logger) Warn(msg string, args ...any) {
	l.SlogLogger.Warn(msg, args...)
}

func (l Logger) Error(msg string, args ...any) {
	l.SlogLogger.Error(msg, args...)

}

func (l Logger) With(args ...any) domain.LoggingRepository {
	return &Logger{
		SlogLogger: l.SlogLogger.With(args...),
	}
}
