// Package logging provides structured logging for the downloader CLI.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ashajkofci/bactocloud-downloader/internal/events"
)

// Logger wraps zerolog and optionally mirrors warnings and errors onto the
// progress event bus so the interactive side sees them in the run log.
type Logger struct {
	zlog   zerolog.Logger
	bus    *events.Bus
	output io.Writer
}

// NewLogger creates a console logger. bus may be nil.
func NewLogger(bus *events.Bus) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	return &Logger{
		zlog:   logger,
		bus:    bus,
		output: output,
	}
}

// NewDefault creates a logger without an event bus.
func NewDefault() *Logger {
	return NewLogger(nil)
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// With creates a child logger context.
func (l *Logger) With() zerolog.Context {
	return l.zlog.With()
}

// Infof logs an info message with printf-style formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Warnf logs a warning with printf-style formatting, mirrored to the bus.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
	if l.bus != nil {
		l.bus.PublishLog(events.WarnLevel, fmt.Sprintf(format, args...), "", nil)
	}
}

// Errorf logs an error with printf-style formatting, mirrored to the bus.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
	if l.bus != nil {
		l.bus.PublishLog(events.ErrorLevel, fmt.Sprintf(format, args...), "", nil)
	}
}

// Debugf logs a debug message with printf-style formatting.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Output returns the current output writer.
func (l *Logger) Output() io.Writer {
	return l.output
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}
