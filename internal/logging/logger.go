package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/Iron-Ham/pcbuild/internal/errors"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the log file created inside the log directory.
const LogFileName = "pcbuild.log"

// Options tunes where log records go besides the JSON file.
type Options struct {
	// Mirror sends human-readable text records to MirrorWriter as well.
	Mirror bool
	// MirrorWriter defaults to os.Stderr.
	MirrorWriter io.Writer
	// MirrorLevel is the minimum level mirrored; defaults to WARN.
	MirrorLevel string
	// Rotation bounds the size of pcbuild.log. The zero value never rotates.
	Rotation Rotation
}

// Logger provides structured logging with context propagation.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	file   *rotatingFile
	attrs  []slog.Attr // Persistent attributes (session, guide, step)
}

// NewLogger creates a new Logger that writes JSON-formatted logs to
// {dir}/pcbuild.log. If dir is empty, logs will be written to stderr.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages
//   - INFO: Info, Warn, and Error messages
//   - WARN: Warn and Error messages
//   - ERROR: Only Error messages
func NewLogger(dir string, level string, opts ...Options) (*Logger, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	var writer io.Writer = os.Stderr
	var file *rotatingFile

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		file, err = openRotatingFile(filepath.Join(dir, LogFileName), opt.Rotation)
		if err != nil {
			return nil, err
		}
		writer = file
	}

	var handler slog.Handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	if opt.Mirror && file != nil {
		mirror := opt.MirrorWriter
		if mirror == nil {
			mirror = os.Stderr
		}
		mirrorLevel := opt.MirrorLevel
		if mirrorLevel == "" {
			mirrorLevel = LevelWarn
		}
		handler = slogmulti.Fanout(
			handler,
			slog.NewTextHandler(mirror, &slog.HandlerOptions{Level: parseLevel(mirrorLevel)}),
		)
	}

	return &Logger{
		logger: slog.New(handler),
		file:   file,
		attrs:  make([]slog.Attr, 0),
	}, nil
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSession returns a child Logger tagging entries with the walkthrough session ID.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.withAttr(slog.String("session_id", sessionID))
}

// WithGuide returns a child Logger tagging entries with the guide name.
func (l *Logger) WithGuide(name string) *Logger {
	return l.withAttr(slog.String("guide", name))
}

// WithStep returns a child Logger tagging entries with a step index and id.
func (l *Logger) WithStep(index int, id string) *Logger {
	return l.withAttr(slog.Int("step", index)).withAttr(slog.String("step_id", id))
}

// With returns a new Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	newAttrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	newAttrs = append(newAttrs, l.attrs...)

	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}

	return &Logger{
		logger: l.logger,
		file:   l.file,
		attrs:  newAttrs,
	}
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	newAttrs := make([]slog.Attr, len(l.attrs)+1)
	copy(newAttrs, l.attrs)
	newAttrs[len(l.attrs)] = attr

	return &Logger{
		logger: l.logger,
		file:   l.file,
		attrs:  newAttrs,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// Report logs err under msg at the level its severity calls for. Errors
// that carry no severity are logged at ERROR.
func (l *Logger) Report(msg string, err error, args ...any) {
	if err == nil {
		return
	}
	level := slog.LevelError
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug:
		level = slog.LevelDebug
	case errors.SeverityInfo:
		level = slog.LevelInfo
	case errors.SeverityWarning:
		level = slog.LevelWarn
	}
	l.log(level, msg, append(args, "error", err.Error())...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if l == nil {
		return
	}
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}

// Close flushes and closes the log file. Child loggers share the file, so
// closing any of them closes it for all.
// If the logger writes to stderr, this method is a no-op.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		attrs:  make([]slog.Attr, 0),
	}
}

// ParseLevel converts a string level to the corresponding constant.
// Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return LevelDebug
	case LevelInfo:
		return LevelInfo
	case LevelWarn:
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
