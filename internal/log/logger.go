package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"csvdash/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool

	mu     sync.RWMutex
	logger = NewLogger()
)

// Field is a single structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends entries to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile appends entries to path in addition to the configured output.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names keep the default.
func WithLevel(name string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(name); err == nil {
			o.level = lvl
		}
	}
}

// Logger is a leveled, structured logger backed by logrus.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	level  logrus.Level
	file   *os.File
}

// NewLogger creates a logger. Without options it writes text entries at
// info level to stderr.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stderr, level: logrus.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetLevel(logrus.TraceLevel)
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l := &Logger{base: base, fields: logrus.Fields{}, level: o.level}
	out := o.out
	var fileErr error
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err != nil {
			fileErr = err
		} else if f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			fileErr = err
		} else {
			l.file = f
			out = io.MultiWriter(out, f)
		}
	}
	base.SetOutput(out)

	if fileErr != nil {
		l.With(F("file", o.file), F("error", fileErr.Error())).Warn("Could not open log file")
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	next := NewLogger(opts...)
	mu.Lock()
	prev := logger
	logger = next
	mu.Unlock()
	prev.Close()
}

// SetDebug enables or disables debug entries for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	next := &Logger{
		base:   l.base,
		fields: make(logrus.Fields, len(l.fields)+len(fields)),
		level:  l.level,
	}
	for k, v := range l.fields {
		next.fields[k] = v
	}
	for _, f := range fields {
		next.fields[f.Key] = f.Value
	}
	return next
}

// WithError attaches err and its classification.
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

type ctxKey struct{}

// ContextWithFields stores fields that WithContext later attaches.
func ContextWithFields(ctx context.Context, fields ...Field) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]Field)
	merged := append(append([]Field{}, prev...), fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// WithContext attaches any fields stored on ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *Logger) enabled(level logrus.Level) bool {
	if level == logrus.DebugLevel && isDebug.Load() {
		return true
	}
	return level <= l.level
}

// emit writes one entry. depth is the runtime.Caller depth of the user call site.
func (l *Logger) emit(depth int, level logrus.Level, msg string) {
	if !l.enabled(level) {
		return
	}
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	if _, file, line, ok := runtime.Caller(depth); ok {
		fields["caller"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	l.base.WithFields(fields).Log(level, msg)
}

func (l *Logger) Debug(msg string) { l.emit(2, logrus.DebugLevel, msg) }
func (l *Logger) Info(msg string)  { l.emit(2, logrus.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.emit(2, logrus.WarnLevel, msg) }
func (l *Logger) Error(msg string) { l.emit(2, logrus.ErrorLevel, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Default returns the package-level logger.
func Default() *Logger {
	return current()
}

func Debug(msg string) { current().emit(2, logrus.DebugLevel, msg) }
func Info(msg string)  { current().emit(2, logrus.InfoLevel, msg) }
func Warn(msg string)  { current().emit(2, logrus.WarnLevel, msg) }
func Error(msg string) { current().emit(2, logrus.ErrorLevel, msg) }

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	current().emit(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	current().emit(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	current().emit(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	current().emit(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the package-level logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return current().With(fields...)
}

// LogWithError returns the package-level logger with err attached.
func LogWithError(err error) *Logger {
	return current().WithError(err)
}

// LogError logs err at error level.
func LogError(err error, msg string) {
	current().WithError(err).emit(2, logrus.ErrorLevel, msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}

	var loadErr *errors.LoadError
	if errors.As(err, &loadErr) {
		fields = append(fields, F("folder", loadErr.Folder()), F("file", loadErr.File()))
	}
	var storeErr *errors.StoreError
	if errors.As(err, &storeErr) {
		fields = append(fields, F("key", storeErr.Key()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) {
		fields = append(fields, F("param", configErr.Param()))
	}
	return fields
}
