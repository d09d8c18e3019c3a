package cylog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/fj1981/durakit/pkg/cydur"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds the configuration for the logger.
type Config struct {
	// Filename is the file to write logs to. If empty, writes to stdout.
	Filename string
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated.
	MaxSize int
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int
	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int
	// Compress determines if the rotated log files should be compressed.
	Compress bool
	// Level is the minimum level to log.
	Level slog.Level
	// Format is the log output format, "json", "text" or "apache".
	Format string
	// CallerSkip is the number of extra stack frames to skip when reporting the caller.
	CallerSkip int
	// Writer is the custom writer to write logs to. It takes precedence over Filename.
	Writer io.Writer
	// AddSource is whether to add source information to the log.
	AddSource bool
	// NoColor disables level colors in the apache format.
	NoColor bool
}

// Option defines a function that configures the logger.
type Option func(*Config)

// WithFilename sets the log filename.
func WithFilename(filename string) Option {
	return func(c *Config) { c.Filename = filename }
}

// WithMaxSize sets the maximum size of the log file in megabytes.
func WithMaxSize(maxSize int) Option {
	return func(c *Config) { c.MaxSize = maxSize }
}

// WithMaxBackups sets the maximum number of old log files to retain.
func WithMaxBackups(maxBackups int) Option {
	return func(c *Config) { c.MaxBackups = maxBackups }
}

// WithMaxAge sets the maximum number of days to retain old log files.
func WithMaxAge(maxAge int) Option {
	return func(c *Config) { c.MaxAge = maxAge }
}

// WithCompress enables or disables log compression.
func WithCompress(compress bool) Option {
	return func(c *Config) { c.Compress = compress }
}

// WithLevel sets the logging level.
func WithLevel(level slog.Level) Option {
	return func(c *Config) { c.Level = level }
}

func WithLevelStr(level string) Option {
	return func(c *Config) { c.Level = LevelFromStr(level) }
}

// WithFormat sets the log output format.
func WithFormat(format string) Option {
	return func(c *Config) { c.Format = format }
}

// WithCallerSkip sets the number of extra stack frames to skip.
func WithCallerSkip(skip int) Option {
	return func(c *Config) { c.CallerSkip = skip }
}

// WithWriter sets the custom writer for the logger.
func WithWriter(writer io.Writer) Option {
	return func(c *Config) { c.Writer = writer }
}

// WithAddSource sets whether to add source information to the log.
func WithAddSource(addSource bool) Option {
	return func(c *Config) { c.AddSource = addSource }
}

// WithNoColor turns off colored levels.
func WithNoColor(noColor bool) Option {
	return func(c *Config) { c.NoColor = noColor }
}

// Logger wraps the slog.Logger.
type Logger struct {
	*slog.Logger
	skip int
}

var (
	defaultMu     sync.Mutex
	defaultConfig = Config{
		Level:     slog.LevelInfo,
		Format:    "apache",
		AddSource: true,
	}
	defaultLogger atomic.Pointer[Logger]
)

func init() {
	defaultLogger.Store(newFromConfig(defaultConfig))
}

// New creates a new Logger from the default configuration plus opts.
func New(opts ...Option) *Logger {
	defaultMu.Lock()
	cfg := defaultConfig
	defaultMu.Unlock()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newFromConfig(cfg)
}

func newFromConfig(cfg Config) *Logger {
	var writer io.Writer
	switch {
	case cfg.Writer != nil:
		writer = cfg.Writer
	case cfg.Filename != "":
		writer = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
	default:
		writer = os.Stdout
	}

	hOpts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					return slog.String(a.Key, formatSource(src.File, src.Line, src.Function))
				}
			}
			if a.Value.Kind() == slog.KindDuration {
				return slog.String(a.Key, cydur.Duration(a.Value.Duration()))
			}
			return a
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(writer, hOpts)
	case "apache":
		// 只有终端输出才着色，写文件时不带转义码
		colored := !cfg.NoColor && !color.NoColor && (writer == os.Stdout || writer == os.Stderr)
		handler = newApacheHandler(writer, hOpts, colored)
	default:
		handler = slog.NewTextHandler(writer, hOpts)
	}

	return &Logger{Logger: slog.New(handler), skip: cfg.CallerSkip}
}

func formatSource(file string, line int, function string) string {
	return fmt.Sprintf("%s(%d),%s", filepath.Base(file), line, filepath.Base(function))
}

func LevelFromStr(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitDefault updates the default configuration and rebuilds the package-level
// logger. It may run while other goroutines are logging.
func InitDefault(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	for _, opt := range opts {
		opt(&defaultConfig)
	}
	l := newFromConfig(defaultConfig)
	defaultLogger.Store(l)
	slog.SetDefault(l.Logger)
}

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// log emits a record attributed to frame skip of runtime.Callers. A skip of 3
// passes over runtime.Callers, log and one public helper.
func (l *Logger) log(ctx context.Context, skip int, level slog.Level, msg string, args ...any) {
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(skip+l.skip, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// logf 在级别关闭时不做 Sprintf；Error 级别总是格式化，因为要返回 error
func (l *Logger) logf(skip int, level slog.Level, format string, args []any) string {
	ctx := context.Background()
	if level < slog.LevelError && !l.Enabled(ctx, level) {
		return ""
	}
	msg := fmt.Sprintf(format, args...)
	l.log(ctx, skip+1, level, msg)
	return msg
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(3, slog.LevelInfo, format, args)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(3, slog.LevelDebug, format, args)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(3, slog.LevelWarn, format, args)
}

func (l *Logger) Errorf(format string, args ...any) error {
	return errors.New(l.logf(3, slog.LevelError, format, args))
}

func Infof(format string, args ...any) {
	Default().logf(3, slog.LevelInfo, format, args)
}

func Debugf(format string, args ...any) {
	Default().logf(3, slog.LevelDebug, format, args)
}

func Warnf(format string, args ...any) {
	Default().logf(3, slog.LevelWarn, format, args)
}

func Errorf(format string, args ...any) error {
	return errors.New(Default().logf(3, slog.LevelError, format, args))
}

func Info(msg string, attrs ...any) {
	Default().log(context.Background(), 3, slog.LevelInfo, msg, attrs...)
}

func Debug(msg string, attrs ...any) {
	Default().log(context.Background(), 3, slog.LevelDebug, msg, attrs...)
}

func Warn(msg string, attrs ...any) {
	Default().log(context.Background(), 3, slog.LevelWarn, msg, attrs...)
}

// Error logs msg at error level and returns it, with its key/value attrs, as an error.
func Error(msg string, attrs ...any) error {
	Default().log(context.Background(), 3, slog.LevelError, msg, attrs...)
	return errorFromAttrs(msg, attrs)
}

func errorFromAttrs(msg string, attrs []any) error {
	if len(attrs) == 0 {
		return errors.New(msg)
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprint(attrs[i+1]))
	}
	return errors.New(sb.String())
}
