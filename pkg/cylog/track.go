package cylog

import (
	"context"
	"log/slog"
	"time"
)

// Elapsed returns an "elapsed" attribute holding the time since start. Every
// handler built by this package renders it as a compound duration such as
// "1s250ms".
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Track starts a timer and returns a func that logs msg, attrs and the
// elapsed time at info level.
//
//	defer cylog.Track("rebuild index", "table", name)()
func Track(msg string, attrs ...any) func() {
	return Default().track(msg, attrs)
}

// Track is the Logger form of the package-level Track.
func (l *Logger) Track(msg string, attrs ...any) func() {
	return l.track(msg, attrs)
}

func (l *Logger) track(msg string, attrs []any) func() {
	start := time.Now()
	attrs = attrs[:len(attrs):len(attrs)]
	return func() {
		// runtime.Callers, log, this closure
		l.log(context.Background(), 3, slog.LevelInfo, msg, append(attrs, Elapsed(start))...)
	}
}
