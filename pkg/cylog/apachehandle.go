package cylog

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/duke-git/lancet/v2/strutil"
	"github.com/fatih/color"
	"github.com/fj1981/durakit/pkg/cydur"
)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgCyan),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
}

// apacheHandler writes one line per record:
//
//	[2006-01-02 15:04:05.000 -0700 |   INFO| main.go(12),main.run] msg key=value elapsed=1s250ms
type apacheHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	opts    slog.HandlerOptions
	colored bool
	groups  []string
	attrs   []byte
}

func newApacheHandler(w io.Writer, opts *slog.HandlerOptions, colored bool) *apacheHandler {
	h := &apacheHandler{mu: &sync.Mutex{}, w: w, colored: colored}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// NewApacheHandler returns an uncolored apache style handler.
func NewApacheHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return newApacheHandler(w, opts, false)
}

func (h *apacheHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *apacheHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 1024)
	buf = append(buf, r.Time.Format("[2006-01-02 15:04:05.000 -0700")...)

	level := strutil.PadStart(r.Level.String(), 7, " ")
	if c, ok := levelColors[r.Level]; ok && h.colored {
		level = c.Sprint(level)
	}
	buf = append(buf, " |"...)
	buf = append(buf, level...)

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		buf = append(buf, "| "...)
		buf = append(buf, formatSource(frame.File, frame.Line, frame.Function)...)
	}
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.groups, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// appendAttr writes a under groups, the enclosing group names outermost
// first. Nested keys are joined with dots.
func (h *apacheHandler) appendAttr(buf []byte, groups []string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return buf
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		g := groups
		if a.Key != "" {
			g = append(slices.Clip(groups), a.Key)
		}
		for _, ga := range a.Value.Group() {
			buf = h.appendAttr(buf, g, ga)
		}
		return buf
	case slog.KindDuration:
		return appendKV(buf, groupKey(groups, a.Key), cydur.Duration(a.Value.Duration()))
	}

	if a.Key == "" || a.Key == "!BADKEY" {
		buf = append(buf, ' ')
		return append(buf, a.Value.String()...)
	}
	return appendKV(buf, groupKey(groups, a.Key), a.Value.String())
}

func groupKey(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	return strings.Join(groups, ".") + "." + key
}

func appendKV(buf []byte, key, value string) []byte {
	buf = append(buf, ' ')
	buf = append(buf, key...)
	buf = append(buf, '=')
	return append(buf, value...)
}

func (h *apacheHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		h2.attrs = h.appendAttr(h2.attrs, h.groups, a)
	}
	return &h2
}

func (h *apacheHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)
	return &h2
}
