package cylog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fj1981/durakit/pkg/cylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestApacheFormat(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithAddSource(false))

	l.Info("backup finished", "table", "users", "took", 90*time.Minute+1500*time.Millisecond)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "["), line)
	assert.Contains(t, line, " |   INFO] backup finished table=users took=1h30m1s500ms\n")
	assert.NotContains(t, line, "\033[", "buffers are never colored")
}

func TestApacheSource(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithAddSource(true))

	l.Infof("loaded %d rows", 3)

	line := buf.String()
	assert.Contains(t, line, "| log_test.go(")
	assert.Contains(t, line, "cylog_test.TestApacheSource")
	assert.Contains(t, line, "] loaded 3 rows")
}

func TestApacheAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithAddSource(false))

	l.With("req", 7).WithGroup("db").Warn("slow query", "wait", 2*time.Second, slog.Group("conn", "id", 3))

	assert.Contains(t, buf.String(), "|   WARN] slow query req=7 db.wait=2s db.conn.id=3\n")
}

func TestApacheReplaceAttrGroups(t *testing.T) {
	var buf bytes.Buffer
	seen := map[string][]string{}
	h := cylog.NewApacheHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			seen[a.Key] = append([]string(nil), groups...)
			if a.Key == "secret" {
				return slog.Attr{}
			}
			return a
		},
	})

	slog.New(h).With("req", 7).WithGroup("db").With("host", "a").
		Info("query", "rows", 2, slog.Group("conn", "id", 3, "secret", "x"))

	assert.Empty(t, seen["req"])
	assert.Equal(t, []string{"db"}, seen["host"])
	assert.Equal(t, []string{"db"}, seen["rows"])
	assert.Equal(t, []string{"db", "conn"}, seen["id"])
	assert.Equal(t, []string{"db", "conn"}, seen["secret"])
	assert.Contains(t, buf.String(), "] query req=7 db.host=a db.rows=2 db.conn.id=3\n")
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithLevelStr("warn"))

	l.Debugf("hidden %d", 1)
	l.Info("hidden")
	assert.Empty(t, buf.String())

	err := l.Errorf("boom %s", "now")
	require.Error(t, err)
	assert.Equal(t, "boom now", err.Error())
	assert.Contains(t, buf.String(), "|  ERROR")
}

func TestJSONFormatRendersDurations(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithFormat("json"), cylog.WithAddSource(true))

	l.Info("uptime", "up", 6_000_000*time.Second)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "uptime", rec["msg"])
	assert.Equal(t, "69d10h40m", rec["up"])
	assert.Contains(t, rec["source"], "log_test.go(")
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithFormat("text"), cylog.WithAddSource(false))

	l.Info("bench", "took", 3_000_129_723*time.Nanosecond)

	assert.Contains(t, buf.String(), "took=3s129µs723ns")
}

func TestTrack(t *testing.T) {
	var buf bytes.Buffer
	l := cylog.New(cylog.WithWriter(&buf), cylog.WithAddSource(false))

	func() {
		defer l.Track("compact", "shard", 2)()
	}()

	assert.Regexp(t, `\] compact shard=2 elapsed=[0-9]+[0-9dhmsµn]*\n$`, buf.String())
}

func TestElapsed(t *testing.T) {
	a := cylog.Elapsed(time.Now().Add(-time.Hour))
	assert.Equal(t, "elapsed", a.Key)
	assert.GreaterOrEqual(t, a.Value.Duration(), time.Hour)
}

func TestPackageLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	cylog.InitDefault(cylog.WithWriter(&buf), cylog.WithAddSource(true))
	t.Cleanup(func() { cylog.InitDefault(cylog.WithWriter(os.Stdout)) })

	cylog.Info("started", "port", 8080)
	err := cylog.Error("failed", "value", 3, "style", "ns")
	cylog.Track("whole run")()

	out := buf.String()
	assert.Contains(t, out, "] started port=8080")
	assert.Contains(t, out, "] failed value=3 style=ns")
	assert.Contains(t, out, "] whole run elapsed=")
	assert.Equal(t, 3, strings.Count(out, "log_test.go("), out)
	require.Error(t, err)
	assert.Equal(t, "failed value=3 style=ns", err.Error())
	assert.Same(t, cylog.Default().Logger, slog.Default())
}

func TestInitDefaultWhileLogging(t *testing.T) {
	t.Cleanup(func() { cylog.InitDefault(cylog.WithWriter(os.Stdout), cylog.WithLevel(slog.LevelInfo)) })

	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			for j := range 50 {
				if i%2 == 0 {
					cylog.InitDefault(cylog.WithWriter(io.Discard), cylog.WithLevel(slog.Level(j%3*4-4)))
					continue
				}
				done := cylog.Track("tick", "worker", i)
				cylog.Infof("tick %d", j)
				done()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var buf bytes.Buffer
	cylog.InitDefault(cylog.WithWriter(&buf), cylog.WithLevel(slog.LevelInfo))
	cylog.Info("after swap")
	assert.Contains(t, buf.String(), "] after swap")
	assert.Same(t, cylog.Default().Logger, slog.Default())
}

func TestFileRotationWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durakit.log")
	l := cylog.New(cylog.WithFilename(path), cylog.WithMaxSize(1), cylog.WithAddSource(false))

	l.Info("written to file", "took", time.Minute)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file took=1m")
	assert.NotContains(t, string(data), "\033[")
}

func TestLevelFromStr(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, cylog.LevelFromStr("DEBUG"))
	assert.Equal(t, slog.LevelWarn, cylog.LevelFromStr("warning"))
	assert.Equal(t, slog.LevelError, cylog.LevelFromStr("error"))
	assert.Equal(t, slog.LevelInfo, cylog.LevelFromStr("verbose"))
}
