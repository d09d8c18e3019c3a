package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fj1981/durakit/pkg/cyconf"
	"github.com/fj1981/durakit/pkg/cydur"
	"github.com/fj1981/durakit/pkg/cylog"
	"github.com/fj1981/durakit/pkg/cyutil"
	"github.com/spf13/pflag"
)

const (
	configEnv  = "DURFMT_CONFIG"
	configFile = "durfmt.yml"
	envPrefix  = "DURFMT"
)

var errInvalidInput = errors.New("invalid input")

type config struct {
	Style cydur.Style `mapstructure:"style"`
	Log   struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`
}

type options struct {
	style      string
	duration   bool
	configPath string
	logLevel   string
	logFormat  string
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var o options
	fs := pflag.NewFlagSet("durfmt", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: durfmt [flags] [value ...]")
		fmt.Fprintln(stderr, "values are read one per line from stdin when none are given")
		fs.PrintDefaults()
	}
	fs.StringVarP(&o.style, "style", "s", "", "output units: dhms, wdhms or ns (default dhms)")
	fs.BoolVarP(&o.duration, "duration", "d", false, "treat values as Go durations such as 1h30m")
	fs.StringVarP(&o.configPath, "config", "c", "", "config file (default $"+configEnv+" or ./"+configFile+")")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (default warn)")
	fs.StringVar(&o.logFormat, "log-format", "", "apache, text or json (default apache)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &o, fs.Args(), nil
}

func loadConfig(path string) (*config, error) {
	if path != "" {
		return cyconf.LoadConfig[config](cyconf.WithFile(path), cyconf.WithEnvPrefix(envPrefix))
	}
	return cyconf.LoadConfig[config](
		cyconf.WithEnv(configEnv),
		cyconf.WithFile(configFile),
		cyconf.WithEnvPrefix(envPrefix),
		cyconf.WithOptional(),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func setupLogging(o *options, cfg *config, stderr io.Writer) {
	opts := []cylog.Option{
		cylog.WithLevelStr(firstNonEmpty(o.logLevel, cfg.Log.Level, "warn")),
		cylog.WithFormat(firstNonEmpty(o.logFormat, cfg.Log.Format, "apache")),
		cylog.WithAddSource(false),
	}
	if cfg.Log.File != "" {
		opts = append(opts, cylog.WithFilename(cfg.Log.File), cylog.WithWriter(nil))
	} else {
		opts = append(opts, cylog.WithWriter(stderr))
	}
	cylog.InitDefault(opts...)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, values, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	setupLogging(o, cfg, stderr)

	style := cfg.Style
	if o.style != "" {
		if style, err = cydur.ParseStyle(o.style); err != nil {
			return err
		}
	}
	if style == "" {
		// durations keep their sub-second part unless a style is asked for
		style = cydur.StyleDHMS
		if o.duration {
			style = cydur.StyleNS
		}
	}
	defer cylog.Track("durfmt finished", "style", style)()
	if len(values) > 0 {
		cylog.Debug("durfmt input", "values", cyutil.ToStr(values))
	}

	f := &formatter{style: style, duration: o.duration, out: stdout}
	if len(values) > 0 {
		for _, v := range values {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.format(v)
		}
	} else {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if line := strings.TrimSpace(sc.Text()); line != "" {
				f.format(line)
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	if f.failed > 0 {
		return fmt.Errorf("%w: %d of %d value(s)", errInvalidInput, f.failed, f.total)
	}
	return nil
}

type formatter struct {
	style    cydur.Style
	duration bool
	out      io.Writer

	total  int
	failed int
}

func (f *formatter) format(value string) {
	f.total++
	out, err := f.render(value)
	if err != nil {
		f.failed++
		_ = cylog.Error("invalid value", "value", cyutil.ToStr(value), "error", err)
		return
	}
	cylog.Debug("formatted", "value", value, "style", f.style, "result", out)
	fmt.Fprintln(f.out, out)
}

func (f *formatter) render(value string) (string, error) {
	if f.duration {
		d, err := time.ParseDuration(value)
		if err != nil {
			return "", err
		}
		if d < 0 {
			return "", cyutil.ErrNegative
		}
		return f.style.Duration(d), nil
	}
	n, err := cyutil.ToUint64(value)
	if err != nil {
		return "", err
	}
	return f.style.Format(n), nil
}
