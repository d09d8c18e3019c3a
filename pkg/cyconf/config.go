package cyconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrNoConfig = errors.New("cyconf: no valid config found")

// === 配置源定义 ===

type ConfigSource interface {
	// Load 加载配置到 viper，返回是否加载成功
	Load(v *viper.Viper) (bool, error)
}

// FlagSource reads the config path from a command line flag. FLAG_<NAME> in
// the environment wins over the command line, which keeps tests away from
// os.Args.
type FlagSource struct {
	FlagName  string
	Shorthand string
	Default   string
	Args      []string
}

func (s *FlagSource) Load(v *viper.Viper) (bool, error) {
	path := os.Getenv("FLAG_" + strings.ToUpper(strings.ReplaceAll(s.FlagName, "-", "_")))
	if path == "" {
		// 独立的 FlagSet，不影响全局 flag，也忽略其它未知参数
		fs := pflag.NewFlagSet(s.FlagName, pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.ParseErrorsAllowlist.UnknownFlags = true
		configPath := fs.StringP(s.FlagName, s.Shorthand, s.Default, "path to config file")

		args := s.Args
		if args == nil && len(os.Args) > 1 {
			args = os.Args[1:]
		}
		_ = fs.Parse(args)
		path = *configPath
	}
	if path == "" {
		return false, nil
	}

	loaded, err := loadFileIfExists(v, path, detectType(path))
	if err != nil {
		return false, fmt.Errorf("cyconf: load config from flag %s (path: %s): %w", s.FlagName, path, err)
	}
	return loaded, nil
}

// EnvSource reads the config path from an environment variable.
type EnvSource struct {
	EnvVar string
}

func (s *EnvSource) Load(v *viper.Viper) (bool, error) {
	path := os.Getenv(s.EnvVar)
	if path == "" {
		return false, nil
	}
	loaded, err := loadFileIfExists(v, path, detectType(path))
	if err != nil {
		return false, fmt.Errorf("cyconf: load config from env %s (path: %s): %w", s.EnvVar, path, err)
	}
	return loaded, nil
}

// FileSource 指向一个配置文件
type FileSource struct {
	Path string
	Type string
}

func (s *FileSource) Load(v *viper.Viper) (bool, error) {
	typ := s.Type
	if typ == "" {
		typ = detectType(s.Path)
	}
	loaded, err := loadFileIfExists(v, s.Path, typ)
	if err != nil {
		return false, fmt.Errorf("cyconf: load config from file %s: %w", s.Path, err)
	}
	return loaded, nil
}

// FileGroup merges several files in order, later files overriding earlier
// ones. Missing files are skipped.
type FileGroup struct {
	Sources []FileSource
}

func (g *FileGroup) Load(v *viper.Viper) (bool, error) {
	var loaded bool
	var errs []error
	for i := range g.Sources {
		ok, err := g.Sources[i].Load(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = loaded || ok
	}
	if !loaded && len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return loaded, nil
}

// === Option 定义 ===

type Option func(*configLoader)

type configLoader struct {
	flagSources []FlagSource
	envSources  []EnvSource
	fileGroup   FileGroup

	envPrefix string
	optional  bool

	defaultFlagName string
	defaultEnvVar   string
	defaultFilePath string
}

func newConfigLoader() *configLoader {
	return &configLoader{
		defaultFlagName: "config",
		defaultEnvVar:   "CONFIG_PATH",
		defaultFilePath: "config.yml",
	}
}

// WithFlag 从命令行 flag 读取配置路径
func WithFlag(flagName, defaultPath string) Option {
	return func(cl *configLoader) {
		cl.flagSources = append(cl.flagSources, FlagSource{FlagName: flagName, Default: defaultPath})
	}
}

// WithFlagArgs is WithFlag parsing args instead of os.Args.
func WithFlagArgs(flagName, shorthand string, args []string) Option {
	return func(cl *configLoader) {
		cl.flagSources = append(cl.flagSources, FlagSource{FlagName: flagName, Shorthand: shorthand, Args: args})
	}
}

// WithEnv 从环境变量读取配置路径
func WithEnv(envVar string) Option {
	return func(cl *configLoader) {
		cl.envSources = append(cl.envSources, EnvSource{EnvVar: envVar})
	}
}

// WithFile adds a config file; all files given are merged. The type is
// detected from the extension and defaults to yaml.
func WithFile(path string) Option {
	return func(cl *configLoader) {
		cl.fileGroup.Sources = append(cl.fileGroup.Sources, FileSource{Path: path, Type: detectType(path)})
	}
}

// WithFiles 添加多个配置文件（合并）
func WithFiles(paths ...string) Option {
	return func(cl *configLoader) {
		for _, path := range paths {
			WithFile(path)(cl)
		}
	}
}

// WithDefaults replaces the flag name, env var and file used when no source
// option is given.
func WithDefaults(flagName, envVar, filePath string) Option {
	return func(cl *configLoader) {
		cl.defaultFlagName = flagName
		cl.defaultEnvVar = envVar
		cl.defaultFilePath = filePath
	}
}

// WithEnvPrefix lets PREFIX_SECTION_KEY environment variables override
// values loaded from a file.
func WithEnvPrefix(prefix string) Option {
	return func(cl *configLoader) { cl.envPrefix = prefix }
}

// WithOptional returns a zero config instead of ErrNoConfig when no source
// yields a file.
func WithOptional() Option {
	return func(cl *configLoader) { cl.optional = true }
}

// === 主加载逻辑 ===

var configMu sync.Mutex

// LoadConfig tries the flag sources, then the env sources, then the merged
// file group, and decodes the first that loads into T. Fields implementing
// encoding.TextUnmarshaler and time.Duration fields decode from strings.
func LoadConfig[T any](opts ...Option) (*T, error) {
	configMu.Lock()
	defer configMu.Unlock()

	cl := newConfigLoader()
	for _, opt := range opts {
		opt(cl)
	}

	// 什么都没设置时使用默认三件套
	if len(cl.flagSources) == 0 && len(cl.envSources) == 0 && len(cl.fileGroup.Sources) == 0 {
		WithFlag(cl.defaultFlagName, "")(cl)
		WithEnv(cl.defaultEnvVar)(cl)
		WithFile(cl.defaultFilePath)(cl)
	}

	var sources []ConfigSource
	for i := range cl.flagSources {
		sources = append(sources, &cl.flagSources[i])
	}
	for i := range cl.envSources {
		sources = append(sources, &cl.envSources[i])
	}
	if len(cl.fileGroup.Sources) > 0 {
		sources = append(sources, &cl.fileGroup)
	}

	v := viper.New()
	loaded := false
	var loadErr error
	for _, src := range sources {
		ok, err := src.Load(v)
		if err != nil {
			loadErr = err
			continue
		}
		if ok {
			loaded = true
			break
		}
	}

	if !loaded {
		if loadErr != nil {
			return nil, loadErr
		}
		if !cl.optional {
			return nil, ErrNoConfig
		}
	}

	if cl.envPrefix != "" {
		v.SetEnvPrefix(cl.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config T
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&config, hook); err != nil {
		return nil, fmt.Errorf("cyconf: failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// === 工具函数 ===

// detectType 从文件扩展名推断类型
func detectType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

func getFullPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}

// loadFileIfExists 文件不存在时返回 false，不报错
func loadFileIfExists(v *viper.Viper, path, typ string) (bool, error) {
	path = getFullPath(path)
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false, nil
	}
	return loadSingleFile(v, path, typ)
}

func loadSingleFile(v *viper.Viper, path, typ string) (bool, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType(typ)
	if err := vp.ReadInConfig(); err != nil {
		return false, err
	}
	if err := v.MergeConfigMap(vp.AllSettings()); err != nil {
		return false, err
	}
	return true, nil
}
