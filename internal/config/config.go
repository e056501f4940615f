package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/syntax/lexcache"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "TEXTCORE_"

// Config is the complete configuration.
type Config struct {
	Syntax SyntaxConfig `toml:"syntax" yaml:"syntax"`
	Theme  ThemeConfig  `toml:"theme" yaml:"theme"`
}

// SyntaxConfig tunes the lexical cache.
type SyntaxConfig struct {
	// CheckpointStride is the number of lines between state checkpoints.
	CheckpointStride int `toml:"checkpoint_stride" yaml:"checkpoint_stride"`
	// MaxScanDistance is the largest gap in bytes a synchronous query rescans
	// before using an approximate state.
	MaxScanDistance int `toml:"max_scan_distance" yaml:"max_scan_distance"`
	// WorkSlice is the time budget of one background work turn.
	WorkSlice Duration `toml:"work_slice" yaml:"work_slice"`
	// WorkPause is the delay between background work turns.
	WorkPause Duration `toml:"work_pause" yaml:"work_pause"`
	// TabSize is the tab width used for columns.
	TabSize int `toml:"tab_size" yaml:"tab_size"`
}

// ThemeConfig selects and customizes the highlight theme.
type ThemeConfig struct {
	// Name is a built-in theme name.
	Name string `toml:"name" yaml:"name"`
	// Foreground overrides the default text color.
	Foreground string `toml:"foreground" yaml:"foreground"`
	// Background overrides the background color.
	Background string `toml:"background" yaml:"background"`
	// Tags maps tag scopes to styles such as "bold #ff8800".
	Tags map[string]string `toml:"tags" yaml:"tags"`
}

// Duration is a time.Duration written as a string like "150ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Syntax: SyntaxConfig{
			CheckpointStride: lexcache.DefaultCheckpointStride,
			MaxScanDistance:  lexcache.DefaultMaxScanDistance,
			WorkSlice:        Duration(lexcache.DefaultWorkSlice),
			WorkPause:        Duration(lexcache.DefaultWorkPause),
			TabSize:          lexcache.DefaultTabSize,
		},
		Theme: ThemeConfig{
			Name: "Default Dark",
			Tags: map[string]string{},
		},
	}
}

// Load reads the configuration file at path over the defaults, applies
// environment overrides and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadFS is Load with an explicit file system and environment.
func LoadFS(fsys loader.FileSystem, path string, env *loader.EnvLoader) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := loader.Load(fsys, path, cfg); err != nil {
			return nil, err
		}
	}
	if env != nil {
		if err := cfg.ApplyEnv(env); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envPaths lists the settings that can be overridden from the environment.
var envPaths = []string{
	"syntax.checkpoint_stride",
	"syntax.max_scan_distance",
	"syntax.work_slice",
	"syntax.work_pause",
	"syntax.tab_size",
	"theme.name",
	"theme.foreground",
	"theme.background",
}

// ApplyEnv applies overrides read by env. TEXTCORE_THEME and
// TEXTCORE_TAB_SIZE are accepted as short forms.
func (c *Config) ApplyEnv(env *loader.EnvLoader) error {
	env.AddMapping(EnvPrefix+"THEME", "theme.name")
	env.AddMapping(EnvPrefix+"TAB_SIZE", "syntax.tab_size")

	var errs []error
	for path, val := range env.Load(envPaths) {
		if err := c.set(path, val); err != nil {
			errs = append(errs, &ValidationError{
				Path:    path,
				Message: err.Error(),
				Value:   val,
				Code:    ErrCodeTypeMismatch,
			})
		}
	}
	return errors.Join(errs...)
}

func (c *Config) set(path, val string) error {
	var err error
	switch path {
	case "syntax.checkpoint_stride":
		c.Syntax.CheckpointStride, err = strconv.Atoi(val)
	case "syntax.max_scan_distance":
		c.Syntax.MaxScanDistance, err = strconv.Atoi(val)
	case "syntax.work_slice":
		err = c.Syntax.WorkSlice.UnmarshalText([]byte(val))
	case "syntax.work_pause":
		err = c.Syntax.WorkPause.UnmarshalText([]byte(val))
	case "syntax.tab_size":
		c.Syntax.TabSize, err = strconv.Atoi(val)
	case "theme.name":
		c.Theme.Name = val
	case "theme.foreground":
		c.Theme.Foreground = val
	case "theme.background":
		c.Theme.Background = val
	default:
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	return err
}

// Validate reports every setting outside its allowed range.
func (c *Config) Validate() error {
	var errs []error
	check := func(path string, ok bool, value any, msg string) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: ErrCodeOutOfRange})
		}
	}
	s := c.Syntax
	check("syntax.checkpoint_stride", s.CheckpointStride > 0, s.CheckpointStride, "must be positive")
	check("syntax.max_scan_distance", s.MaxScanDistance > 0, s.MaxScanDistance, "must be positive")
	check("syntax.work_slice", s.WorkSlice > 0, s.WorkSlice.Std(), "must be positive")
	check("syntax.work_pause", s.WorkPause >= 0, s.WorkPause.Std(), "must not be negative")
	check("syntax.tab_size", s.TabSize > 0 && s.TabSize <= 16, s.TabSize, "must be between 1 and 16")
	return errors.Join(errs...)
}

// CacheOptions returns the lexical cache options for these settings.
func (s SyntaxConfig) CacheOptions() []lexcache.Option {
	return []lexcache.Option{
		lexcache.WithCheckpointStride(s.CheckpointStride),
		lexcache.WithMaxScanDistance(s.MaxScanDistance),
		lexcache.WithWorkSlice(s.WorkSlice.Std()),
		lexcache.WithWorkPause(s.WorkPause.Std()),
		lexcache.WithTabSize(s.TabSize),
	}
}
