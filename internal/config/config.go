package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete pcbuild configuration
type Config struct {
	Guide    GuideConfig    `mapstructure:"guide" yaml:"guide"`
	Assets   AssetsConfig   `mapstructure:"assets" yaml:"assets"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Progress ProgressConfig `mapstructure:"progress" yaml:"progress"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// GuideConfig selects the walkthrough to run
type GuideConfig struct {
	// Name is a built-in guide name (default: "pc-assembly")
	Name string `mapstructure:"name" yaml:"name"`
	// File is a path to a guide YAML file; it takes precedence over Name
	File string `mapstructure:"file" yaml:"file"`
	// Floor overrides the guide's retreat floor. -1 keeps the guide's own value.
	Floor int `mapstructure:"floor" yaml:"floor"`
}

// FloorOverride returns the configured retreat floor, or nil when the
// guide's own floor applies.
func (g GuideConfig) FloorOverride() *int {
	if g.Floor < 0 {
		return nil
	}
	floor := g.Floor
	return &floor
}

// AssetsConfig controls where scenes are loaded from
type AssetsConfig struct {
	// Dir is a directory of scene YAML files layered over the built-in scenes
	Dir string `mapstructure:"dir" yaml:"dir"`
	// PreloadWorkers bounds concurrent scene parsing at startup (default: 4)
	PreloadWorkers int `mapstructure:"preload_workers" yaml:"preload_workers"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MessageSeconds is how long auto-hiding messages stay on screen (default: 3)
	MessageSeconds int `mapstructure:"message_seconds" yaml:"message_seconds"`
	// AltScreen runs the TUI in the terminal's alternate screen
	AltScreen bool `mapstructure:"alt_screen" yaml:"alt_screen"`
	// ShowStage shows the anchored scenes panel
	ShowStage bool `mapstructure:"show_stage" yaml:"show_stage"`
	// Theme is the color theme name or a path to a theme YAML file
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// ProgressConfig controls session persistence
type ProgressConfig struct {
	// Enabled records sessions and visits to the progress database
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// DBPath overrides the database location (default: {data dir}/progress.db)
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
	// Resume continues the latest unfinished session of the same guide
	Resume bool `mapstructure:"resume" yaml:"resume"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is active (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the log directory (default: {data dir}/logs)
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Stderr mirrors warnings and errors to stderr in plain mode
	Stderr bool `mapstructure:"stderr" yaml:"stderr"`
	// MaxSizeMB rotates pcbuild.log once it reaches this size; 0 never rotates (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is how many rotated files are kept (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Guide: GuideConfig{
			Name:  "pc-assembly",
			Floor: -1,
		},
		Assets: AssetsConfig{
			PreloadWorkers: 4,
		},
		TUI: TUIConfig{
			MessageSeconds: 3,
			AltScreen:      true,
			ShowStage:      true,
			Theme:          "default",
		},
		Progress: ProgressConfig{
			Enabled: true,
			Resume:  false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:      "info",
			Stderr:     false,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// MessageDuration returns the auto-hide delay as a time.Duration
func (c *TUIConfig) MessageDuration() time.Duration {
	return time.Duration(c.MessageSeconds) * time.Second
}

// ResolveDBPath returns the database path, defaulting into the data directory
func (c *ProgressConfig) ResolveDBPath() string {
	if c.DBPath != "" {
		return expandHome(c.DBPath)
	}
	return filepath.Join(DataDir(), "progress.db")
}

// ResolveDir returns the log directory, defaulting into the data directory
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return expandHome(c.Dir)
	}
	return filepath.Join(DataDir(), "logs")
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Guide defaults
	viper.SetDefault("guide.name", defaults.Guide.Name)
	viper.SetDefault("guide.file", defaults.Guide.File)
	viper.SetDefault("guide.floor", defaults.Guide.Floor)

	// Assets defaults
	viper.SetDefault("assets.dir", defaults.Assets.Dir)
	viper.SetDefault("assets.preload_workers", defaults.Assets.PreloadWorkers)

	// TUI defaults
	viper.SetDefault("tui.message_seconds", defaults.TUI.MessageSeconds)
	viper.SetDefault("tui.alt_screen", defaults.TUI.AltScreen)
	viper.SetDefault("tui.show_stage", defaults.TUI.ShowStage)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Progress defaults
	viper.SetDefault("progress.enabled", defaults.Progress.Enabled)
	viper.SetDefault("progress.db_path", defaults.Progress.DBPath)
	viper.SetDefault("progress.resume", defaults.Progress.Resume)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.stderr", defaults.Logging.Stderr)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pcbuild")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pcbuild"
	}
	return filepath.Join(home, ".config", "pcbuild")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the directory for the progress database and logs
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pcbuild")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pcbuild"
	}
	return filepath.Join(home, ".local", "share", "pcbuild")
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
