// Package config handles the configuration directory and settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// SettingsFile is the optional settings filename inside the config dir.
	SettingsFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TODO_BACKEND.
	EnvPrefix = "TODO"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Settings are loaded from the settings file and the environment.
type Settings struct {
	Backend     string `mapstructure:"backend"`
	Key         string `mapstructure:"key"`
	DataDir     string `mapstructure:"data_dir"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	DateFormat  string `mapstructure:"date_format"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings

	// In is where commands read confirmations from. nil reads nothing.
	In io.Reader

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings hold defaults until Load is called.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: defaults(dir)}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func defaults(dir string) Settings {
	return Settings{
		Backend:     BackendFile,
		Key:         "tasks",
		DataDir:     dir,
		RedisURL:    "redis://localhost:6379/0",
		RedisPrefix: "todo:",
		DateFormat:  "Jan 2, 2006",
	}
}

// Load reads the settings file (if present) and TODO_* environment
// variables over the defaults. Environment wins over the file.
func (c *Config) Load() error {
	d := defaults(c.Dir)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", d.Backend)
	v.SetDefault("key", d.Key)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("sqlite_path", "")
	v.SetDefault("redis_url", d.RedisURL)
	v.SetDefault("redis_prefix", d.RedisPrefix)
	v.SetDefault("date_format", d.DateFormat)
	v.SetDefault("log_level", "")
	v.SetDefault("log_file", "")

	path := c.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if strings.TrimSpace(s.Key) == "" {
		s.Key = d.Key
	}
	if s.DataDir == "" {
		s.DataDir = d.DataDir
	}
	c.Settings = s
	return nil
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SQLiteFile returns the sqlite database path.
func (c *Config) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, AppName+".db")
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Clock returns the configured clock, defaulting to time.Now.
func (c *Config) Clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}
