// Package config loads the daybook configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	// Path is the database file. ":memory:" keeps everything in memory and
	// a leading "~/" is expanded to the home directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// ChatConfig bounds the chat history.
type ChatConfig struct {
	// MaxMessages is the history limit; 0 keeps every message.
	MaxMessages int `mapstructure:"max_messages" yaml:"max_messages"`
}

// RemindersConfig controls which notifications are handed to the scheduler.
type RemindersConfig struct {
	LookaheadHours int `mapstructure:"lookahead_hours" yaml:"lookahead_hours"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Chat      ChatConfig      `mapstructure:"chat" yaml:"chat"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/daybook/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "daybook", "config.yaml")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "daybook.db"
	}
	return filepath.Join(home, ".local", "share", "daybook", "daybook.db")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: defaultDatabasePath()},
		Log:       LogConfig{Level: "info"},
		Chat:      ChatConfig{MaxMessages: 50},
		Reminders: RemindersConfig{LookaheadHours: 24},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
// DAYBOOK_* environment variables override file values, e.g.
// DAYBOOK_DATABASE_PATH.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("daybook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("chat.max_messages", def.Chat.MaxMessages)
	v.SetDefault("reminders.lookahead_hours", def.Reminders.LookaheadHours)

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Chat.MaxMessages < 0 {
		return nil, fmt.Errorf("chat.max_messages must not be negative, got %d", cfg.Chat.MaxMessages)
	}
	if cfg.Reminders.LookaheadHours <= 0 {
		cfg.Reminders.LookaheadHours = def.Reminders.LookaheadHours
	}
	return cfg, nil
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("chat.max_messages", cfg.Chat.MaxMessages)
	v.Set("reminders.lookahead_hours", cfg.Reminders.LookaheadHours)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// DatabasePath returns Database.Path with a leading "~/" expanded.
func (c *Config) DatabasePath() string {
	p := c.Database.Path
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
