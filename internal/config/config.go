package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AccentColor string `mapstructure:"accent_color"`
	DateFormat  string `mapstructure:"date_format"`
	ShowStatus  bool   `mapstructure:"show_status"`
}

// Load reads configuration from file and env. Env var overrides use prefix TUIDO_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "tuido", "tuido.db"))
	v.SetDefault("ui.accent_color", "205")
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.show_status", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TUIDO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tuido"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TUIDO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("TUIDO_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "tuido", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.accent_color", cfg.UI.AccentColor)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.show_status", cfg.UI.ShowStatus)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
