// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, config files
// and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultSettingsPath = ""
	defaultLogLevel     = "info"
	defaultLogPretty    = false
	defaultDetectGPUs   = true
	envPrefix           = "SHEEPIT"
	configName          = "sheepit-settings"
)

// Flag names bound into the configuration by LoadWithFlags
const (
	FlagSettings  = "settings"
	FlagLogLevel  = "log-level"
	FlagLogPretty = "log-pretty"
)

// Config holds all application configuration
type Config struct {
	Settings SettingsConfig
	Logging  LoggingConfig
	Hardware HardwareConfig
}

// SettingsConfig locates the client settings file
type SettingsConfig struct {
	// Path is empty for <home>/.sheepit.conf
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// HardwareConfig controls device enumeration
type HardwareConfig struct {
	DetectGPUs bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command line flags taking precedence over every
// other source. Only flags the user actually set override.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "sheepit"))
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("settings.path", defaultSettingsPath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("hardware.detectgpus", defaultDetectGPUs)
}

// bindFlags maps flag names onto configuration keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"settings.path":  FlagSettings,
		"logging.level":  FlagLogLevel,
		"logging.pretty": FlagLogPretty,
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	// The settings file may not exist yet; it is created on first save.
	if c.Settings.Path != "" {
		if info, err := os.Stat(c.Settings.Path); err == nil && info.IsDir() {
			return fmt.Errorf("invalid settings path: %s is a directory", c.Settings.Path)
		}
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
