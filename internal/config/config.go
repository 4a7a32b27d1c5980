// ABOUTME: Configuration management for tastelog with layered loading.
// ABOUTME: Defaults, then ~/.config/tastelog/config.yaml, then TASTELOG_ env vars; handles ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nesting levels: TASTELOG_STORE__PATH sets store.path.
const EnvPrefix = "TASTELOG_"

// DefaultStorePath is the store file used when none is configured.
const DefaultStorePath = "app.json"

// Config stores tastelog configuration.
type Config struct {
	Store StoreConfig `koanf:"store" yaml:"store"`
	Log   LogConfig   `koanf:"log" yaml:"log"`
}

// StoreConfig holds the review store settings.
type StoreConfig struct {
	Path          string `koanf:"path" yaml:"path"`
	StrictRatings bool   `koanf:"strict_ratings" yaml:"strict_ratings"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:          DefaultStorePath,
			StrictRatings: false,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// GetStorePath returns the store file path with ~ expanded.
func (c *Config) GetStorePath() (string, error) {
	if c.Store.Path == "" {
		return DefaultStorePath, nil
	}
	return ExpandPath(c.Store.Path)
}

// Validate checks settings that would otherwise fail later.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "console", "json", "":
	default:
		return fmt.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "tastelog", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from defaults, the config file if present, and the
// environment, in increasing priority. A missing file is not an error.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile reads defaults and the config file only, ignoring the
// environment. Use it when the result will be saved back.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if withEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps TASTELOG_STORE__STRICT_RATINGS to store.strict_ratings.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// SaveTo writes config to the given path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Set assigns a config value by dotted key, as used by `tastelog config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "store.path":
		c.Store.Path = value
	case "store.strict_ratings":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("store.strict_ratings must be true or false: %w", err)
		}
		c.Store.StrictRatings = b
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return c.Validate()
}

// Keys lists the settable config keys.
func Keys() []string {
	return []string{"store.path", "store.strict_ratings", "log.level", "log.format"}
}
