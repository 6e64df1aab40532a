package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const appDirName = "mkvtomp4"

// Config holds persistent application settings
type Config struct {
	LastInputDir  string `toml:"last_input_dir"`
	LastOutputDir string `toml:"last_output_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`

	path string
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

// configPath returns the path to the config file
func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, appDirName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "config.toml"), nil
}

// Load loads the config from the user config directory, returning defaults
// if it is missing or unreadable
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile loads the config at path. A missing or malformed file yields
// defaults; other read errors are returned.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		cfg.path = path
		return cfg, nil
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			return err
		}
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
	if c.LastInputDir != "" && !isDir(c.LastInputDir) {
		c.LastInputDir = ""
	}
	if c.LastOutputDir != "" && !isDir(c.LastOutputDir) {
		c.LastOutputDir = ""
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
