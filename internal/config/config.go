// Package config loads the application configuration from a YAML file.
// Every field has a default; a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// DataDir is the directory holding the database file.
	DataDir string `yaml:"dataDir"`

	// DatabaseFile is the SQLite file name inside DataDir.
	DatabaseFile string `yaml:"databaseFile"`

	// PolicyFile optionally points at a CUE admission policy document.
	// Empty means the embedded default policy.
	PolicyFile string `yaml:"policyFile"`

	Caption CaptionConfig `yaml:"caption"`
}

// CaptionConfig configures the external caption service.
type CaptionConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:      ".",
		DatabaseFile: "reelvault.db",
		Caption: CaptionConfig{
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the configuration at path. A missing file yields Default();
// defaults are applied to any field the file omits.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// DatabasePath returns the full path of the SQLite database.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.DatabaseFile == "" {
		c.DatabaseFile = def.DatabaseFile
	}
	if c.Caption.TimeoutSeconds <= 0 {
		c.Caption.TimeoutSeconds = def.Caption.TimeoutSeconds
	}
}
