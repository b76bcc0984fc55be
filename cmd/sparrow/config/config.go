// Package config reads and writes the player's preferences file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds player preferences.
type Config struct {
	// Theme is "light", "dark" or "auto".
	Theme string `yaml:"theme"`
	// Chapter is a path to a chapter file to play instead of the built-in
	// one. Empty means built-in.
	Chapter string `yaml:"chapter,omitempty"`
	// Debug turns on the session log file.
	Debug bool `yaml:"debug"`
	// LogDir overrides where session logs land. Empty means logs/ under
	// the state directory.
	LogDir string `yaml:"log_dir,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Theme: "auto",
	}
}

// Dir returns the sparrownet state directory. SPARROWNET_HOME overrides
// everything; an existing .sparrownet in the working directory beats the
// usual ~/.sparrownet, so chapter authors can keep a workspace config next
// to the files they are editing.
func Dir() (string, error) {
	if dir := os.Getenv("SPARROWNET_HOME"); dir != "" {
		return dir, nil
	}
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".sparrownet")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sparrownet"), nil
}

// File returns the full path to the config file
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ResolveLogDir returns where session logs should go: the configured
// directory when set, logs/ under the state directory otherwise.
func (c Config) ResolveLogDir() (string, error) {
	if c.LogDir != "" {
		return c.LogDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// Load reads the configuration from disk. A missing file is not an error;
// it yields the defaults.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to disk
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
