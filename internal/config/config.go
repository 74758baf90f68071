// Package config manages the runnable configuration file.
// Config is stored in ~/.config/runnable/config.yaml
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "runnable"
	configFileName = "config.yaml"

	LogModeCmd   = "cmd"
	LogModeBuild = "build"
)

// Config represents the runnable configuration.
type Config struct {
	Defaults Defaults        `yaml:"defaults"`
	Repos    map[string]Repo `yaml:"repos"`
	Terminal Terminal        `yaml:"terminal"`
	Stream   Stream          `yaml:"stream"`
}

// Defaults apply to every command.
type Defaults struct {
	LogLevel string `yaml:"log_level"`
	// LogMode picks what `runnable log` streams without flags: "cmd" or "build".
	LogMode string `yaml:"log_mode"`
}

// Repo is per-repository configuration, keyed by "repo/branch" or "repo".
type Repo struct {
	Alias string `yaml:"alias"`
	// Destination is the default upload directory for this repository.
	Destination string `yaml:"destination,omitempty"`
}

// Terminal configures terminal integration.
type Terminal struct {
	SetTabTitle bool   `yaml:"set_tab_title"`
	TitleFormat string `yaml:"title_format"`
}

// Stream configures the websocket session.
type Stream struct {
	DialRetries    int `yaml:"dial_retries"`
	DialRetryDelay int `yaml:"dial_retry_delay"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			LogLevel: "warn",
			LogMode:  LogModeCmd,
		},
		Repos: map[string]Repo{},
		Terminal: Terminal{
			SetTabTitle: true,
			TitleFormat: "Runnable: {repo}:{branch}",
		},
		Stream: Stream{
			DialRetries:    3,
			DialRetryDelay: 1,
		},
	}
}

// Path returns the config file path: $XDG_CONFIG_HOME/runnable/config.yaml,
// or ~/.config/runnable/config.yaml.
func Path() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Load reads the config file. Keys missing from the file keep their
// defaults; a missing file yields DefaultConfig.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Repos == nil {
		cfg.Repos = map[string]Repo{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that commands would otherwise misread.
func (c *Config) Validate() error {
	switch c.Defaults.LogMode {
	case LogModeCmd, LogModeBuild:
	default:
		return fmt.Errorf("defaults.log_mode must be %q or %q, got %q", LogModeCmd, LogModeBuild, c.Defaults.LogMode)
	}
	switch strings.ToLower(c.Defaults.LogLevel) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("defaults.log_level %q is not a log level", c.Defaults.LogLevel)
	}
	if c.Stream.DialRetries < 1 {
		return fmt.Errorf("stream.dial_retries must be at least 1, got %d", c.Stream.DialRetries)
	}
	if c.Stream.DialRetryDelay < 0 {
		return fmt.Errorf("stream.dial_retry_delay must not be negative, got %d", c.Stream.DialRetryDelay)
	}
	return nil
}

// Save writes cfg to Path, creating the directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveAlias expands a repository alias. Aliases match case-insensitively;
// input that is not an alias is returned unchanged.
func (c *Config) ResolveAlias(alias string) string {
	for repo, cfg := range c.Repos {
		if cfg.Alias != "" && strings.EqualFold(cfg.Alias, alias) {
			return repo
		}
	}
	return alias
}

// GetRepoConfig returns the configuration for a repository expression. An
// exact "repo/branch" entry wins over a bare "repo" entry.
func (c *Config) GetRepoConfig(repository string) *Repo {
	if cfg, ok := c.Repos[repository]; ok {
		return &cfg
	}
	if name, _, found := strings.Cut(repository, "/"); found {
		if cfg, ok := c.Repos[name]; ok {
			return &cfg
		}
	}
	return nil
}
