// Package config loads twq's configuration: which keywords are bound to
// which intent, which binaries to run, and how long to wait for them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName  = "twq"
	fileName = "config.yaml"
)

// Defaults.
const (
	DefaultAddKeyword      = "tadd"
	DefaultListKeyword     = "tl"
	DefaultAnnotateKeyword = "ta"
	DefaultTaskCommand     = "task"
	DefaultOpenerCommand   = "taskopen"
	DefaultFilter          = "+READY"
	DefaultExportTimeout   = 8 * time.Second
	DefaultProbeTimeout    = 2 * time.Second
)

// Keywords maps the logical intents to the literal keywords a user types.
type Keywords struct {
	Add      string `yaml:"add"`
	List     string `yaml:"list"`
	Annotate string `yaml:"annotate"`
}

// Config is the root structure of config.yaml.
type Config struct {
	Keywords Keywords `yaml:"keywords"`

	// TaskCommand is the Taskwarrior binary.
	TaskCommand string `yaml:"task_command"`

	// OpenerCommand is the optional taskopen-style companion binary.
	OpenerCommand string `yaml:"opener_command"`

	// DefaultFilter is used when a list query has no filter.
	DefaultFilter string `yaml:"default_filter"`

	// ExportTimeout bounds each "task export".
	ExportTimeout time.Duration `yaml:"export_timeout"`

	// ProbeTimeout bounds each "--version" probe.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ProbeCacheTTL lets a probe result be reused for a short while.
	// Zero probes on every query.
	ProbeCacheTTL time.Duration `yaml:"probe_cache_ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Keywords: Keywords{
			Add:      DefaultAddKeyword,
			List:     DefaultListKeyword,
			Annotate: DefaultAnnotateKeyword,
		},
		TaskCommand:   DefaultTaskCommand,
		OpenerCommand: DefaultOpenerCommand,
		DefaultFilter: DefaultFilter,
		ExportTimeout: DefaultExportTimeout,
		ProbeTimeout:  DefaultProbeTimeout,
	}
}

// Dir returns the directory holding twq's config and state.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path returns the default config file path, or "" if no home is known.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Load reads the config at path, filling unset fields with defaults.
// An empty path means Path(). A missing file is not an error; malformed
// YAML or invalid values are.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return errors.New("no config path: home directory unknown")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// Validate checks that keywords are usable and timeouts are positive.
func (c *Config) Validate() error {
	kw := map[string]string{
		"add":      c.Keywords.Add,
		"list":     c.Keywords.List,
		"annotate": c.Keywords.Annotate,
	}
	seen := make(map[string]string, len(kw))
	for _, role := range []string{"add", "list", "annotate"} {
		word := kw[role]
		if word == "" {
			return fmt.Errorf("keywords.%s must not be empty", role)
		}
		if strings.ContainsAny(word, " \t\n") {
			return fmt.Errorf("keywords.%s %q must be a single word", role, word)
		}
		if other, dup := seen[word]; dup {
			return fmt.Errorf("keywords.%s and keywords.%s are both %q", other, role, word)
		}
		seen[word] = role
	}
	if c.ExportTimeout <= 0 {
		return fmt.Errorf("export_timeout must be positive, got %v", c.ExportTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.ProbeCacheTTL < 0 {
		return fmt.Errorf("probe_cache_ttl must not be negative, got %v", c.ProbeCacheTTL)
	}
	return nil
}

// fillDefaults replaces blank strings left by a partial file.
func (c *Config) fillDefaults() {
	d := Default()
	if strings.TrimSpace(c.TaskCommand) == "" {
		c.TaskCommand = d.TaskCommand
	}
	if strings.TrimSpace(c.OpenerCommand) == "" {
		c.OpenerCommand = d.OpenerCommand
	}
	if strings.TrimSpace(c.DefaultFilter) == "" {
		c.DefaultFilter = d.DefaultFilter
	}
}
