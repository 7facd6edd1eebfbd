package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the mdsite configuration
type Config struct {
	ContentDir      string        `yaml:"content_dir"`
	StaticDir       string        `yaml:"static_dir"`
	PublicDir       string        `yaml:"public_dir"`
	Template        string        `yaml:"template"`
	LogFile         string        `yaml:"log_file"`
	StateFile       string        `yaml:"state_file"`
	Workers         int           `yaml:"workers"`
	Interval        time.Duration `yaml:"-"` // Custom YAML handling below
	ExcludePatterns []string      `yaml:"exclude_patterns,omitempty"`
}

// rawConfig mirrors Config on disk, with the interval as a duration string
type rawConfig struct {
	ContentDir      string   `yaml:"content_dir"`
	StaticDir       string   `yaml:"static_dir"`
	PublicDir       string   `yaml:"public_dir"`
	Template        string   `yaml:"template"`
	LogFile         string   `yaml:"log_file"`
	StateFile       string   `yaml:"state_file"`
	Workers         int      `yaml:"workers"`
	Interval        string   `yaml:"interval"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration, relative to the working directory
func DefaultConfig() *Config {
	return &Config{
		ContentDir:      "content",
		StaticDir:       "static",
		PublicDir:       "public",
		Template:        "template.html",
		LogFile:         filepath.Join(xdg.StateHome, "mdsite", "build.log"),
		StateFile:       filepath.Join(".mdsite", "state.json"),
		Workers:         4,
		Interval:        2 * time.Second,
		ExcludePatterns: []string{}, // No exclusions by default
	}
}

// ConfigPath returns the path to the config file.
// Can be overridden for testing or with --config.
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "mdsite", "config.yaml")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from path. Missing keys take their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := cfg.decode(data); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	raw := c.raw()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
	}

	// Set empty slice for exclude patterns if nil
	excludePatterns := raw.ExcludePatterns
	if excludePatterns == nil {
		excludePatterns = []string{}
	}

	*c = Config{
		ContentDir:      raw.ContentDir,
		StaticDir:       raw.StaticDir,
		PublicDir:       raw.PublicDir,
		Template:        raw.Template,
		LogFile:         raw.LogFile,
		StateFile:       raw.StateFile,
		Workers:         raw.Workers,
		Interval:        interval,
		ExcludePatterns: excludePatterns,
	}
	return nil
}

func (c *Config) raw() rawConfig {
	return rawConfig{
		ContentDir:      c.ContentDir,
		StaticDir:       c.StaticDir,
		PublicDir:       c.PublicDir,
		Template:        c.Template,
		LogFile:         c.LogFile,
		StateFile:       c.StateFile,
		Workers:         c.Workers,
		Interval:        c.Interval.String(),
		ExcludePatterns: c.ExcludePatterns,
	}
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes configuration to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.raw())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.PublicDir == "" {
		return fmt.Errorf("public_dir cannot be empty")
	}
	if c.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state_file cannot be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	// The public dir is wiped on every full build and static is copied into
	// it, so none of the three directories may contain another
	dirs := []struct {
		name string
		path string
	}{
		{"content_dir", c.ContentDir},
		{"static_dir", c.StaticDir},
		{"public_dir", c.PublicDir},
	}
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			a, b := dirs[i], dirs[j]
			if a.path == "" || b.path == "" {
				continue
			}
			if nested(a.path, b.path) || nested(b.path, a.path) {
				return fmt.Errorf("%s and %s must not overlap", a.name, b.name)
			}
		}
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	return nil
}

// nested reports whether path is dir or lies inside it
func nested(dir, path string) bool {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Excluded reports whether a content-relative path matches an exclude pattern
func (c *Config) Excluded(relPath string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range c.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"content_dir", &c.ContentDir},
		{"static_dir", &c.StaticDir},
		{"public_dir", &c.PublicDir},
		{"template", &c.Template},
		{"log_file", &c.LogFile},
		{"state_file", &c.StateFile},
	}

	for _, f := range fields {
		expanded, err := expandPath(*f.ptr)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", f.name, err)
		}
		*f.ptr = expanded
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
