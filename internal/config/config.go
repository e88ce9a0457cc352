package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"stylebook/internal/content"
	"stylebook/internal/logging"
	"stylebook/pkg/fileops"
)

const AppName = "stylebook"

// Config holds the user configuration.
type Config struct {
	// ContentDir is the root of the content tree (standards plus code
	// examples).
	ContentDir string `yaml:"content_dir"`

	// Platform selects the example subtree under code-examples.
	Platform string `yaml:"platform"`

	Server      ServerConfig      `yaml:"server"`
	ContentRepo ContentRepoConfig `yaml:"content_repo"`

	Version  string `yaml:"version"`
	InitTime int64  `yaml:"init_time"` // unix timestamp of first save
}

// ServerConfig configures the optional HTTP transport. The default
// transport is stdio and needs no configuration.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// ContentRepoConfig points at an optional git repository the content tree
// is synced from. Empty RemoteURL means the tree is purely local.
type ContentRepoConfig struct {
	RemoteURL string `yaml:"remote_url"`
	Branch    string `yaml:"branch"`
}

// ConfigPath returns the platform config file location.
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// FindConfigFile returns the path of the config file and whether it
// exists. When it does not exist the returned path is where a new config
// belongs.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found", "path", primary)
		return primary, true
	}

	return primary, false
}

// IsFirstRun reports whether no configuration file exists yet.
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// Load reads the config from the standard location.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config", "path", configPath)
	if !exists {
		return nil, fmt.Errorf("no configuration found, run init first")
	}

	return LoadFrom(configPath)
}

// LoadFrom reads the config from a specific path and applies defaults for
// fields the file leaves unset.
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file exists: a
// content tree in the XDG data directory and the default platform.
func DefaultConfig() Config {
	cfg := Config{
		ContentDir: filepath.Join(xdg.DataHome, AppName, "resources"),
		Version:    "1.0",
	}
	cfg.applyDefaults()

	logging.Debug("Using default content directory", "path", cfg.ContentDir)
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = content.DefaultPlatform
	}
	if c.ContentRepo.RemoteURL != "" && c.ContentRepo.Branch == "" {
		c.ContentRepo.Branch = "main"
	}
	if c.Version == "" {
		c.Version = "1.0"
	}
}

// Validate rejects configurations that cannot work: an empty or unsafe
// content directory.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir must be set")
	}
	if err := fileops.ValidatePathSecurity(fileops.ExpandPath(c.ContentDir)); err != nil {
		return fmt.Errorf("invalid content_dir: %w", err)
	}
	return nil
}

// Save writes the config to the standard location.
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path, atomically and with
// owner-only permissions.
func (c *Config) SaveTo(path string) error {
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := fileops.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateNewConfig initializes and saves a configuration pointing at
// contentDir, creating the directory (and any missing parents) first.
func CreateNewConfig(contentDir string) (*Config, error) {
	cfg := DefaultConfig()
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}

	abs, err := filepath.Abs(fileops.ExpandPath(cfg.ContentDir))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve content directory: %w", err)
	}
	if err := fileops.ValidatePathSecurity(abs); err != nil {
		return nil, fmt.Errorf("invalid content directory: %w", err)
	}
	if fileops.IsReservedDirectory(abs) {
		return nil, fmt.Errorf("content directory cannot be a system directory: %s", abs)
	}
	if err := fileops.ValidateDirectoryWritable(abs); err != nil {
		return nil, fmt.Errorf("content directory not usable: %w", err)
	}
	cfg.ContentDir = abs

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	logging.Info("Configuration created", "content_dir", cfg.ContentDir)
	return &cfg, nil
}

// LoadOrDefault returns the stored configuration, or the defaults when
// none exists yet. Serving from defaults keeps a fresh install usable
// without an init step.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		logging.Debug("Falling back to default configuration", "reason", err)
		def := DefaultConfig()
		return &def
	}
	return cfg
}
