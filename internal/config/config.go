// Package config manages wbg configuration and the .wbg directory structure.
// It handles loading, saving, and initializing the repository configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilupskalvis/wbg/internal/errs"
	"github.com/pelletier/go-toml/v2"
)

const (
	MetaDir     = ".wbg"
	ConfigFile  = "config"
	RefsFile    = "refs.db"
	ObjectsFile = "objects.db"

	// FormatVersion is the on-disk layout written by Initialize.
	FormatVersion = 1

	DefaultBranch = "main"
)

// Environment variables that override the configured identity.
const (
	EnvAuthorName  = "WBG_AUTHOR_NAME"
	EnvAuthorEmail = "WBG_AUTHOR_EMAIL"
)

// Config represents the wbg configuration
type Config struct {
	Core CoreConfig `toml:"core"`
	User UserConfig `toml:"user"`
	path string     // path to .wbg directory
}

// CoreConfig holds repository format settings.
type CoreConfig struct {
	FormatVersion int    `toml:"format_version"`
	Bare          bool   `toml:"bare"`
	DefaultBranch string `toml:"default_branch"`
}

// UserConfig is the identity stamped on commits.
type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// FindRoot finds the repository root by walking up from start.
// The root is the directory holding .wbg.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		metaPath := filepath.Join(dir, MetaDir)
		if info, err := os.Stat(metaPath); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.New(errs.KindNotARepository, "not a wbg repository (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration of the repository rooted at root.
func Load(root string) (*Config, error) {
	metaPath := filepath.Join(root, MetaDir)
	if info, err := os.Stat(metaPath); err != nil || !info.IsDir() {
		return nil, errs.New(errs.KindNotARepository, "not a wbg repository: %s", root)
	}

	data, err := os.ReadFile(filepath.Join(metaPath, ConfigFile))
	if err != nil {
		return nil, errs.Corrupt(err, "read %s/%s", MetaDir, ConfigFile)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.Corrupt(err, "parse %s/%s", MetaDir, ConfigFile)
	}

	cfg.path = metaPath
	cfg.applyDefaults()
	return &cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// MetaPath returns the path to the .wbg directory
func (c *Config) MetaPath() string {
	return c.path
}

// RefsPath returns the path to the bbolt reference database
func (c *Config) RefsPath() string {
	return filepath.Join(c.path, RefsFile)
}

// ObjectsPath returns the path to the sqlite commit database
func (c *Config) ObjectsPath() string {
	return filepath.Join(c.path, ObjectsFile)
}

// Identity returns the author name and email for new commits.
// WBG_AUTHOR_NAME and WBG_AUTHOR_EMAIL take precedence over the file.
func (c *Config) Identity() (string, string) {
	name, email := c.User.Name, c.User.Email
	if v := os.Getenv(EnvAuthorName); v != "" {
		name = v
	}
	if v := os.Getenv(EnvAuthorEmail); v != "" {
		email = v
	}
	return name, email
}

// Initialize creates a new .wbg directory under root with default configuration
func Initialize(root string) (*Config, error) {
	metaPath := filepath.Join(root, MetaDir)

	// Check if already initialized
	if _, err := os.Stat(metaPath); err == nil {
		return nil, errs.New(errs.KindAlreadyInitialized, "wbg repository already exists in %s", root)
	}

	if err := os.MkdirAll(metaPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", MetaDir, err)
	}

	cfg := &Config{
		Core: CoreConfig{FormatVersion: FormatVersion, DefaultBranch: DefaultBranch},
		path: metaPath,
	}
	cfg.applyDefaults()

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(metaPath)
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Core.FormatVersion == 0 {
		c.Core.FormatVersion = FormatVersion
	}
	if c.Core.DefaultBranch == "" {
		c.Core.DefaultBranch = DefaultBranch
	}
	if c.User.Name == "" {
		c.User.Name = os.Getenv("USER")
		if c.User.Name == "" {
			c.User.Name = "unknown"
		}
	}
	if c.User.Email == "" {
		c.User.Email = c.User.Name + "@localhost"
	}
}
