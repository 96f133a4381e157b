// Package config loads gardnr settings from the config file and GARDNR_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName  = "gardnr"
	fileName = "config"
	fileType = "yaml"

	// EnvPrefix is prepended to every environment override, e.g.
	// GARDNR_AUTO_INSTALL=yes.
	EnvPrefix = "GARDNR"
)

// Install policies for missing tools and dependencies.
const (
	InstallYes = "yes"
	InstallNo  = "no"
	InstallAsk = "ask"
)

// Keys recognised in config.yaml.
const (
	KeyAutoInstall    = "auto_install"
	KeyStorePath      = "store_path"
	KeyTechTable      = "tech_table"
	KeyGitAuthorName  = "git.author_name"
	KeyGitAuthorEmail = "git.author_email"
)

// Keys lists every supported key in display order.
var Keys = []string{KeyAutoInstall, KeyStorePath, KeyTechTable, KeyGitAuthorName, KeyGitAuthorEmail}

// Config is the decoded configuration.
type Config struct {
	AutoInstall string `mapstructure:"auto_install"`
	StorePath   string `mapstructure:"store_path"`
	TechTable   string `mapstructure:"tech_table"`
	Git         Git    `mapstructure:"git"`

	// File is the config file that was read, empty when none exists.
	File string `mapstructure:"-"`
}

// Git holds the identity used for the initial commit.
type Git struct {
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
}

// Dir returns $XDG_CONFIG_HOME/gardnr, falling back to ~/.config/gardnr.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".config", appName)
}

// FilePath returns the default config file location.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// DefaultStorePath returns the default project store location.
func DefaultStorePath() string {
	return filepath.Join(Dir(), "projects.yaml")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAutoInstall, InstallAsk)
	v.SetDefault(KeyStorePath, DefaultStorePath())
	v.SetDefault(KeyTechTable, "")
	v.SetDefault(KeyGitAuthorName, "")
	v.SetDefault(KeyGitAuthorEmail, "")
	return v
}

// Load reads path (FilePath() when empty). A missing file is not an error;
// defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}
	v := newViper(path)

	var file string
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		file = path
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = file
	cfg.AutoInstall = strings.ToLower(strings.TrimSpace(cfg.AutoInstall))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.AutoInstall {
	case InstallYes, InstallNo, InstallAsk:
		return nil
	default:
		return fmt.Errorf("invalid %s %q (want yes, no or ask)", KeyAutoInstall, c.AutoInstall)
	}
}

// Get returns one value as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyAutoInstall:
		return c.AutoInstall, nil
	case KeyStorePath:
		return c.StorePath, nil
	case KeyTechTable:
		return c.TechTable, nil
	case KeyGitAuthorName:
		return c.Git.AuthorName, nil
	case KeyGitAuthorEmail:
		return c.Git.AuthorEmail, nil
	}
	return "", unknownKey(key)
}

// Set writes one key to the config file at path, creating it if needed.
// Environment overrides are not persisted.
func Set(path, key, value string) error {
	if !knownKey(key) {
		return unknownKey(key)
	}
	if key == KeyAutoInstall {
		probe := Config{AutoInstall: strings.ToLower(value)}
		if err := probe.Validate(); err != nil {
			return err
		}
		value = probe.AutoInstall
	}
	if path == "" {
		path = FilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func knownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
}
