package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	bffile "github.com/dkarlovi/bookferry/file"
)

// DefaultFormats are enabled when the config file does not list any. The
// first entry is the one used for explicitly named files whose extension is
// not recognised.
var DefaultFormats = bffile.DefaultRegistry.Names()

type Config struct {
	Formats  []string `yaml:"formats,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	LogLevel string   `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Formats:  append([]string(nil), DefaultFormats...),
		LogLevel: zerolog.WarnLevel.String(),
	}
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg := Config{}
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if len(c.Formats) == 0 {
		c.Formats = append([]string(nil), DefaultFormats...)
	}
	seen := make(map[string]bool)
	for _, name := range c.Formats {
		if seen[name] {
			return fmt.Errorf("format %q listed twice", name)
		}
		seen[name] = true
	}
	if _, err := bffile.RegistryFor(c.Formats); err != nil {
		return err
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = zerolog.WarnLevel.String()
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}

// LoadConfigPrefer loads the configuration using the following order:
//  1. the provided path if non-empty (it must exist),
//  2. XDG user config dir: $XDG_CONFIG_HOME/bookferry/config.yaml or
//     on Windows the appropriate AppData path (via os.UserConfigDir()).
//
// When no file is found the defaults are returned.
func LoadConfigPrefer(preferred string) (*Config, error) {
	if preferred != "" {
		return LoadConfig(preferred)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "bookferry", "config.yaml")
		fi, err := os.Stat(p)
		switch {
		case err == nil && !fi.IsDir():
			return LoadConfig(p)
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	return Default(), nil
}
