package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSHELL_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// DOCSHELL_DEFAULT_LOCALE -> default_locale, etc.
	if err := k.Load(env.Provider("DOCSHELL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCSHELL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured version list replaces the defaults instead of merging
	// into them element by element.
	if k.Exists("versions") {
		cfg.Versions = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.DefaultLocale == "" {
		return fmt.Errorf("default_locale is required")
	}
	if c.StagingHeader == "" {
		return fmt.Errorf("staging_header is required")
	}
	if len(c.Versions) == 0 {
		return fmt.Errorf("at least one version is required")
	}

	seen := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		if v.ID == "" {
			return fmt.Errorf("version id is required")
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate version %q", v.ID)
		}
		seen[v.ID] = true
	}
	if !seen[c.DefaultVersion] {
		return fmt.Errorf("default_version %q is not one of the configured versions", c.DefaultVersion)
	}

	return nil
}
