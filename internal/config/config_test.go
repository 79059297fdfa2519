package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("expected default locale %q, got %q", "en", cfg.DefaultLocale)
	}
	if cfg.StagingHeader != "X-Ong-External-Url" {
		t.Errorf("expected default staging header, got %q", cfg.StagingHeader)
	}
	if len(cfg.Versions) != len(DefaultVersions) {
		t.Errorf("expected %d default versions, got %d", len(DefaultVersions), len(cfg.Versions))
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docshell.yml")

	original := DefaultConfig()
	original.Port = 9000
	original.ContentDir = "site/content"
	original.DefaultLocale = "ja"
	original.Versions = []VersionConfig{{ID: "free-pro-team@latest", Title: "Free", Plan: "free-pro-team"}}
	original.AllowAllOrigins = true

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.ContentDir != original.ContentDir {
		t.Errorf("content_dir: got %q, want %q", loaded.ContentDir, original.ContentDir)
	}
	if loaded.DefaultLocale != original.DefaultLocale {
		t.Errorf("default_locale: got %q, want %q", loaded.DefaultLocale, original.DefaultLocale)
	}
	if !loaded.AllowAllOrigins {
		t.Error("allow_all_origins: got false, want true")
	}
	// A configured version list replaces the defaults.
	if len(loaded.Versions) != 1 {
		t.Fatalf("versions length: got %d, want 1", len(loaded.Versions))
	}
	if loaded.Versions[0].Title != "Free" {
		t.Errorf("versions[0].title: got %q, want %q", loaded.Versions[0].Title, "Free")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.DefaultVersion != "free-pro-team@latest" {
		t.Errorf("expected default version, got %q", cfg.DefaultVersion)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("DOCSHELL_STAGING_HEADER", "X-Forwarded-Host")
	defer os.Unsetenv("DOCSHELL_STAGING_HEADER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.StagingHeader != "X-Forwarded-Host" {
		t.Errorf("env override failed: got %q, want %q", loaded.StagingHeader, "X-Forwarded-Host")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative port", func(c *Config) { c.Port = -1 }},
		{"empty content dir", func(c *Config) { c.ContentDir = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty locale", func(c *Config) { c.DefaultLocale = "" }},
		{"empty staging header", func(c *Config) { c.StagingHeader = "" }},
		{"no versions", func(c *Config) { c.Versions = nil }},
		{"empty version id", func(c *Config) { c.Versions = []VersionConfig{{Title: "x"}} }},
		{"duplicate version", func(c *Config) {
			c.Versions = []VersionConfig{{ID: "free-pro-team@latest"}, {ID: "free-pro-team@latest"}}
		}},
		{"unknown default version", func(c *Config) { c.DefaultVersion = "enterprise-server@2.0" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	if err := validatePort("8080"); err != nil {
		t.Errorf("validatePort(8080) = %v, want nil", err)
	}
	for _, bad := range []string{"", "abc", "0", "70000"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) = nil, want error", bad)
		}
	}
}
