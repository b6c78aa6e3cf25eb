package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Target = "https://example.com/quiz"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config passes",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing target fails",
			mutate:  func(c *Config) { c.Target = "" },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero timeout fails",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "unknown fetch mode fails",
			mutate:  func(c *Config) { c.FetchMode = "turbo" },
			wantErr: ErrInvalidFetchMode,
		},
		{
			name:    "conflicting report formats fail",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "negative max body size fails",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "zero submit attempts fail",
			mutate:  func(c *Config) { c.SubmitAttempts = 0 },
			wantErr: ErrInvalidSubmitAttempts,
		},
		{
			name:    "zero transcribe concurrency fails",
			mutate:  func(c *Config) { c.TranscribeConcurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestNewConfigDefaults tests that the constructor sets sensible defaults.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.FetchMode != FetchModeAuto {
		t.Errorf("expected auto fetch mode, got %q", c.FetchMode)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", c.Timeout)
	}
	if c.SubmitAttempts != DefaultSubmitAttempts {
		t.Errorf("expected %d submit attempts, got %d", DefaultSubmitAttempts, c.SubmitAttempts)
	}
	if c.GeminiModel != DefaultGeminiModel {
		t.Errorf("expected default model, got %q", c.GeminiModel)
	}
}

// TestLoadConfigFile tests YAML config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site configs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
defaults:
  headers:
    Accept-Language: en
sites:
  quiz.example.com:
    cookie: "session=abc"
    forceDynamic: true
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sc := cf.GetSiteConfig("quiz.example.com")
		if sc.Cookie != "session=abc" {
			t.Errorf("expected site cookie, got %q", sc.Cookie)
		}
		if !sc.ForceDynamic {
			t.Error("expected forceDynamic to be set")
		}
		if sc.Headers["Accept-Language"] != "en" {
			t.Errorf("expected default header to merge, got %v", sc.Headers)
		}
	})

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{Cookie: "shared=1"},
			Sites:    map[string]SiteConfig{},
		}

		sc := cf.GetSiteConfig("other.example.com")
		if sc.Cookie != "shared=1" {
			t.Errorf("expected defaults, got %q", sc.Cookie)
		}
		if sc.ForceDynamic {
			t.Error("expected forceDynamic to be unset")
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "custom.yml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0o600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
