package main

import (
	"testing"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"addr", "shared-secret", "timeout", "method",
			"no-submit", "no-store", "gemini-api-key", "gemini-model",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("addr defaults to :8080", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.DefValue != ":8080" {
			t.Errorf("expected default ':8080', got %q", flag.DefValue)
		}
	})
}

// TestNewRunsCmd tests the runs command creation.
func TestNewRunsCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRunsCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "runs" {
			t.Errorf("expected use 'runs', got %q", cmd.Use)
		}
	})

	t.Run("has limit and json flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("limit") == nil {
			t.Error("expected limit flag")
		}
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}
