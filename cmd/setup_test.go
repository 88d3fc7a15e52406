package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/artistpage/internal/shared"
	tu "github.com/desertthunder/artistpage/internal/testing"
)

func TestSetupCommands(t *testing.T) {
	t.Run("config writes defaults", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		out, err := h.run("", "--config", path, "setup", "config")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Config written to "+path) {
			t.Errorf("unexpected output: %s", out)
		}

		tu.AssertFileExists(t, path)
		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("written config does not load: %v", err)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("written config is invalid: %v", err)
		}
	})

	t.Run("config refuses to overwrite", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if _, err := h.run("", "--config", path, "setup", "config"); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if _, err := h.run("", "--config", path, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("config defaults to working directory", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustChdir(t, dir)

		h := newHarness(t)
		if _, err := h.run("", "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	})

	t.Run("database runs migrations", func(t *testing.T) {
		h := newHarness(t)
		h.config.Database.Path = filepath.Join(t.TempDir(), "sessions.db")

		out, err := h.run("", "setup", "database")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Session database ready") {
			t.Errorf("unexpected output: %s", out)
		}
		tu.AssertFileExists(t, h.config.Database.Path)

		if _, err := h.run("", "setup", "database"); err != nil {
			t.Errorf("second run should be a no-op, got %v", err)
		}
	})

	t.Run("database needs a path", func(t *testing.T) {
		h := newHarness(t)
		h.config.Database.Path = ""

		if _, err := h.run("", "setup", "database"); err == nil {
			t.Error("expected error without a database path")
		}
	})
}
