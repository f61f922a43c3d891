package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Brainstorm.Mode != "template" {
		t.Errorf("expected default brainstorm mode 'template', got %q", cfg.Brainstorm.Mode)
	}

	if cfg.Brainstorm.Branching != 3 {
		t.Errorf("expected default branching 3, got %d", cfg.Brainstorm.Branching)
	}

	if cfg.Brainstorm.Timeout != 30*time.Second {
		t.Errorf("expected default brainstorm timeout 30s, got %v", cfg.Brainstorm.Timeout)
	}

	if cfg.Cluster.Every != 10 {
		t.Errorf("expected default cluster.every 10, got %d", cfg.Cluster.Every)
	}

	if cfg.Cluster.Eps != 0.35 {
		t.Errorf("expected default eps 0.35, got %v", cfg.Cluster.Eps)
	}

	if cfg.Cluster.MinSamples != 2 {
		t.Errorf("expected default min_samples 2, got %d", cfg.Cluster.MinSamples)
	}

	if cfg.Planner.MaxDepth != 3 {
		t.Errorf("expected default max_depth 3, got %d", cfg.Planner.MaxDepth)
	}

	if cfg.TUI.RefreshRate != 500*time.Millisecond {
		t.Errorf("expected refresh rate 500ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
brainstorm:
  mode: claude
  branching: 5
  timeout: 45s
cluster:
  every: 4
  eps: 0.5
  min_samples: 3
planner:
  max_depth: 2
roster:
  path: ./workers.yaml
store:
  disabled: true
tui:
  refresh_rate: 250ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Brainstorm.Mode != "claude" {
		t.Errorf("expected brainstorm mode 'claude', got %q", cfg.Brainstorm.Mode)
	}

	if cfg.Brainstorm.Branching != 5 {
		t.Errorf("expected branching 5, got %d", cfg.Brainstorm.Branching)
	}

	if cfg.Brainstorm.Timeout != 45*time.Second {
		t.Errorf("expected brainstorm timeout 45s, got %v", cfg.Brainstorm.Timeout)
	}

	if cfg.Cluster.Every != 4 {
		t.Errorf("expected cluster.every 4, got %d", cfg.Cluster.Every)
	}

	if cfg.Cluster.Eps != 0.5 {
		t.Errorf("expected eps 0.5, got %v", cfg.Cluster.Eps)
	}

	if cfg.Planner.MaxDepth != 2 {
		t.Errorf("expected max_depth 2, got %d", cfg.Planner.MaxDepth)
	}

	if cfg.Roster.Path != "./workers.yaml" {
		t.Errorf("expected roster path './workers.yaml', got %q", cfg.Roster.Path)
	}

	if !cfg.Store.Disabled {
		t.Error("expected store.disabled to be true")
	}

	if cfg.TUI.RefreshRate != 250*time.Millisecond {
		t.Errorf("expected refresh rate 250ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestLoadFromPathKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// A sparse file only overrides what it names.
	configContent := `
cluster:
  every: 7
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Cluster.Every != 7 {
		t.Errorf("expected cluster.every 7, got %d", cfg.Cluster.Every)
	}
	if cfg.Cluster.Eps != 0.35 {
		t.Errorf("expected default eps 0.35, got %v", cfg.Cluster.Eps)
	}
	if cfg.Brainstorm.Mode != "template" {
		t.Errorf("expected default brainstorm mode, got %q", cfg.Brainstorm.Mode)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/maestro"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
