package gfaestus

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.Nodes.WidthPixels <= 0 {
		t.Error("default node width not positive")
	}
	if !s.Highlight.Enabled {
		t.Error("highlight disabled by default")
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if s != DefaultSettings() {
		t.Error("missing file did not return defaults")
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
[edges]
width_pixels = 3.5

[highlight]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Edges.WidthPixels != 3.5 {
		t.Errorf("edge width = %v, want 3.5", s.Edges.WidthPixels)
	}
	if s.Highlight.Enabled {
		t.Error("highlight should be disabled by the file")
	}
	// Untouched fields keep their defaults.
	if s.Nodes.WidthPixels != DefaultSettings().Nodes.WidthPixels {
		t.Errorf("node width = %v, want default", s.Nodes.WidthPixels)
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
[nodes]
width_pixels = -1.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("expected validation error for negative node width")
	}
}

func TestRenderConfig(t *testing.T) {
	s := DefaultSettings()
	cfg := s.RenderConfig(800, 600, 16, 16)

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("viewport = %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.NodeWidthPixels != s.Nodes.WidthPixels {
		t.Errorf("node width = %v, want %v", cfg.NodeWidthPixels, s.Nodes.WidthPixels)
	}
	if cfg.EdgeColor != s.Edges.Color {
		t.Errorf("edge color = %v, want %v", cfg.EdgeColor, s.Edges.Color)
	}
	if !cfg.Features.Picking {
		t.Error("picking feature not enabled")
	}
	if cfg.Features.Highlight != s.Highlight.Enabled {
		t.Errorf("highlight feature = %v, want %v", cfg.Features.Highlight, s.Highlight.Enabled)
	}
	if cfg.BlurRadius != s.Highlight.BlurRadius {
		t.Errorf("blur radius = %d, want %d", cfg.BlurRadius, s.Highlight.BlurRadius)
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(slog.Default())
	if Logger() == nil {
		t.Fatal("Logger returned nil after SetLogger")
	}
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger returned nil after reset")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should report disabled at every level")
	}
}
