package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidate_BadBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown upload backend")
	}
}

func TestValidate_BadColorMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColorMode = "rainbow"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown color mode")
	}
}

func TestValidate_NonPositiveTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FetchTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero fetch timeout")
	}

	cfg = DefaultConfig()
	cfg.EngineTimeout = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative engine timeout")
	}
}

func TestLoadEnv_BaseURLFallsBackToEndpoint(t *testing.T) {
	t.Setenv(EnvUploadEndpoint, "https://storage.example.com/bucket")
	t.Setenv(EnvUploadToken, "tok")
	t.Setenv(EnvUploadBaseURL, "")

	cfg := DefaultConfig()
	cfg.LoadEnv()

	if cfg.UploadEndpoint != "https://storage.example.com/bucket" {
		t.Errorf("endpoint: got %q", cfg.UploadEndpoint)
	}
	if cfg.UploadBaseURL != cfg.UploadEndpoint {
		t.Errorf("base URL should fall back to endpoint, got %q", cfg.UploadBaseURL)
	}
}

// --- Profile ---

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile should validate, got: %v", err)
	}
	if p.Canvas.Width != 1080 || p.Canvas.Height != 1920 {
		t.Errorf("canvas: got %dx%d, want 1080x1920", p.Canvas.Width, p.Canvas.Height)
	}
	if p.Canvas.FPS != 30 {
		t.Errorf("fps: got %d, want 30", p.Canvas.FPS)
	}
	if p.Speed != 2.0 {
		t.Errorf("speed: got %v, want 2.0", p.Speed)
	}
	if p.Mix.NarrationGain != 1.0 || p.Mix.MusicGain != 0.25 {
		t.Errorf("mix gains: got %v:%v, want 1.0:0.25", p.Mix.NarrationGain, p.Mix.MusicGain)
	}
}

func TestProfileValidate_AnchorBounds(t *testing.T) {
	for _, anchor := range []float64{0.5, 0.69, 0.96, 1.2} {
		p := DefaultProfile()
		p.Caption.Anchor = anchor
		if err := p.Validate(); err == nil {
			t.Errorf("anchor %v should be rejected", anchor)
		}
	}
	for _, anchor := range []float64{0.70, 0.82, 0.95} {
		p := DefaultProfile()
		p.Caption.Anchor = anchor
		if err := p.Validate(); err != nil {
			t.Errorf("anchor %v should be accepted, got: %v", anchor, err)
		}
	}
}

func TestLoadProfile_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "speed_multiplier: 1.5\ncaptions:\n  font_size: 72\n  font_file: /tmp/font.ttf\n  vertical_anchor: 0.75\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Speed != 1.5 {
		t.Errorf("speed: got %v, want 1.5", p.Speed)
	}
	if p.Caption.FontSize != 72 {
		t.Errorf("font size: got %d, want 72", p.Caption.FontSize)
	}
	// Keys the file omits keep their defaults.
	if p.Canvas.Width != 1080 {
		t.Errorf("canvas width should keep default, got %d", p.Canvas.Width)
	}
	if p.Encode.VideoCodec != "libx264" {
		t.Errorf("video codec should keep default, got %q", p.Encode.VideoCodec)
	}
}

func TestLoadProfile_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("speed_multiplier: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadProfile(path)
	if err == nil || !strings.Contains(err.Error(), "speed") {
		t.Errorf("expected speed validation error, got: %v", err)
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing profile file")
	}
}
