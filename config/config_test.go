package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr: got %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.FrameInterval != 100*time.Millisecond {
		t.Errorf("FrameInterval: got %v, want 100ms", cfg.FrameInterval)
	}
	if cfg.StreamBoundary != "frame" {
		t.Errorf("StreamBoundary: got %q, want frame", cfg.StreamBoundary)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes: got %d, want 10MB", cfg.MaxUploadBytes)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8081")
	t.Setenv("FRAME_INTERVAL", "50ms")
	t.Setenv("STREAM_BOUNDARY", "mjpegframe")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	if cfg.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr: got %q", cfg.HTTPAddr)
	}
	if cfg.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval: got %v", cfg.FrameInterval)
	}
	if cfg.StreamBoundary != "mjpegframe" {
		t.Errorf("StreamBoundary: got %q", cfg.StreamBoundary)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes: got %d", cfg.MaxUploadBytes)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("FRAME_INTERVAL", "not-a-duration")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	if cfg.FrameInterval != 100*time.Millisecond {
		t.Errorf("FrameInterval: got %v, want default", cfg.FrameInterval)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes: got %d, want default", cfg.MaxUploadBytes)
	}
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "http_addr: \":9000\"\nframe_interval: 200ms\nroster_buffer: 16\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}

	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr: got %q", cfg.HTTPAddr)
	}
	if cfg.FrameInterval != 200*time.Millisecond {
		t.Errorf("FrameInterval: got %v", cfg.FrameInterval)
	}
	if cfg.RosterBuffer != 16 {
		t.Errorf("RosterBuffer: got %d", cfg.RosterBuffer)
	}
	// Untouched keys keep their previous values
	if cfg.StreamBoundary != "frame" {
		t.Errorf("StreamBoundary: got %q", cfg.StreamBoundary)
	}
}

func TestConfigFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("HTTPAddr: got %q, want :7000", cfg.HTTPAddr)
	}
}
