package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// HTTP Server
	HTTPAddr string
	Debug    bool

	// MJPEG streaming
	FrameInterval  time.Duration // Sampling period per viewer
	StreamBoundary string        // Multipart boundary marker

	// Upload
	MaxUploadBytes int64

	// Roster push channel
	RosterBuffer int // Per-subscriber update buffer

	// Shutdown
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables with defaults. If
// CONFIG_FILE is set, values from that YAML file override the environment.
func Load() *Config {
	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":3000"),
		Debug:           getBoolEnv("DEBUG", false),
		FrameInterval:   getDurationEnv("FRAME_INTERVAL", 100*time.Millisecond),
		StreamBoundary:  getEnv("STREAM_BOUNDARY", "frame"),
		MaxUploadBytes:  getInt64Env("MAX_UPLOAD_BYTES", 10*1024*1024), // 10MB
		RosterBuffer:    getIntEnv("ROSTER_BUFFER", 8),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		// Best effort: a missing or malformed file leaves env/default values
		// in place. The caller decides whether to warn.
		_ = cfg.ApplyFile(path)
	}

	return cfg
}

// yamlConfig mirrors Config for file loading. Durations are strings ("100ms")
// because YAML has no duration type; pointers distinguish unset keys from
// zero values so the file only overrides what it names.
type yamlConfig struct {
	HTTPAddr        *string `yaml:"http_addr"`
	Debug           *bool   `yaml:"debug"`
	FrameInterval   *string `yaml:"frame_interval"`
	StreamBoundary  *string `yaml:"stream_boundary"`
	MaxUploadBytes  *int64  `yaml:"max_upload_bytes"`
	RosterBuffer    *int    `yaml:"roster_buffer"`
	ShutdownTimeout *string `yaml:"shutdown_timeout"`
}

// ApplyFile overlays configuration from a YAML file onto c
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file yamlConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	if file.HTTPAddr != nil {
		c.HTTPAddr = *file.HTTPAddr
	}
	if file.Debug != nil {
		c.Debug = *file.Debug
	}
	if file.FrameInterval != nil {
		if d, err := time.ParseDuration(*file.FrameInterval); err == nil {
			c.FrameInterval = d
		}
	}
	if file.StreamBoundary != nil {
		c.StreamBoundary = *file.StreamBoundary
	}
	if file.MaxUploadBytes != nil {
		c.MaxUploadBytes = *file.MaxUploadBytes
	}
	if file.RosterBuffer != nil {
		c.RosterBuffer = *file.RosterBuffer
	}
	if file.ShutdownTimeout != nil {
		if d, err := time.ParseDuration(*file.ShutdownTimeout); err == nil {
			c.ShutdownTimeout = d
		}
	}
	return nil
}

// Helper functions to get environment variables with defaults

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
