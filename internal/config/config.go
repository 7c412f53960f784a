package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Audio     AudioConfig     `yaml:"audio"`
	Transcode TranscodeConfig `yaml:"transcode"`
	Services  ServicesConfig  `yaml:"services"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// AudioConfig contains PCM audio parameters
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	BitDepth   int `yaml:"bit_depth"`
}

// TranscodeConfig contains external transcoder configuration
type TranscodeConfig struct {
	FFmpegPath string `yaml:"ffmpeg_path"`
	Timeout    int    `yaml:"timeout"` // seconds
}

// ServicesConfig contains external AI service configuration. The API
// key is never read from the file; it comes from the OPENAI_API_KEY
// environment variable.
type ServicesConfig struct {
	APIKey          string `yaml:"-"`
	TranscribeModel string `yaml:"transcribe_model"`
	ChatModel       string `yaml:"chat_model"`
	SpeechModel     string `yaml:"speech_model"`
	Voice           string `yaml:"voice"`
	Language        string `yaml:"language"`
	Timeout         int    `yaml:"timeout"` // seconds
	MaxRetries      int    `yaml:"max_retries"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
}

// StorageConfig contains artifact and static asset directories
type StorageConfig struct {
	AudioDir       string `yaml:"audio_dir"`
	ImagesDir      string `yaml:"images_dir"`
	PlaceholderURL string `yaml:"placeholder_url"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file and picks up the service
// credential from the environment. A missing credential is not an
// error here; it is reported at startup and enforced per-request.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.Services.APIKey = os.Getenv("OPENAI_API_KEY")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Transcode.Validate(); err != nil {
		return fmt.Errorf("transcode config: %w", err)
	}

	if err := c.Services.Validate(); err != nil {
		return fmt.Errorf("services config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}

	if h.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	return nil
}

// Validate validates audio configuration
func (a *AudioConfig) Validate() error {
	if a.SampleRate != 24000 {
		return fmt.Errorf("sample_rate must be 24000 Hz for the voice pipeline, got %d", a.SampleRate)
	}

	if a.Channels != 1 {
		return fmt.Errorf("channels must be 1 (mono), got %d", a.Channels)
	}

	if a.BitDepth != 16 {
		return fmt.Errorf("bit_depth must be 16, got %d", a.BitDepth)
	}

	return nil
}

// Validate validates transcoder configuration
func (t *TranscodeConfig) Validate() error {
	if t.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg_path cannot be empty")
	}

	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}

	return nil
}

// Validate validates external service configuration
func (s *ServicesConfig) Validate() error {
	if s.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
	}

	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", s.MaxRetries)
	}

	if s.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", s.MaxConcurrent)
	}

	if s.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}

	return nil
}

// Validate validates storage configuration
func (s *StorageConfig) Validate() error {
	if s.AudioDir == "" {
		return fmt.Errorf("audio_dir cannot be empty")
	}

	if s.ImagesDir == "" {
		return fmt.Errorf("images_dir cannot be empty")
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// HasCredential reports whether the service credential is configured.
func (s *ServicesConfig) HasCredential() bool {
	return s.APIKey != ""
}

// GetTimeoutDuration returns the transcoder timeout as a time.Duration
func (t *TranscodeConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

// GetTimeoutDuration returns the service call timeout as a time.Duration
func (s *ServicesConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
