package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validYAML() string {
	return `
http:
  port: 5001
  address: "0.0.0.0"

audio:
  sample_rate: 24000
  channels: 1
  bit_depth: 16

transcode:
  ffmpeg_path: "ffmpeg"
  timeout: 30

services:
  transcribe_model: "whisper-1"
  chat_model: "gpt-4"
  speech_model: "tts-1"
  voice: "onyx"
  language: "es"
  timeout: 60
  max_retries: 1
  max_concurrent: 10

storage:
  audio_dir: "audio"
  images_dir: "static/images"
  placeholder_url: "https://via.placeholder.com/400x500"

logging:
  level: "info"
  format: "text"
  output: "stdout"
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(writeConfig(t, validYAML()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 5001 {
		t.Errorf("Expected port 5001, got %d", cfg.HTTP.Port)
	}

	if cfg.Audio.SampleRate != 24000 {
		t.Errorf("Expected sample rate 24000, got %d", cfg.Audio.SampleRate)
	}

	if !cfg.Services.HasCredential() {
		t.Error("Expected credential from environment")
	}

	if cfg.Services.Voice != "onyx" {
		t.Errorf("Expected voice onyx, got %q", cfg.Services.Voice)
	}
}

func TestLoadMissingCredentialIsNotFatal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(writeConfig(t, validYAML()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Services.HasCredential() {
		t.Error("Expected missing credential to be detected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "http: [not a map")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestValidateRejectsWrongSampleRate(t *testing.T) {
	cfg := AudioConfig{SampleRate: 16000, Channels: 1, BitDepth: 16}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for non-24000 sample rate")
	}
}

func TestValidateRejectsStereo(t *testing.T) {
	cfg := AudioConfig{SampleRate: 24000, Channels: 2, BitDepth: 16}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for stereo channel count")
	}
}

func TestValidateHTTP(t *testing.T) {
	bad := []HTTPConfig{
		{Port: 0, Address: "0.0.0.0"},
		{Port: 70000, Address: "0.0.0.0"},
		{Port: 5001, Address: ""},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error", i)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := LoggingConfig{Level: "verbose", Format: "text"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown log level")
	}

	cfg = LoggingConfig{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown log format")
	}
}

func TestValidateServices(t *testing.T) {
	cfg := ServicesConfig{Timeout: 0, MaxRetries: 1, MaxConcurrent: 5, Language: "es"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero timeout")
	}

	cfg = ServicesConfig{Timeout: 60, MaxRetries: -1, MaxConcurrent: 5, Language: "es"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative max_retries")
	}

	cfg = ServicesConfig{Timeout: 60, MaxRetries: 1, MaxConcurrent: 0, Language: "es"}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero max_concurrent")
	}
}
