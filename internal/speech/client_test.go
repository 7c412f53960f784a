package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key"})

	if !c.Ready() {
		t.Error("Expected client with API key to be ready")
	}

	if c.config.TranscribeModel != openai.Whisper1 {
		t.Errorf("Expected default transcription model, got %q", c.config.TranscribeModel)
	}

	if c.config.Voice != string(openai.VoiceOnyx) {
		t.Errorf("Expected default voice, got %q", c.config.Voice)
	}

	if c.config.Language != "es" {
		t.Errorf("Expected Spanish transcription by default, got %q", c.config.Language)
	}

	if c.config.MaxRetries != 1 {
		t.Errorf("Expected a single bounded retry by default, got %d", c.config.MaxRetries)
	}
}

func TestClientWithoutCredential(t *testing.T) {
	c := NewClient(Config{})

	if c.Ready() {
		t.Error("Expected client without API key to not be ready")
	}

	// Calls must fail fast instead of panicking or hanging.
	if _, err := c.Transcribe(context.Background(), []byte("RIFF")); err == nil {
		t.Error("Expected error when credential is missing")
	}

	if _, err := c.Generate(context.Background(), "system", "user"); err == nil {
		t.Error("Expected error when credential is missing")
	}

	if _, err := c.Synthesize(context.Background(), "hola"); err == nil {
		t.Error("Expected error when credential is missing")
	}
}

func TestCallRetriesOnceOnTransientError(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key", MaxRetries: 1, Timeout: time.Second})

	attempts := 0
	err := c.call(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("connection reset by peer")
	})

	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}

	if attempts != 2 {
		t.Errorf("Expected exactly 2 attempts (1 retry), got %d", attempts)
	}

	stats := c.GetStats()
	if stats.TotalRetries != 1 {
		t.Errorf("Expected 1 recorded retry, got %d", stats.TotalRetries)
	}
	if stats.FailedRequests != 1 {
		t.Errorf("Expected 1 failed request, got %d", stats.FailedRequests)
	}
}

func TestCallDoesNotRetryPermanentError(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key", MaxRetries: 1, Timeout: time.Second})

	attempts := 0
	err := c.call(context.Background(), func(ctx context.Context) error {
		attempts++
		return &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}
	})

	if err == nil {
		t.Fatal("Expected error")
	}

	if attempts != 1 {
		t.Errorf("Expected no retry for a permanent error, got %d attempts", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err       error
		retryable bool
	}{
		{context.DeadlineExceeded, true},
		{context.Canceled, false},
		{&openai.APIError{HTTPStatusCode: 429}, true},
		{&openai.APIError{HTTPStatusCode: 503}, true},
		{&openai.APIError{HTTPStatusCode: 401}, false},
		{errors.New("connection refused"), true},
		{errors.New("invalid payload"), false},
	}

	for _, tc := range cases {
		if got := isRetryableError(tc.err); got != tc.retryable {
			t.Errorf("isRetryableError(%v) = %v, want %v", tc.err, got, tc.retryable)
		}
	}
}

func TestCallSuccessStats(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key", Timeout: time.Second})

	err := c.call(context.Background(), func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}

	stats := c.GetStats()
	if stats.TotalRequests != 1 || stats.SuccessRequests != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.SuccessRate != 100 {
		t.Errorf("Expected 100%% success rate, got %.1f", stats.SuccessRate)
	}
}
