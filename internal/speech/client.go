package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config contains AI service client configuration
type Config struct {
	APIKey          string
	TranscribeModel string        // speech-to-text model
	ChatModel       string        // response generation model
	SpeechModel     string        // text-to-speech model
	Voice           string        // fixed synthesis voice identity
	Language        string        // transcription target language
	Timeout         time.Duration // per-attempt timeout
	MaxRetries      int           // bounded retries for transient failures
	MaxConcurrent   int           // concurrent upstream call limit
}

// Client provides transcription, generation, and synthesis through the
// external AI service with uniform retry and timeout handling
type Client struct {
	config    Config
	api       *openai.Client
	semaphore chan struct{}

	// Statistics
	totalRequests   uint64
	successRequests uint64
	failedRequests  uint64
	totalRetries    uint64

	mu sync.RWMutex
}

// ClientStats represents client statistics
type ClientStats struct {
	TotalRequests   uint64  `json:"total_requests"`
	SuccessRequests uint64  `json:"success_requests"`
	FailedRequests  uint64  `json:"failed_requests"`
	SuccessRate     float64 `json:"success_rate"`
	TotalRetries    uint64  `json:"total_retries"`
	ActiveRequests  int     `json:"active_requests"`
}

// NewClient creates a new AI service client. An empty API key is
// allowed so the process can start without credentials; Ready reports
// whether calls can actually be made.
func NewClient(config Config) *Client {
	if config.TranscribeModel == "" {
		config.TranscribeModel = openai.Whisper1
	}
	if config.ChatModel == "" {
		config.ChatModel = openai.GPT4
	}
	if config.SpeechModel == "" {
		config.SpeechModel = string(openai.TTSModel1)
	}
	if config.Voice == "" {
		config.Voice = string(openai.VoiceOnyx)
	}
	if config.Language == "" {
		config.Language = "es"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 1
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	c := &Client{
		config:    config,
		semaphore: make(chan struct{}, config.MaxConcurrent),
	}
	if config.APIKey != "" {
		c.api = openai.NewClient(config.APIKey)
	}
	return c
}

// Ready reports whether the service credential is configured.
func (c *Client) Ready() bool {
	return c.api != nil
}

// Transcribe sends a WAV byte stream to the speech-to-text service and
// returns the transcript. The target language is fixed by configuration
// and temperature is pinned to 0 so transcription stays deterministic.
func (c *Client) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	var text string
	err := c.call(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:       c.config.TranscribeModel,
			FilePath:    "input.wav",
			Reader:      bytes.NewReader(wavData),
			Language:    c.config.Language,
			Temperature: 0,
		})
		if err != nil {
			return err
		}
		text = resp.Text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return text, nil
}

// Generate sends the transcript as a single user turn against the given
// system message. No conversation history is retained across requests;
// every call is a fresh one-turn exchange.
func (c *Client) Generate(ctx context.Context, systemMessage, userMessage string) (string, error) {
	var text string
	err := c.call(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.config.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	return text, nil
}

// Synthesize converts text to speech with the fixed voice identity and
// returns the MP3 payload.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var mp3Data []byte
	err := c.call(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.SpeechModel(c.config.SpeechModel),
			Input:          text,
			Voice:          openai.SpeechVoice(c.config.Voice),
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			return err
		}
		defer resp.Close()

		mp3Data, err = io.ReadAll(resp)
		if err != nil {
			return err
		}
		if len(mp3Data) == 0 {
			return errors.New("synthesis returned an empty payload")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	return mp3Data, nil
}

// call runs one upstream operation through the semaphore, per-attempt
// timeout, and bounded retry policy shared by every service call site.
func (c *Client) call(ctx context.Context, op func(ctx context.Context) error) error {
	if c.api == nil {
		return errors.New("service credential not configured")
	}

	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return ctx.Err()
	}

	c.incrementTotalRequests()

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.incrementTotalRetries()

			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		err := op(attemptCtx)
		cancel()

		if err == nil {
			c.incrementSuccessRequests()
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			break
		}
	}

	c.incrementFailedRequests()
	return lastErr
}

// isRetryableError determines whether an upstream failure is transient
func isRetryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "refused")
}

// Statistics methods
func (c *Client) incrementTotalRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
}

func (c *Client) incrementSuccessRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successRequests++
}

func (c *Client) incrementFailedRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedRequests++
}

func (c *Client) incrementTotalRetries() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRetries++
}

// GetStats returns current client statistics
func (c *Client) GetStats() ClientStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	successRate := float64(0)
	if c.totalRequests > 0 {
		successRate = float64(c.successRequests) / float64(c.totalRequests) * 100
	}

	return ClientStats{
		TotalRequests:   c.totalRequests,
		SuccessRequests: c.successRequests,
		FailedRequests:  c.failedRequests,
		SuccessRate:     successRate,
		TotalRetries:    c.totalRetries,
		ActiveRequests:  len(c.semaphore),
	}
}
