package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jgranda1999/magistrate-voice-service/internal/config"
	"github.com/jgranda1999/magistrate-voice-service/internal/metrics"
	"github.com/jgranda1999/magistrate-voice-service/internal/persona"
	"github.com/jgranda1999/magistrate-voice-service/internal/pipeline"
	"github.com/jgranda1999/magistrate-voice-service/internal/server"
	"github.com/jgranda1999/magistrate-voice-service/internal/speech"
	"github.com/jgranda1999/magistrate-voice-service/internal/store"
	"github.com/jgranda1999/magistrate-voice-service/internal/transcode"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "magistrate-voice-service"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load .env before the config reads the environment; a missing file
	// is fine in deployed environments
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("address", cfg.HTTP.Address),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.String("ffmpeg_path", cfg.Transcode.FFmpegPath),
		slog.String("chat_model", cfg.Services.ChatModel),
		slog.String("voice", cfg.Services.Voice),
		slog.String("audio_dir", cfg.Storage.AudioDir),
		slog.String("log_level", cfg.Logging.Level),
	)

	if !cfg.Services.HasCredential() {
		logger.Warn("OPENAI_API_KEY is not set, conversation endpoints will return 503")
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize the persona registry
	registry, err := persona.NewRegistry(persona.Magistrates())
	if err != nil {
		logger.Error("Failed to build persona registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Persona registry initialized", slog.Int("personas", registry.Len()))

	// Initialize the external AI service client
	speechClient := speech.NewClient(speech.Config{
		APIKey:          cfg.Services.APIKey,
		TranscribeModel: cfg.Services.TranscribeModel,
		ChatModel:       cfg.Services.ChatModel,
		SpeechModel:     cfg.Services.SpeechModel,
		Voice:           cfg.Services.Voice,
		Language:        cfg.Services.Language,
		Timeout:         cfg.Services.GetTimeoutDuration(),
		MaxRetries:      cfg.Services.MaxRetries,
		MaxConcurrent:   cfg.Services.MaxConcurrent,
	})
	logger.Info("Speech client initialized",
		slog.String("chat_model", cfg.Services.ChatModel),
		slog.Bool("ready", speechClient.Ready()),
	)

	// Initialize the transcoder bridge
	bridge := transcode.NewBridge(transcode.Config{
		FFmpegPath: cfg.Transcode.FFmpegPath,
		SampleRate: cfg.Audio.SampleRate,
		Timeout:    cfg.Transcode.GetTimeoutDuration(),
	}, logger)

	// Initialize the conversation pipeline
	voicePipeline := pipeline.New(pipeline.Config{
		SampleRate: cfg.Audio.SampleRate,
	}, speechClient, speechClient, speechClient, bridge, logger)

	// Initialize the artifact store
	artifactStore, err := store.New(cfg.Storage.AudioDir)
	if err != nil {
		logger.Error("Failed to create artifact store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Artifact store initialized", slog.String("dir", artifactStore.Dir()))

	// Initialize HTTP API server
	httpServer := server.NewHTTPServer(cfg.HTTP, logger, cfg,
		voicePipeline, bridge, artifactStore, registry, speechClient, appMetrics)
	logger.Info("HTTP API server initialized",
		slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
	)

	// Start HTTP server
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("http_address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
	)

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
	}

	// Get final statistics
	stats := speechClient.GetStats()
	logger.Info("Final service statistics",
		slog.Uint64("speech_requests", stats.TotalRequests),
		slog.Uint64("speech_failures", stats.FailedRequests),
		slog.Uint64("speech_retries", stats.TotalRetries),
	)

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
