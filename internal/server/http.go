package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgranda1999/magistrate-voice-service/internal/audio"
	"github.com/jgranda1999/magistrate-voice-service/internal/config"
	"github.com/jgranda1999/magistrate-voice-service/internal/metrics"
	"github.com/jgranda1999/magistrate-voice-service/internal/persona"
	"github.com/jgranda1999/magistrate-voice-service/internal/pipeline"
	"github.com/jgranda1999/magistrate-voice-service/internal/speech"
	"github.com/jgranda1999/magistrate-voice-service/internal/store"
	"github.com/jgranda1999/magistrate-voice-service/internal/transcode"
)

// Runner is the conversation engine behind the chat endpoints.
type Runner interface {
	Run(ctx context.Context, in *audio.Buffer, prof persona.Profile) (*pipeline.Result, error)
	RunText(ctx context.Context, message string, prof persona.Profile) (*pipeline.Result, error)
}

// HTTPServer provides the HTTP API for the voice service
type HTTPServer struct {
	server   *http.Server
	logger   *slog.Logger
	config   *config.Config
	runner   Runner
	bridge   *transcode.Bridge
	store    *store.Store
	registry *persona.Registry
	speech   *speech.Client
	metrics  *metrics.Metrics

	// Server state
	startTime time.Time
	mu        sync.RWMutex
	requests  uint64
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger, appConfig *config.Config,
	runner Runner, bridge *transcode.Bridge, st *store.Store,
	registry *persona.Registry, speechClient *speech.Client, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		config:    appConfig,
		runner:    runner,
		bridge:    bridge,
		store:     st,
		registry:  registry,
		speech:    speechClient,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Conversation endpoints
	mux.HandleFunc("/voice-chat", h.withMetrics("/voice-chat", h.handleVoiceChat))
	mux.HandleFunc("/chat", h.withMetrics("/chat", h.handleChat))

	// Persona and asset endpoints
	mux.HandleFunc("/magistrates", h.withMetrics("/magistrates", h.handleMagistrates))
	mux.HandleFunc("/audio/", h.withMetrics("/audio/{filename}", h.handleAudio))
	mux.HandleFunc("/images/", h.withMetrics("/images/{filename}", h.handleImage))

	// Health check endpoint
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))

	// Statistics endpoint
	mux.HandleFunc("/stats", h.withMetrics("/stats", h.handleStats))

	// Prometheus metrics endpoint (no metrics needed for metrics endpoint)
	mux.Handle("/metrics", promhttp.Handler())
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		// Wrap the response writer to capture the status code
		ww := &responseWriter{ResponseWriter: w, statusCode: 200}

		handler(ww, r)

		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}

		h.mu.Lock()
		h.requests++
		h.mu.Unlock()
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// writeJSON serializes a response body with the given status code
func (h *HTTPServer) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError writes a JSON error body with the given status code
func (h *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(h.startTime)
	speechStats := h.speech.GetStats()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    uptime.String(),
		"service": map[string]interface{}{
			"name":    "magistrate-voice-service",
			"version": "1.0.0",
		},
		"components": map[string]interface{}{
			"speech": map[string]interface{}{
				"credential_configured": h.config.Services.HasCredential(),
				"total_requests":        speechStats.TotalRequests,
				"failed_requests":       speechStats.FailedRequests,
			},
			"personas": map[string]interface{}{
				"count": h.registry.Len(),
			},
		},
	}

	h.writeJSON(w, http.StatusOK, health)
}

// handleStats implements the /stats endpoint
func (h *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	requests := h.requests
	h.mu.RUnlock()

	stats := map[string]interface{}{
		"timestamp":     time.Now().UTC(),
		"uptime":        time.Since(h.startTime).String(),
		"http_requests": requests,
		"speech":        h.speech.GetStats(),
		"personas":      h.registry.IDs(),
	}

	h.writeJSON(w, http.StatusOK, stats)
}
