package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice service
type Metrics struct {
	// Conversation pipeline metrics
	ConversationsStarted   prometheus.Counter
	ConversationsCompleted prometheus.Counter
	ConversationsDegraded  prometheus.Counter
	PipelineDuration       prometheus.Histogram
	StageFailures          *prometheus.CounterVec
	StageDuration          *prometheus.HistogramVec

	// Audio decode metrics
	DecodeSources    *prometheus.CounterVec
	SilentInputs     prometheus.Counter
	InputsNormalized prometheus.Counter
	InputDuration    prometheus.Histogram

	// Artifact metrics
	ArtifactsSaved prometheus.Counter
	ArtifactSize   prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Conversation pipeline metrics
		ConversationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_conversations_started_total",
			Help: "Total number of conversation requests accepted",
		}),
		ConversationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_conversations_completed_total",
			Help: "Total number of conversations that produced a response",
		}),
		ConversationsDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_conversations_degraded_total",
			Help: "Total number of conversations that fell back to apology or tone audio",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_pipeline_duration_seconds",
			Help:    "End-to-end duration of the conversation pipeline",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s to ~2 minutes
		}),
		StageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_stage_failures_total",
			Help: "Total number of pipeline stage failures",
		}, []string{"stage"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voice_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}, []string{"stage"}),

		// Audio decode metrics
		DecodeSources: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_decode_sources_total",
			Help: "Total number of uploads decoded, labeled by the path that produced PCM",
		}, []string{"source"}),
		SilentInputs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_silent_inputs_total",
			Help: "Total number of uploads whose audio was entirely silent",
		}),
		InputsNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_inputs_normalized_total",
			Help: "Total number of uploads whose gain was boosted before transcription",
		}),
		InputDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_input_duration_seconds",
			Help:    "Duration of decoded input audio",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 0.25s to ~1 minute
		}),

		// Artifact metrics
		ArtifactsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voice_artifacts_saved_total",
			Help: "Total number of response audio files written",
		}),
		ArtifactSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_artifact_size_bytes",
			Help:    "Size of written response audio files in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 12), // 4KB to ~8MB
		}),

		// HTTP API metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voice_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordConversationStarted increments the conversations started counter
func (m *Metrics) RecordConversationStarted() {
	m.ConversationsStarted.Inc()
}

// RecordConversationCompleted records a finished conversation and its duration
func (m *Metrics) RecordConversationCompleted(durationSeconds float64, degraded bool) {
	m.ConversationsCompleted.Inc()
	m.PipelineDuration.Observe(durationSeconds)
	if degraded {
		m.ConversationsDegraded.Inc()
	}
}

// RecordStageFailure increments the failure counter for a pipeline stage
func (m *Metrics) RecordStageFailure(stage string) {
	m.StageFailures.WithLabelValues(stage).Inc()
}

// RecordStageDuration records the duration of a pipeline stage
func (m *Metrics) RecordStageDuration(stage string, durationSeconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordDecode records which decode path produced PCM for an upload
func (m *Metrics) RecordDecode(source string, durationSeconds float64) {
	m.DecodeSources.WithLabelValues(source).Inc()
	m.InputDuration.Observe(durationSeconds)
}

// RecordSilentInput increments the silent inputs counter
func (m *Metrics) RecordSilentInput() {
	m.SilentInputs.Inc()
}

// RecordInputNormalized increments the normalized inputs counter
func (m *Metrics) RecordInputNormalized() {
	m.InputsNormalized.Inc()
}

// RecordArtifactSaved records a written response audio file
func (m *Metrics) RecordArtifactSaved(sizeBytes int) {
	m.ArtifactsSaved.Inc()
	m.ArtifactSize.Observe(float64(sizeBytes))
}

// RecordHTTPRequest records an HTTP request with its response code
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error by type
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
