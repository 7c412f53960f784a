package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jgranda1999/magistrate-voice-service/internal/persona"
	"github.com/jgranda1999/magistrate-voice-service/internal/pipeline"
)

// maxUploadBytes bounds the accepted audio upload size.
const maxUploadBytes = 25 << 20

// conversationResponse is the JSON body of a successful exchange
type conversationResponse struct {
	AudioURL        string `json:"audioUrl"`
	TranscribedText string `json:"transcribedText"`
	ResponseText    string `json:"responseText"`
	Warning         string `json:"warning,omitempty"`
	Error           string `json:"error,omitempty"`
}

// handleVoiceChat implements the POST /voice-chat endpoint. The upload
// is decoded to PCM, run through the conversation pipeline, and the
// synthesized reply published as a WAV artifact.
func (h *HTTPServer) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	magistrate := r.FormValue("magistrate")
	if magistrate == "" {
		h.writeError(w, http.StatusBadRequest, "magistrate is required")
		return
	}

	prof, ok := h.registry.Lookup(magistrate)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown magistrate: "+magistrate)
		return
	}

	if !h.config.Services.HasCredential() {
		h.writeError(w, http.StatusServiceUnavailable, "speech service credential is not configured")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}
	if len(data) == 0 {
		h.writeError(w, http.StatusBadRequest, "audio upload is empty")
		return
	}

	h.metrics.RecordConversationStarted()
	startTime := time.Now()

	buf, source := h.bridge.Decode(r.Context(), data)
	h.metrics.RecordDecode(string(source), buf.Duration().Seconds())

	h.logger.Info("Decoded voice upload",
		slog.String("magistrate", prof.ID),
		slog.String("source", string(source)),
		slog.Int("bytes", len(data)),
		slog.Duration("audio_duration", buf.Duration()),
	)

	result, err := h.runner.Run(r.Context(), buf, prof)
	if err != nil {
		h.respondPipelineError(w, r, prof, err)
		return
	}

	h.respondConversation(w, prof, result, time.Since(startTime))
}

// chatRequest is the JSON body of a POST /chat request
type chatRequest struct {
	Message    string `json:"message"`
	Magistrate string `json:"magistrate"`
}

// handleChat implements the POST /chat endpoint, a text-only variant of
// the voice exchange that skips transcription.
func (h *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Magistrate == "" {
		h.writeError(w, http.StatusBadRequest, "magistrate is required")
		return
	}

	prof, ok := h.registry.Lookup(req.Magistrate)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown magistrate: "+req.Magistrate)
		return
	}

	if !h.config.Services.HasCredential() {
		h.writeError(w, http.StatusServiceUnavailable, "speech service credential is not configured")
		return
	}

	h.metrics.RecordConversationStarted()
	startTime := time.Now()

	result, err := h.runner.RunText(r.Context(), req.Message, prof)
	if err != nil {
		h.respondPipelineError(w, r, prof, err)
		return
	}

	h.respondConversation(w, prof, result, time.Since(startTime))
}

// respondPipelineError maps pipeline failures onto the status taxonomy.
// Stage failures are upstream faults, everything else is internal.
func (h *HTTPServer) respondPipelineError(w http.ResponseWriter, r *http.Request, prof persona.Profile, err error) {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		h.metrics.RecordStageFailure(string(stageErr.Stage))
		h.logger.Error("Pipeline stage failed",
			slog.String("magistrate", prof.ID),
			slog.String("stage", string(stageErr.Stage)),
			slog.String("error", stageErr.Error()),
		)
		h.writeError(w, http.StatusBadGateway, stageErr.Error())
		return
	}

	h.logger.Error("Conversation failed",
		slog.String("magistrate", prof.ID),
		slog.String("error", err.Error()),
	)
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

// respondConversation publishes the reply audio and writes the
// conversation body. A tone-substituted reply still succeeds; the
// synthesis failure travels in the error field next to the text.
func (h *HTTPServer) respondConversation(w http.ResponseWriter, prof persona.Profile, result *pipeline.Result, elapsed time.Duration) {
	filename, err := h.store.SaveWAV(result.Audio)
	if err != nil {
		h.logger.Error("Failed to save response audio",
			slog.String("magistrate", prof.ID),
			slog.String("error", err.Error()),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to save response audio")
		return
	}

	h.metrics.RecordArtifactSaved(len(result.Audio.Samples) * 2)
	h.metrics.RecordConversationCompleted(elapsed.Seconds(), result.Degraded || result.SynthesisErr != nil)
	if result.InputSilent {
		h.metrics.RecordSilentInput()
	}

	resp := conversationResponse{
		AudioURL:        "/audio/" + filename,
		TranscribedText: result.TranscribedText,
		ResponseText:    result.ResponseText,
	}
	if result.Degraded {
		resp.Warning = "voice synthesis degraded, apology audio substituted"
	}
	if result.SynthesisErr != nil {
		h.metrics.RecordStageFailure(string(pipeline.StageSynthesis))
		resp.Error = result.SynthesisErr.Error()
	}

	h.logger.Info("Conversation completed",
		slog.String("magistrate", prof.ID),
		slog.String("audio_file", filename),
		slog.Bool("degraded", result.Degraded),
		slog.Duration("elapsed", elapsed),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

// handleMagistrates implements the GET /magistrates endpoint
func (h *HTTPServer) handleMagistrates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"magistrates": h.registry.All(),
	})
}

// handleAudio implements the GET /audio/{filename} endpoint. Artifacts
// are served by exact name only.
func (h *HTTPServer) handleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/audio/")
	if filename == "" {
		h.writeError(w, http.StatusBadRequest, "filename required")
		return
	}

	path, err := h.store.Path(filename)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	if !h.store.Exists(filename) {
		h.writeError(w, http.StatusNotFound, "audio file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, path)
}

// handleImage implements the GET /images/{filename} endpoint. Portraits
// missing from the images directory redirect to a placeholder built
// from the requested name.
func (h *HTTPServer) handleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/images/")
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		h.writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	path := filepath.Join(h.config.Storage.ImagesDir, filename)
	if _, err := os.Stat(path); err == nil {
		http.ServeFile(w, r, path)
		return
	}

	label := strings.TrimSuffix(filename, filepath.Ext(filename))
	label = strings.ReplaceAll(label, "_", " ")
	redirect := h.config.Storage.PlaceholderURL + "?text=" + url.QueryEscape(label)
	http.Redirect(w, r, redirect, http.StatusFound)
}
