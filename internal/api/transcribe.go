package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"listenlab/pkg/asr"
)

// Upload size cap: half an hour of 48 kHz 16-bit mono plus headroom.
const maxUploadBytes = 200 << 20

// TranscribeHandler serves /health and /transcribe.
type TranscribeHandler struct {
	engine asr.Transcriber
	model  string
}

// NewTranscribeHandler creates the handler. A nil engine means no model
// is loaded and /transcribe answers 503.
func NewTranscribeHandler(engine asr.Transcriber, model string) *TranscribeHandler {
	return &TranscribeHandler{engine: engine, model: model}
}

// HandleHealth reports service and model status.
func (h *TranscribeHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	model := h.model
	if h.engine == nil {
		status = "unhealthy"
		model = "not_loaded"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"service": "listenlab transcription",
		"model":   model,
	})
}

// HandleTranscribe accepts a multipart "audio" upload and returns the
// transcription as JSON.
func (h *TranscribeHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription model not loaded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "transcribe-*.wav")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	tmp.Close()

	slog.Info("Transcribing upload", "file", header.Filename, "bytes", header.Size)

	res, err := h.engine.Transcribe(r.Context(), tmp.Name())
	if err != nil {
		slog.Error("Transcription failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("transcription failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
