// Package api exposes the transcription service over HTTP.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"listenlab/pkg/version"
)

// NewServer wires the transcription endpoints. The transcriber may be nil
// when no model is configured; /transcribe then answers 503.
func NewServer(addr string, th *TranscribeHandler) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", th.HandleHealth)
	mux.HandleFunc("GET /version", handleVersion)
	mux.HandleFunc("POST /transcribe", th.HandleTranscribe)

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
