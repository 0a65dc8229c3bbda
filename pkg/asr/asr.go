// Package asr transcribes rendered audio, either through a local
// whisper.cpp-style binary or a transcription HTTP service.
package asr

import "context"

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a completed transcription.
type Result struct {
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	Duration   float64   `json:"duration"`
	Segments   []Segment `json:"segments"`
	Confidence float64   `json:"confidence"`
}

// Reported when the engine gives no per-segment probability signal.
const defaultConfidence = 0.8

// Transcriber converts an audio file into text with timestamps.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}
