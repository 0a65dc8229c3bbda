package tts

import (
	"context"
)

const (
	// MinAudioSize is the minimum size of a synthesized audio file (1KB).
	// Files smaller than this are likely failed synthesis attempts.
	MinAudioSize = 1024
)

// Engine identifies a TTS engine adapter.
type Engine string

// Known engines.
const (
	EngineEdgeTTS Engine = "edge-tts"
	EngineGCloud  Engine = "gcloud"
	EngineCoqui   Engine = "coqui-xtts"
	EngineSAPI    Engine = "windows-sapi"
	EngineESpeak  Engine = "espeak"
)

// QualityTier ranks the expected output quality of an engine.
// Higher is better.
type QualityTier int

// Quality tiers, lowest to highest.
const (
	QualityBasic QualityTier = iota
	QualityStandard
	QualityHigh
	QualityProfessional
)

func (q QualityTier) String() string {
	switch q {
	case QualityBasic:
		return "basic"
	case QualityStandard:
		return "standard"
	case QualityHigh:
		return "high"
	case QualityProfessional:
		return "professional"
	default:
		return "unknown"
	}
}

// Provider defines the interface for Text-To-Speech engines.
type Provider interface {
	// Engine returns the adapter's engine identifier.
	Engine() Engine

	// Synthesize generates audio from text and writes it to outputPath.
	// Returns the audio format ("mp3", "wav") and error.
	Synthesize(ctx context.Context, text, voice, outputPath string) (string, error)

	// Voices returns a list of available voices for the provider.
	Voices(ctx context.Context) ([]Voice, error)

	// Probe checks whether the engine is usable right now (binary present,
	// server reachable, credentials configured).
	Probe(ctx context.Context) error

	// Quality returns the engine's expected output quality tier.
	Quality() QualityTier

	// Offline reports whether the engine works without internet access.
	Offline() bool
}

// Voice represents an available TTS voice.
type Voice struct {
	ID       string
	Name     string
	Language string
	Gender   string
	IsNeural bool
}

// FatalError represents a TTS error that should trigger fallback to another provider.
// Examples: rate limits (429), server errors (5xx), auth failures (401/403).
type FatalError struct {
	StatusCode int
	Message    string
}

func (e *FatalError) Error() string {
	return e.Message
}

// NewFatalError creates a new FatalError with the given status code and message.
func NewFatalError(statusCode int, message string) *FatalError {
	return &FatalError{StatusCode: statusCode, Message: message}
}

// IsFatalError checks if an error is a TTS fatal error that should trigger fallback.
func IsFatalError(err error) bool {
	_, ok := err.(*FatalError)
	return ok
}
