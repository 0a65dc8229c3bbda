// Package coqui implements tts.Provider against a local Coqui XTTS v2
// API server. Synthesis is one POST /tts_to_audio/ call per utterance;
// the voice catalogue comes from GET /studio_speakers.
package coqui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"listenlab/pkg/config"
	"listenlab/pkg/request"
	"listenlab/pkg/tts"
)

const (
	ttsEndpoint            = "/tts_to_audio/"
	studioSpeakersEndpoint = "/studio_speakers"
	voicesCacheKey         = "coqui:studio_speakers"
	defaultTimeout         = 120 * time.Second
)

// Provider implements tts.Provider for a Coqui XTTS v2 server.
type Provider struct {
	serverURL string
	language  string
	timeout   time.Duration
	client    *request.Client
}

// ttsRequest is the JSON body sent to POST /tts_to_audio/.
type ttsRequest struct {
	Text       string `json:"text"`
	SpeakerWav string `json:"speaker_wav"`
	Language   string `json:"language"`
}

// studioSpeakersResponse is the raw map[name]any returned by GET /studio_speakers.
// Only the keys (voice names) matter here.
type studioSpeakersResponse map[string]json.RawMessage

// NewProvider creates a new Coqui XTTS provider. Requests go through the
// shared client so queuing, retries and the response cache apply.
func NewProvider(cfg config.CoquiConfig, client *request.Client) *Provider {
	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	return &Provider{
		serverURL: strings.TrimRight(cfg.URL, "/"),
		language:  language,
		timeout:   timeout,
		client:    client,
	}
}

// Engine returns the engine identifier.
func (p *Provider) Engine() tts.Engine {
	return tts.EngineCoqui
}

// Quality returns the engine quality tier.
func (p *Provider) Quality() tts.QualityTier {
	return tts.QualityHigh
}

// Offline reports whether the engine works without internet access.
// The XTTS server runs on the local network, so no internet is needed.
func (p *Provider) Offline() bool {
	return true
}

// Probe checks the server is reachable by listing studio speakers. No
// cache key here; a probe must hit the live server.
func (p *Provider) Probe(ctx context.Context) error {
	if p.serverURL == "" {
		return fmt.Errorf("coqui not configured: server URL is empty")
	}
	if _, err := p.client.Get(ctx, p.serverURL+studioSpeakersEndpoint, ""); err != nil {
		return fmt.Errorf("coqui server unreachable: %w", err)
	}
	return nil
}

// Synthesize generates a .wav file via POST /tts_to_audio/.
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	cleanText := tts.StripSpeakerLabels(text)

	body := ttsRequest{
		Text:       cleanText,
		SpeakerWav: voice,
		Language:   p.language,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal tts request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	audio, err := p.client.PostWithHeaders(ctx, p.serverURL+ttsEndpoint, data, map[string]string{
		"Content-Type": "application/json",
		"Accept":       "audio/wav",
	})
	if err != nil {
		tts.Log(tts.EngineCoqui, cleanText, 0, err)
		return "", fmt.Errorf("POST %s: %w", ttsEndpoint, err)
	}

	fullPath := outputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".wav") {
		fullPath += ".wav"
	}
	if err := os.WriteFile(fullPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	tts.Log(tts.EngineCoqui, cleanText, 200, nil)
	return "wav", nil
}

// Voices lists the server's studio speakers, sorted for determinism. The
// catalogue is static per server, so the response is cached.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	body, err := p.client.Get(ctx, p.serverURL+studioSpeakersEndpoint, voicesCacheKey)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", studioSpeakersEndpoint, err)
	}

	var speakers studioSpeakersResponse
	if err := json.Unmarshal(body, &speakers); err != nil {
		return nil, fmt.Errorf("decode studio speakers: %w", err)
	}

	names := make([]string, 0, len(speakers))
	for name := range speakers {
		names = append(names, name)
	}
	sort.Strings(names)

	voices := make([]tts.Voice, 0, len(names))
	for _, name := range names {
		voices = append(voices, tts.Voice{
			ID:       name,
			Name:     name,
			Language: p.language,
			IsNeural: true,
		})
	}
	return voices, nil
}
