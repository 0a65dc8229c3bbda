package gcloud

import (
	"context"
	"fmt"
	"os"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"listenlab/pkg/config"
	"listenlab/pkg/tts"
)

// Provider implements tts.Provider for Google Cloud Text-to-Speech.
type Provider struct {
	cfg config.GCloudConfig
}

// NewProvider creates a new Google Cloud TTS provider.
func NewProvider(cfg config.GCloudConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Engine returns the engine identifier.
func (p *Provider) Engine() tts.Engine {
	return tts.EngineGCloud
}

// Quality returns the engine quality tier.
func (p *Provider) Quality() tts.QualityTier {
	return tts.QualityProfessional
}

// Offline reports whether the engine works without internet access.
func (p *Provider) Offline() bool {
	return false
}

// Probe checks that credentials are configured. Instantiating a client
// without credentials fails fast, so this catches the common setup error.
func (p *Provider) Probe(ctx context.Context) error {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return fmt.Errorf("gcloud not configured: GOOGLE_APPLICATION_CREDENTIALS not set")
	}
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("gcloud client init failed: %w", err)
	}
	return client.Close()
}

// Synthesize generates an .mp3 file using the Cloud Text-to-Speech API.
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	cleanText := tts.StripSpeakerLabels(text)

	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gcloud client init failed: %w", err)
	}
	defer client.Close()

	voiceName := voice
	if voiceName == "" {
		voiceName = p.cfg.VoiceFemale
	}

	rate := p.cfg.SpeakingRate
	if rate == 0 {
		rate = 1
	}

	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: cleanText},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: p.languageCode(voiceName),
			Name:         voiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  rate,
		},
	}

	resp, err := client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		tts.Log(tts.EngineGCloud, cleanText, 0, err)
		return "", fmt.Errorf("SynthesizeSpeech failed: %w", err)
	}

	fullPath := outputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".mp3") {
		fullPath += ".mp3"
	}
	if err := os.WriteFile(fullPath, resp.AudioContent, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}

	tts.Log(tts.EngineGCloud, cleanText, 200, nil)
	return "mp3", nil
}

// languageCode derives the language code from a voice name like
// "en-GB-Neural2-A", falling back to the configured default.
func (p *Provider) languageCode(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	if p.cfg.LanguageCode != "" {
		return p.cfg.LanguageCode
	}
	return "en-GB"
}

// Voices returns the configured voice pair. The API can enumerate hundreds
// of voices; we only surface the two wired into conversation roles.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: p.cfg.VoiceFemale, Name: "Configured female voice", Language: p.cfg.LanguageCode, Gender: "female", IsNeural: true},
		{ID: p.cfg.VoiceMale, Name: "Configured male voice", Language: p.cfg.LanguageCode, Gender: "male", IsNeural: true},
	}, nil
}
