// Package espeak implements tts.Provider by shelling out to the eSpeak NG
// binary. Output quality is robotic but the engine works anywhere the
// binary is installed, which makes it the fallback of last resort.
package espeak

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"listenlab/pkg/config"
	"listenlab/pkg/tts"
)

// Provider implements tts.Provider using the eSpeak NG CLI.
type Provider struct {
	binary string
	voice  string
	rate   int
}

// NewProvider creates a new eSpeak provider.
func NewProvider(cfg config.ESpeakConfig) *Provider {
	binary := cfg.Binary
	if binary == "" {
		binary = "espeak-ng"
	}
	voice := cfg.Voice
	if voice == "" {
		voice = "en-gb"
	}
	rate := cfg.Rate
	if rate <= 0 {
		rate = 150
	}
	return &Provider{binary: binary, voice: voice, rate: rate}
}

// Engine returns the engine identifier.
func (p *Provider) Engine() tts.Engine {
	return tts.EngineESpeak
}

// Quality returns the engine quality tier.
func (p *Provider) Quality() tts.QualityTier {
	return tts.QualityBasic
}

// Offline reports whether the engine works without internet access.
func (p *Provider) Offline() bool {
	return true
}

// Probe checks the binary is on PATH.
func (p *Provider) Probe(ctx context.Context) error {
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("espeak binary %q not found: %w", p.binary, err)
	}
	return nil
}

// Synthesize generates a .wav file by invoking the binary with -w.
func (p *Provider) Synthesize(ctx context.Context, text, voice, outputPath string) (string, error) {
	cleanText := tts.StripSpeakerLabels(text)

	if voice == "" {
		voice = p.voice
	}

	fullPath := outputPath
	if !strings.HasSuffix(strings.ToLower(fullPath), ".wav") {
		fullPath += ".wav"
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-v", voice,
		"-s", strconv.Itoa(p.rate),
		"-w", fullPath,
		cleanText,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		tts.Log(tts.EngineESpeak, cleanText, 0, err)
		return "", fmt.Errorf("espeak failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	tts.Log(tts.EngineESpeak, cleanText, 200, nil)
	return "wav", nil
}

// Voices returns the English voices used for exam material.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return []tts.Voice{
		{ID: "en-gb", Name: "English (Great Britain)", Language: "en-GB"},
		{ID: "en-us", Name: "English (America)", Language: "en-US"},
		{ID: "en-gb+f3", Name: "English (Great Britain, female variant)", Language: "en-GB", Gender: "female"},
		{ID: "en-gb+m3", Name: "English (Great Britain, male variant)", Language: "en-GB", Gender: "male"},
	}, nil
}
