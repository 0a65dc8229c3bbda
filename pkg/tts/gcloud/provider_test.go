package gcloud

import (
	"context"
	"testing"

	"listenlab/pkg/config"
)

func TestLanguageCode(t *testing.T) {
	p := NewProvider(config.GCloudConfig{LanguageCode: "en-GB"})

	tests := []struct {
		voice    string
		expected string
	}{
		{"en-GB-Neural2-A", "en-GB"},
		{"en-AU-Wavenet-B", "en-AU"},
		{"bogus", "en-GB"},
		{"", "en-GB"},
	}
	for _, tt := range tests {
		if got := p.languageCode(tt.voice); got != tt.expected {
			t.Errorf("languageCode(%q) = %q, want %q", tt.voice, got, tt.expected)
		}
	}
}

func TestProbe_NoCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	p := NewProvider(config.GCloudConfig{})
	if err := p.Probe(context.Background()); err == nil {
		t.Error("Probe should fail without credentials")
	}
}

func TestVoices(t *testing.T) {
	p := NewProvider(config.GCloudConfig{
		LanguageCode: "en-GB",
		VoiceFemale:  "en-GB-Neural2-A",
		VoiceMale:    "en-GB-Neural2-B",
	})
	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("Expected 2 voices, got %d", len(voices))
	}
	if voices[0].Gender != "female" || voices[1].Gender != "male" {
		t.Error("Expected a female/male voice pair")
	}
}
