package espeak

import (
	"context"
	"testing"

	"listenlab/pkg/config"
	"listenlab/pkg/tts"
)

func TestDefaults(t *testing.T) {
	p := NewProvider(config.ESpeakConfig{})
	if p.binary != "espeak-ng" {
		t.Errorf("default binary = %q, want espeak-ng", p.binary)
	}
	if p.voice != "en-gb" {
		t.Errorf("default voice = %q, want en-gb", p.voice)
	}
	if p.rate != 150 {
		t.Errorf("default rate = %d, want 150", p.rate)
	}
}

func TestEngineMetadata(t *testing.T) {
	p := NewProvider(config.ESpeakConfig{})
	if p.Engine() != tts.EngineESpeak {
		t.Errorf("Engine() = %q", p.Engine())
	}
	if !p.Offline() {
		t.Error("espeak must report offline capable")
	}
	if p.Quality() != tts.QualityBasic {
		t.Errorf("Quality() = %v, want basic", p.Quality())
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	p := NewProvider(config.ESpeakConfig{Binary: "definitely-not-a-real-binary"})
	if err := p.Probe(context.Background()); err == nil {
		t.Error("Probe should fail for a missing binary")
	}
}

func TestVoices(t *testing.T) {
	p := NewProvider(config.ESpeakConfig{})
	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("Expected voices")
	}
	if voices[0].ID != "en-gb" {
		t.Errorf("first voice = %q, want en-gb", voices[0].ID)
	}
}
