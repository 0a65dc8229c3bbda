package tts_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"listenlab/pkg/config"
	"listenlab/pkg/tts/edgetts"
	"listenlab/pkg/tts/espeak"
	"listenlab/pkg/tts/sapi"
)

func TestLocal_SAPI(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("SAPI only works on Windows")
	}
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run SAPI integration test")
	}

	p := sapi.NewProvider()
	outputPath := "test_sapi.wav"
	defer os.Remove(outputPath)

	format, err := p.Synthesize(context.Background(), "This is a local SAPI test.", "", outputPath)
	if err != nil {
		t.Fatalf("SAPI synthesis failed: %v", err)
	}

	if format != "wav" {
		t.Errorf("Expected wav, got %s", format)
	}

	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("Output file was not created: %v", err)
	}
}

func TestLocal_ESpeak(t *testing.T) {
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run eSpeak integration test")
	}

	p := espeak.NewProvider(config.ESpeakConfig{})
	if err := p.Probe(context.Background()); err != nil {
		t.Skipf("espeak not installed: %v", err)
	}

	outputPath := "test_espeak.wav"
	defer os.Remove(outputPath + ".wav")
	defer os.Remove(outputPath)

	format, err := p.Synthesize(context.Background(), "This is a local espeak test.", "", outputPath)
	if err != nil {
		t.Fatalf("eSpeak synthesis failed: %v", err)
	}
	if format != "wav" {
		t.Errorf("Expected wav, got %s", format)
	}
}

func TestOnline_EdgeTTS(t *testing.T) {
	if os.Getenv("TEST_TTS") == "" {
		t.Skip("Set TEST_TTS=1 to run Edge TTS integration test")
	}

	p := edgetts.NewProvider()
	outputPath := "test_edge.mp3"
	defer os.Remove(outputPath)

	format, err := p.Synthesize(context.Background(), "This is an Edge TTS online test.", "en-GB-SoniaNeural", outputPath)
	if err != nil {
		t.Fatalf("Edge TTS synthesis failed: %v", err)
	}

	if format != "mp3" {
		t.Errorf("Expected mp3, got %s", format)
	}

	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("Output file was not created: %v", err)
	}
}
