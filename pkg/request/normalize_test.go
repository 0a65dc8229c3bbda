package request

import "testing"

func TestNormalizeProvider(t *testing.T) {
	tests := []struct {
		host     string
		expected string
	}{
		{"westus.tts.speech.microsoft.com", "edge-tts"},
		{"speech.microsoft.com", "edge-tts"},
		{"texttospeech.googleapis.com", "gcloud"},
		{"localhost:8020", "local"},
		{"127.0.0.1:9000", "local"},
		{"other.com", "other.com"},
	}

	for _, tt := range tests {
		got := normalizeProvider(tt.host)
		if got != tt.expected {
			t.Errorf("normalizeProvider(%q) = %q; want %q", tt.host, got, tt.expected)
		}
	}
}
