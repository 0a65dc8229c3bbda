package tts

import (
	"fmt"
	"os"
	"regexp"
)

var speakerLabelRegex = regexp.MustCompile(`(?m)^[A-Za-z]+(\s*\([^)]+\))?:\s*`)

// StripSpeakerLabels removes speaker labels like "Sarah:" or "Tom (male):" from scripts.
func StripSpeakerLabels(script string) string {
	return speakerLabelRegex.ReplaceAllString(script, "")
}

// VerifyAudioFile checks that a synthesized audio file exists and is at least
// MinAudioSize bytes. Engines occasionally report success but write an empty
// or truncated file; callers treat this as a failed synthesis.
func VerifyAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("audio file missing: %w", err)
	}
	if info.Size() < MinAudioSize {
		return fmt.Errorf("audio file too small: %d bytes (min %d)", info.Size(), MinAudioSize)
	}
	return nil
}
