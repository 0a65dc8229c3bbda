package report

import (
	"fmt"
	"math"
	"os"
	"strings"

	"listenlab/pkg/asr"
)

// WriteSRT saves transcription segments as SubRip subtitles.
func WriteSRT(path string, segments []asr.Segment) error {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(seg.Start), srtTimestamp(seg.End))
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds * 1000))
	hours := total / 3600000
	minutes := (total % 3600000) / 60000
	secs := (total % 60000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
