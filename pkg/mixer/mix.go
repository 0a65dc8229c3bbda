package mixer

import (
	"fmt"
	"log/slog"

	"listenlab/pkg/audio"
)

// Peak target for the rendered conversation.
const peakTargetDB = -1.0

// Result describes a rendered conversation.
type Result struct {
	Path        string
	SampleRate  int
	DurationSec float64
	Timeline    []PlacedClip
}

// Mix decodes the clips, plans the timeline and renders a single WAV at
// the configured sample rate.
func (m *Mixer) Mix(clips []Clip, outPath string) (*Result, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("no clips to mix")
	}

	rate := m.cfg.SampleRate
	decoded := make([][]float64, len(clips))
	durations := make([]float64, len(clips))
	for i, c := range clips {
		samples, srcRate, err := audio.LoadFile(c.Path)
		if err != nil {
			return nil, fmt.Errorf("decode clip %d (%s): %w", i, c.Path, err)
		}
		samples = audio.Resample(samples, srcRate, rate)
		decoded[i] = samples
		durations[i] = float64(len(samples)) / float64(rate)
	}

	placed := m.Plan(clips, durations)

	totalSec := 0.0
	for _, p := range placed {
		if p.EndSec > totalSec {
			totalSec = p.EndSec
		}
	}
	master := make([]float64, int(totalSec*float64(rate))+1)

	for i, p := range placed {
		offset := int(p.StartSec * float64(rate))
		for j, s := range decoded[i] {
			if offset+j >= len(master) {
				break
			}
			master[offset+j] += s
		}
	}

	audio.NormalizePeak(master, peakTargetDB)

	if err := audio.WriteWAV(outPath, master, rate); err != nil {
		return nil, err
	}

	slog.Info("Conversation rendered",
		"path", outPath,
		"clips", len(clips),
		"duration_sec", fmt.Sprintf("%.1f", totalSec))

	return &Result{
		Path:        outPath,
		SampleRate:  rate,
		DurationSec: totalSec,
		Timeline:    placed,
	}, nil
}
