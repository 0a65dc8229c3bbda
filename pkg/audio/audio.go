// Package audio decodes, resamples and encodes the clips that make up a
// listening exercise. Everything works on mono float64 samples in [-1, 1].
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// LoadFile decodes an MP3 or WAV file into mono samples and the source
// sample rate. Stereo input is downmixed by channel averaging.
func LoadFile(path string) ([]float64, int, error) {
	streamer, format, err := decodeStreamer(path)
	if err != nil {
		return nil, 0, err
	}
	defer streamer.Close()

	return Drain(streamer), int(format.SampleRate), nil
}

// Drain pulls every sample from a streamer, downmixed to mono.
func Drain(s beep.Streamer) []float64 {
	var mono []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			mono = append(mono, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	return mono
}

// Resample converts samples from one rate to another. Quality 3 matches
// what we use for playback elsewhere.
func Resample(samples []float64, from, to int) []float64 {
	if from == to || len(samples) == 0 {
		return samples
	}
	r := beep.Resample(3, beep.SampleRate(from), beep.SampleRate(to), &sliceStreamer{samples: samples})
	return Drain(r)
}

// WriteWAV encodes mono samples as 16-bit PCM.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, &sliceStreamer{samples: samples}, format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// NormalizePeak attenuates samples so the peak sits at targetDB dBFS.
// Signals already below the target are left alone.
func NormalizePeak(samples []float64, targetDB float64) {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	target := math.Pow(10, targetDB/20)
	if peak <= target || peak == 0 {
		return
	}
	gain := target / peak
	for i := range samples {
		samples[i] *= gain
	}
}

// sliceStreamer adapts a mono sample slice to beep.Streamer.
type sliceStreamer struct {
	samples []float64
	pos     int
}

func (s *sliceStreamer) Stream(buf [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	for n < len(buf) && s.pos < len(s.samples) {
		v := s.samples[s.pos]
		buf[n][0] = v
		buf[n][1] = v
		n++
		s.pos++
	}
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func decodeStreamer(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	// Try MP3 first
	streamer, format, err := mp3.Decode(f)
	if err == nil {
		return streamer, format, nil
	}

	// Reopen for the WAV attempt; the failed MP3 decode may have consumed bytes
	f.Close()
	f, err = os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err = wav.Decode(f)
	if err != nil {
		f.Close()
		slog.Error("Failed to decode audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	return streamer, format, nil
}
