package audio

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*440*float64(i)/16000)
	}
	return out
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in := sine(0.5, 16000)

	require.NoError(t, WriteWAV(path, in, 16000))

	out, rate, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	// 16-bit quantization allows a little error
	require.InDelta(t, len(in), len(out), 16)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, in[i], out[i], 0.001)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestResample_Identity(t *testing.T) {
	in := sine(0.5, 1600)
	out := Resample(in, 16000, 16000)
	assert.Equal(t, in, out)
}

func TestResample_DoublesLength(t *testing.T) {
	in := sine(0.5, 16000)
	out := Resample(in, 16000, 32000)
	assert.InDelta(t, 2*len(in), len(out), 64)
}

func TestNormalizePeak_Attenuates(t *testing.T) {
	s := []float64{0.0, 1.2, -0.6}
	NormalizePeak(s, -1)

	target := math.Pow(10, -1.0/20)
	peak := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	assert.InDelta(t, target, peak, 1e-9)
}

func TestNormalizePeak_LeavesQuietSignal(t *testing.T) {
	s := []float64{0.1, -0.2}
	NormalizePeak(s, -1)
	assert.Equal(t, []float64{0.1, -0.2}, s)
}

func TestDrain_Downmixes(t *testing.T) {
	s := &sliceStreamer{samples: []float64{0.5, -0.5}}
	out := Drain(s)
	assert.Equal(t, []float64{0.5, -0.5}, out)
}
