// Package quality scores rendered audio against loudness and silence
// heuristics before it ships to a learner.
package quality

import (
	"math"
	"sort"
)

// Frame layout for silence detection: 25 ms windows advancing 10 ms.
const (
	silenceWindowSec = 0.025
	silenceHopSec    = 0.010
	// A frame counts as silent below 1% of the median frame energy.
	silenceEnergyFrac = 0.01
	// Gaps shorter than this are normal articulation, not pauses.
	minPauseSec = 0.100
)

// Block layout for dynamics and loudness: 400 ms windows advancing 100 ms.
const (
	blockWindowSec = 0.400
	blockHopSec    = 0.100
)

// Pre-emphasis filter approximating the K-weighting curve, applied before
// loudness integration.
var (
	preEmphasisB = [3]float64{1.53512485958697, -2.69169618940638, 1.19839281085285}
	preEmphasisA = [3]float64{1.0, -1.69065929318241, 0.73248077421585}
)

// Relative gate: blocks quieter than mean power times this factor are
// excluded from the loudness integration.
const loudnessGateFrac = 1e-4

// loudnessFloor is reported when no block passes the gate.
const loudnessFloor = -50.0

// silentDBFloor stands in for -inf dB on all-zero signals.
const silentDBFloor = -100.0

// Metrics holds the measured properties of one audio clip.
type Metrics struct {
	DurationSec    float64
	PeakDB         float64
	RMSDB          float64
	SilenceRatio   float64
	Pauses         []float64
	MaxPauseSec    float64
	DynamicRangeDB float64
	DynamicStdDB   float64
	LUFS           float64
}

// Analyze measures mono float64 samples in [-1, 1].
func Analyze(samples []float64, sampleRate int) Metrics {
	m := Metrics{}
	if len(samples) == 0 || sampleRate <= 0 {
		m.PeakDB = silentDBFloor
		m.RMSDB = silentDBFloor
		m.LUFS = loudnessFloor
		return m
	}

	m.DurationSec = float64(len(samples)) / float64(sampleRate)
	m.PeakDB = amplitudeToDB(peakAmplitude(samples))
	m.RMSDB = amplitudeToDB(rms(samples))
	m.SilenceRatio, m.Pauses, m.MaxPauseSec = silenceProfile(samples, sampleRate)
	m.DynamicRangeDB, m.DynamicStdDB = dynamics(samples, sampleRate)
	m.LUFS = integratedLoudness(samples, sampleRate)
	return m
}

func peakAmplitude(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func amplitudeToDB(a float64) float64 {
	if a <= 0 {
		return silentDBFloor
	}
	return 20 * math.Log10(a)
}

// frameEnergies slices the signal into windows of winSec advancing hopSec
// and returns the mean-square energy of each complete window.
func frameEnergies(samples []float64, sampleRate int, winSec, hopSec float64) []float64 {
	win := int(winSec * float64(sampleRate))
	hop := int(hopSec * float64(sampleRate))
	if win <= 0 || hop <= 0 || len(samples) < win {
		return nil
	}
	var energies []float64
	for start := 0; start+win <= len(samples); start += hop {
		var sum float64
		for _, s := range samples[start : start+win] {
			sum += s * s
		}
		energies = append(energies, sum/float64(win))
	}
	return energies
}

// silenceProfile returns the fraction of silent frames, the list of pauses
// longer than minPauseSec, and the longest pause.
func silenceProfile(samples []float64, sampleRate int) (ratio float64, pauses []float64, maxPause float64) {
	energies := frameEnergies(samples, sampleRate, silenceWindowSec, silenceHopSec)
	if len(energies) == 0 {
		return 0, nil, 0
	}

	threshold := median(energies) * silenceEnergyFrac

	silentCount := 0
	run := 0
	flushRun := func() {
		if run == 0 {
			return
		}
		pauseDur := float64(run) * silenceHopSec
		if pauseDur > minPauseSec {
			pauses = append(pauses, pauseDur)
			if pauseDur > maxPause {
				maxPause = pauseDur
			}
		}
		run = 0
	}

	for _, e := range energies {
		if e < threshold {
			silentCount++
			run++
		} else {
			flushRun()
		}
	}
	flushRun()

	ratio = float64(silentCount) / float64(len(energies))
	return ratio, pauses, maxPause
}

// dynamics returns the spread of block RMS levels in dB.
func dynamics(samples []float64, sampleRate int) (rangeDB, stdDB float64) {
	energies := frameEnergies(samples, sampleRate, blockWindowSec, blockHopSec)
	if len(energies) == 0 {
		return 0, 0
	}

	levels := make([]float64, 0, len(energies))
	for _, e := range energies {
		levels = append(levels, amplitudeToDB(math.Sqrt(e)))
	}

	minLevel, maxLevel := levels[0], levels[0]
	var sum float64
	for _, l := range levels {
		if l < minLevel {
			minLevel = l
		}
		if l > maxLevel {
			maxLevel = l
		}
		sum += l
	}
	mean := sum / float64(len(levels))

	var varSum float64
	for _, l := range levels {
		varSum += (l - mean) * (l - mean)
	}

	return maxLevel - minLevel, math.Sqrt(varSum / float64(len(levels)))
}

// integratedLoudness approximates LUFS: pre-emphasis filter, 400 ms block
// powers, a relative gate, then -0.691 + 10*log10(P).
func integratedLoudness(samples []float64, sampleRate int) float64 {
	filtered := preEmphasis(samples)

	powers := frameEnergies(filtered, sampleRate, blockWindowSec, blockHopSec)
	if len(powers) == 0 {
		return loudnessFloor
	}

	var sum float64
	for _, p := range powers {
		sum += p
	}
	gate := (sum / float64(len(powers))) * loudnessGateFrac

	var gatedSum float64
	gatedCount := 0
	for _, p := range powers {
		if p >= gate {
			gatedSum += p
			gatedCount++
		}
	}
	if gatedCount == 0 {
		return loudnessFloor
	}

	meanPower := gatedSum / float64(gatedCount)
	if meanPower <= 0 {
		return loudnessFloor
	}
	return -0.691 + 10*math.Log10(meanPower)
}

// preEmphasis applies the biquad in direct form II transposed.
func preEmphasis(samples []float64) []float64 {
	out := make([]float64, len(samples))
	var z1, z2 float64
	for i, x := range samples {
		y := preEmphasisB[0]*x + z1
		z1 = preEmphasisB[1]*x - preEmphasisA[1]*y + z2
		z2 = preEmphasisB[2]*x - preEmphasisA[2]*y
		out[i] = y
	}
	return out
}

// median averages the two middle values for even-length input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
