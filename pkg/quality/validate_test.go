package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"listenlab/pkg/config"
)

func testStandards() Standards {
	return StandardsFromConfig(config.DefaultConfig().Quality)
}

func goodMetrics() Metrics {
	return Metrics{
		DurationSec:  120,
		PeakDB:       -3,
		RMSDB:        -20,
		SilenceRatio: 0.10,
		MaxPauseSec:  0.8,
		LUFS:         -18,
	}
}

func TestValidate_Pass(t *testing.T) {
	r := Validate(goodMetrics(), testStandards())
	assert.True(t, r.Pass)
	assert.True(t, r.DurationOK)
	assert.True(t, r.SilenceOK)
	assert.True(t, r.PauseOK)
	assert.True(t, r.PeakOK)
	assert.True(t, r.LoudnessOK)
	assert.True(t, r.LevelOK)
}

func TestValidate_CoreChecksFlipPass(t *testing.T) {
	std := testStandards()

	cases := []struct {
		name   string
		mutate func(*Metrics)
	}{
		{"too short", func(m *Metrics) { m.DurationSec = 5 }},
		{"too long", func(m *Metrics) { m.DurationSec = 1000 }},
		{"too silent", func(m *Metrics) { m.SilenceRatio = 0.5 }},
		{"pause too long", func(m *Metrics) { m.MaxPauseSec = 3.0 }},
		{"peak too hot", func(m *Metrics) { m.PeakDB = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := goodMetrics()
			tc.mutate(&m)
			r := Validate(m, std)
			assert.False(t, r.Pass, "a failing core check must fail the clip")
		})
	}
}

func TestValidate_AdvisoryChecksDoNotFailClip(t *testing.T) {
	std := testStandards()

	m := goodMetrics()
	m.LUFS = -35 // outside window
	m.RMSDB = -60
	r := Validate(m, std)
	assert.False(t, r.LoudnessOK)
	assert.False(t, r.LevelOK)
	assert.True(t, r.Pass, "loudness and level are advisory only")
}

func TestRecommendations_Clean(t *testing.T) {
	r := Validate(goodMetrics(), testStandards())
	recs := Recommendations(r)
	assert.Equal(t, []string{"Audio meets all standards."}, recs)
}

func TestRecommendations_PerFailure(t *testing.T) {
	m := goodMetrics()
	m.SilenceRatio = 0.9
	m.PeakDB = 0
	r := Validate(m, testStandards())

	recs := Recommendations(r)
	assert.Len(t, recs, 2)
	assert.Contains(t, recs[0], "silence")
	assert.Contains(t, recs[1], "Peak")
}

func TestRecommendations_ShortVsLong(t *testing.T) {
	m := goodMetrics()
	m.DurationSec = 5
	recs := Recommendations(Validate(m, testStandards()))
	assert.Contains(t, recs[0], "too short")

	m.DurationSec = 2000
	recs = Recommendations(Validate(m, testStandards()))
	assert.Contains(t, recs[0], "too long")
}
