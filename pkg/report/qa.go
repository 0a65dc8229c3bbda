package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"listenlab/pkg/quality"
)

// QAChecks holds the per-check outcomes of the quality gate.
type QAChecks struct {
	DurationOK bool `json:"duration_ok"`
	SilenceOK  bool `json:"silence_ok"`
	PauseOK    bool `json:"pause_ok"`
	PeakOK     bool `json:"peak_ok"`
	LoudnessOK bool `json:"loudness_ok"`
	LevelOK    bool `json:"level_ok"`
}

// QAMetrics is the measured-value section of the QA report.
type QAMetrics struct {
	DurationSec    float64 `json:"duration_sec"`
	PeakDB         float64 `json:"peak_db"`
	RMSDB          float64 `json:"rms_db"`
	SilenceRatio   float64 `json:"silence_ratio"`
	MaxPauseSec    float64 `json:"max_pause_sec"`
	DynamicRangeDB float64 `json:"dynamic_range_db"`
	LUFS           float64 `json:"lufs"`
}

// QAReport is the JSON document the quality gate writes per run.
type QAReport struct {
	GeneratedAt     time.Time `json:"generated_at"`
	AudioFile       string    `json:"audio_file"`
	Metrics         QAMetrics `json:"metrics"`
	Checks          QAChecks  `json:"checks"`
	OverallPass     bool      `json:"overall_pass"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
}

// NewQAReport converts a quality gate result into the report document.
func NewQAReport(audioFile string, r quality.Report) *QAReport {
	summary := "Audio passed all quality checks."
	if !r.Pass {
		summary = "Audio failed one or more quality checks."
	}
	return &QAReport{
		GeneratedAt: time.Now(),
		AudioFile:   audioFile,
		Metrics: QAMetrics{
			DurationSec:    r.Metrics.DurationSec,
			PeakDB:         r.Metrics.PeakDB,
			RMSDB:          r.Metrics.RMSDB,
			SilenceRatio:   r.Metrics.SilenceRatio,
			MaxPauseSec:    r.Metrics.MaxPauseSec,
			DynamicRangeDB: r.Metrics.DynamicRangeDB,
			LUFS:           r.Metrics.LUFS,
		},
		Checks: QAChecks{
			DurationOK: r.DurationOK,
			SilenceOK:  r.SilenceOK,
			PauseOK:    r.PauseOK,
			PeakOK:     r.PeakOK,
			LoudnessOK: r.LoudnessOK,
			LevelOK:    r.LevelOK,
		},
		OverallPass:     r.Pass,
		Summary:         summary,
		Recommendations: quality.Recommendations(r),
	}
}

// WriteQAReport saves the report as indented JSON.
func WriteQAReport(path string, r *QAReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal qa report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write qa report: %w", err)
	}
	return nil
}
