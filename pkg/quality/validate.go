package quality

import "listenlab/pkg/config"

// Standards are the thresholds a clip is validated against.
type Standards struct {
	MinDurationSec  float64
	MaxDurationSec  float64
	MaxSilenceRatio float64
	MaxPauseSec     float64
	PeakCeilingDB   float64
	LUFSMin         float64
	LUFSMax         float64
	RMSFloorDB      float64
}

// StandardsFromConfig copies the configured thresholds.
func StandardsFromConfig(cfg config.QualityConfig) Standards {
	return Standards{
		MinDurationSec:  cfg.MinDurationSec,
		MaxDurationSec:  cfg.MaxDurationSec,
		MaxSilenceRatio: cfg.MaxSilenceRatio,
		MaxPauseSec:     cfg.MaxPauseSec,
		PeakCeilingDB:   cfg.PeakCeilingDB,
		LUFSMin:         cfg.LUFSMin,
		LUFSMax:         cfg.LUFSMax,
		RMSFloorDB:      cfg.RMSFloorDB,
	}
}

// Report is the outcome of checking one clip's metrics against the
// standards. LoudnessOK and LevelOK are informational and do not affect
// Pass.
type Report struct {
	Metrics    Metrics
	DurationOK bool
	SilenceOK  bool
	PauseOK    bool
	PeakOK     bool
	LoudnessOK bool
	LevelOK    bool
	Pass       bool
}

// Validate checks metrics against the standards. A clip passes when
// duration, silence ratio, longest pause and peak level are all within
// bounds; loudness and RMS level are advisory.
func Validate(m Metrics, std Standards) Report {
	r := Report{
		Metrics:    m,
		DurationOK: m.DurationSec >= std.MinDurationSec && m.DurationSec <= std.MaxDurationSec,
		SilenceOK:  m.SilenceRatio <= std.MaxSilenceRatio,
		PauseOK:    m.MaxPauseSec <= std.MaxPauseSec,
		PeakOK:     m.PeakDB <= std.PeakCeilingDB,
		LoudnessOK: m.LUFS >= std.LUFSMin && m.LUFS <= std.LUFSMax,
		LevelOK:    m.RMSDB >= std.RMSFloorDB,
	}
	r.Pass = r.DurationOK && r.SilenceOK && r.PauseOK && r.PeakOK
	return r
}
