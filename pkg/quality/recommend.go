package quality

// Recommendations maps failed checks to corrective suggestions. A clean
// report gets a single confirmation line.
func Recommendations(r Report) []string {
	var recs []string
	if !r.DurationOK {
		if r.Metrics.DurationSec < 30 {
			recs = append(recs, "Audio is too short; add more conversation turns or slow the speaking pace.")
		} else {
			recs = append(recs, "Audio is too long; trim the script or reduce the turn count.")
		}
	}
	if !r.SilenceOK {
		recs = append(recs, "Too much silence; tighten the gaps between turns.")
	}
	if !r.PauseOK {
		recs = append(recs, "A pause exceeds the limit; shorten the longest inter-turn gap.")
	}
	if !r.PeakOK {
		recs = append(recs, "Peak level is too hot; re-normalize below the peak ceiling.")
	}
	if !r.LoudnessOK {
		recs = append(recs, "Integrated loudness is outside the target window; adjust overall gain.")
	}
	if !r.LevelOK {
		recs = append(recs, "Average level is very low; check the source clips for quiet synthesis.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Audio meets all standards.")
	}
	return recs
}
