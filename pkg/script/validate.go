package script

import (
	"fmt"
	"strings"
)

var (
	validGoals  = []string{"general", "toefl", "ielts", "pte", "business"}
	validLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}
	validL1s    = []string{"fa", "ar", "other"}
)

const (
	minDurationSec = 30
	maxDurationSec = 600
	minVocabCount  = 1
	maxVocabCount  = 50
)

// Validate checks exam parameters and returns every problem found as a
// human-readable message. An empty slice means the parameters are usable.
func Validate(p Params) []string {
	var errs []string

	if p.Goal == "" {
		errs = append(errs, "Missing required argument: goal")
	} else if !contains(validGoals, strings.ToLower(p.Goal)) {
		errs = append(errs, fmt.Sprintf("Invalid goal %q. Must be one of: %s", p.Goal, strings.Join(validGoals, ", ")))
	}

	if p.Level == "" {
		errs = append(errs, "Missing required argument: level")
	} else if !contains(validLevels, p.Level) {
		errs = append(errs, fmt.Sprintf("Invalid level %q. Must be one of: %s", p.Level, strings.Join(validLevels, ", ")))
	}

	if strings.TrimSpace(p.Topic) == "" {
		errs = append(errs, "Missing required argument: topic")
	}

	if p.DurationSec < minDurationSec || p.DurationSec > maxDurationSec {
		errs = append(errs, fmt.Sprintf("Duration must be between %d and %d seconds", minDurationSec, maxDurationSec))
	}

	if p.VocabCount < minVocabCount || p.VocabCount > maxVocabCount {
		errs = append(errs, fmt.Sprintf("Vocab count must be between %d and %d", minVocabCount, maxVocabCount))
	}

	if p.L1 != "" && !contains(validL1s, strings.ToLower(p.L1)) {
		errs = append(errs, fmt.Sprintf("Invalid l1 %q. Must be one of: %s", p.L1, strings.Join(validL1s, ", ")))
	}

	return errs
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
