package script

import (
	"math/rand"
	"strings"
)

// AccentConfig lists the accent pools for one exam type.
type AccentConfig struct {
	ListeningAccents  []string
	VocabularyAccents []string
}

// Accent pools per exam. IELTS and PTE lean British/Commonwealth, TOEFL is
// American, business mixes in L2 speakers.
var accentPolicies = map[string]AccentConfig{
	"general":  {[]string{"US", "US_FEMALE"}, []string{"US", "US_FEMALE"}},
	"toefl":    {[]string{"US", "US_FEMALE"}, []string{"US", "US_FEMALE"}},
	"ielts":    {[]string{"UK", "UK_FEMALE", "US", "AU"}, []string{"UK", "UK_FEMALE"}},
	"pte":      {[]string{"UK", "AU", "US", "CA", "IN"}, []string{"UK", "UK_FEMALE"}},
	"business": {[]string{"US", "UK", "IN", "AR_L2", "ZH_L2", "US_FEMALE", "UK_FEMALE"}, []string{"US", "US_FEMALE"}},
}

// AccentConfigFor returns the pools for an exam, defaulting to general.
func AccentConfigFor(goal string) AccentConfig {
	if cfg, ok := accentPolicies[strings.ToLower(goal)]; ok {
		return cfg
	}
	return accentPolicies["general"]
}

// SelectListeningAccents picks one accent per speaker, deterministically
// for a given seed. IELTS two-speaker dialogues are UK-only 70% of the
// time, otherwise one UK voice paired with a US or AU voice.
func SelectListeningAccents(goal string, numSpeakers int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	cfg := AccentConfigFor(goal)

	if strings.ToLower(goal) == "ielts" && numSpeakers == 2 {
		ukAccents := []string{"UK", "UK_FEMALE"}
		if rng.Float64() < 0.7 {
			return []string{pick(rng, ukAccents), pick(rng, ukAccents)}
		}
		other := []string{"US", "AU"}
		return []string{pick(rng, ukAccents), pick(rng, other)}
	}

	accents := make([]string, numSpeakers)
	for i := range accents {
		accents[i] = pick(rng, cfg.ListeningAccents)
	}
	return accents
}

// SelectVocabularyAccent picks the accent for vocabulary pronunciation.
// It draws from a shifted seed so it doesn't mirror the dialogue choice.
func SelectVocabularyAccent(goal string, seed int64) string {
	rng := rand.New(rand.NewSource(seed + 1))
	return pick(rng, AccentConfigFor(goal).VocabularyAccents)
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
