// Package mixer assembles per-turn clips into one conversation track with
// natural-feeling gaps and occasional overlaps.
package mixer

import (
	"math/rand"
	"strings"

	"listenlab/pkg/config"
)

// Clip is one synthesized turn waiting for placement.
type Clip struct {
	Path    string
	Speaker string
	Text    string
}

// PlacedClip is a clip with its position on the conversation timeline.
type PlacedClip struct {
	Clip
	StartSec   float64
	EndSec     float64
	GapSec     float64
	Overlapped bool
}

// Phrase openers that signal the speaker is thinking before answering.
var hesitationPrefixes = []string{
	"well", "um", "uh", "hmm", "let me think", "let me see", "that's a good question",
}

// Short reactions that ride over the end of the previous turn.
var agreementWords = map[string]bool{
	"yeah": true, "yes": true, "right": true, "exactly": true,
	"sure": true, "mhm": true, "uh-huh": true, "absolutely": true, "true": true,
}

// Reactions longer than this many words are full turns, not interjections.
const maxInterjectionWords = 3

// Mixer plans and renders conversation timelines. The same seed always
// produces the same timeline.
type Mixer struct {
	cfg config.MixerConfig
	rng *rand.Rand
}

// New creates a Mixer with deterministic gap jitter.
func New(cfg config.MixerConfig, seed int64) *Mixer {
	return &Mixer{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Plan places clips on the timeline. durations[i] is the decoded length of
// clips[i] in seconds.
func (m *Mixer) Plan(clips []Clip, durations []float64) []PlacedClip {
	placed := make([]PlacedClip, 0, len(clips))
	cursor := 0.0
	for i, c := range clips {
		p := PlacedClip{Clip: c}
		if i == 0 {
			p.StartSec = 0
		} else {
			prev := &placed[i-1]
			gap := m.gapAfter(prev.Text, c.Text)
			p.GapSec = gap
			if isInterjection(c.Text) {
				// Interjections start before the previous turn finishes.
				p.StartSec = cursor + gap - m.cfg.OverlapAmount.Seconds()
				p.Overlapped = p.StartSec < cursor
			} else {
				p.StartSec = cursor + gap
			}
			if p.StartSec < 0 {
				p.StartSec = 0
			}
		}
		p.EndSec = p.StartSec + durations[i]
		if p.EndSec > cursor {
			cursor = p.EndSec
		}
		placed = append(placed, p)
	}
	return placed
}

// gapAfter picks the pause between two turns from the turn texts, with
// jitter so runs don't sound mechanical.
func (m *Mixer) gapAfter(prevText, nextText string) float64 {
	var gap float64
	switch {
	case isInterjection(nextText):
		gap = m.cfg.InterruptionGap.Seconds()
	case strings.HasSuffix(strings.TrimSpace(prevText), "?"):
		gap = m.cfg.QuestionGap.Seconds()
	case startsWithHesitation(nextText):
		gap = m.cfg.ThinkingGap.Seconds()
	default:
		gap = m.cfg.DefaultGap.Seconds()
	}

	// Jitter in [-0.1, 0.2) seconds, floored so turns never touch.
	gap += m.rng.Float64()*0.3 - 0.1
	if gap < 0.05 {
		gap = 0.05
	}
	return gap
}

func startsWithHesitation(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range hesitationPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func isInterjection(text string) bool {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(words) == 0 || len(words) > maxInterjectionWords {
		return false
	}
	first := strings.Trim(words[0], ".,!?")
	return agreementWords[first]
}
