// Package script turns exam parameters into a conversation script: it
// validates the request, picks speaker accents per exam convention, keeps
// topics classroom-safe and emits the turn list the synthesizer reads.
package script

// Params are the learner-facing knobs for one practice exercise.
type Params struct {
	Goal        string // exam type: general, toefl, ielts, pte, business
	Level       string // CEFR level: A1..C2
	Topic       string
	DurationSec int
	VocabCount  int
	L1          string // learner's first language: fa, ar, other
	Seed        int64
}

// Turn is one utterance in the conversation script.
type Turn struct {
	Speaker int     `json:"speaker"`
	Text    string  `json:"text"`
	Emotion string  `json:"emotion"`
	Pace    float64 `json:"pace"`
}
