package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() Params {
	return Params{
		Goal:        "ielts",
		Level:       "B2",
		Topic:       "swimming lesson",
		DurationSec: 120,
		VocabCount:  10,
		L1:          "fa",
		Seed:        42,
	}
}

func TestValidate_Accepts(t *testing.T) {
	assert.Empty(t, Validate(validParams()))
}

func TestValidate_AllGoalsAndLevels(t *testing.T) {
	p := validParams()
	for _, goal := range []string{"general", "toefl", "ielts", "pte", "business"} {
		p.Goal = goal
		assert.Empty(t, Validate(p), "goal %s must validate", goal)
	}
	p = validParams()
	for _, level := range []string{"A1", "A2", "B1", "B2", "C1", "C2"} {
		p.Level = level
		assert.Empty(t, Validate(p), "level %s must validate", level)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"bad goal", func(p *Params) { p.Goal = "gre" }, "Invalid goal"},
		{"bad level", func(p *Params) { p.Level = "D1" }, "Invalid level"},
		{"missing topic", func(p *Params) { p.Topic = " " }, "topic"},
		{"duration too short", func(p *Params) { p.DurationSec = 29 }, "Duration"},
		{"duration too long", func(p *Params) { p.DurationSec = 601 }, "Duration"},
		{"vocab too low", func(p *Params) { p.VocabCount = 0 }, "Vocab count"},
		{"vocab too high", func(p *Params) { p.VocabCount = 51 }, "Vocab count"},
		{"bad l1", func(p *Params) { p.L1 = "de" }, "Invalid l1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			errs := Validate(p)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tc.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	errs := Validate(Params{})
	assert.GreaterOrEqual(t, len(errs), 4, "every failing check must be reported")
}

func TestSelectListeningAccents_Deterministic(t *testing.T) {
	for _, goal := range []string{"general", "ielts", "pte", "business"} {
		a := SelectListeningAccents(goal, 2, 42)
		b := SelectListeningAccents(goal, 2, 42)
		assert.Equal(t, a, b, "same seed must repeat for %s", goal)
	}
}

func TestSelectListeningAccents_IELTSPools(t *testing.T) {
	ukOnly := 0
	const trials = 200
	for seed := int64(0); seed < trials; seed++ {
		accents := SelectListeningAccents("ielts", 2, seed)
		require.Len(t, accents, 2)

		assert.Contains(t, []string{"UK", "UK_FEMALE"}, accents[0],
			"first IELTS speaker is always British")
		if accents[1] == "UK" || accents[1] == "UK_FEMALE" {
			ukOnly++
		} else {
			assert.Contains(t, []string{"US", "AU"}, accents[1])
		}
	}
	// The UK-only branch fires with p=0.7.
	assert.Greater(t, ukOnly, trials/2)
	assert.Less(t, ukOnly, trials*9/10)
}

func TestSelectVocabularyAccent(t *testing.T) {
	a := SelectVocabularyAccent("ielts", 42)
	assert.Contains(t, []string{"UK", "UK_FEMALE"}, a)
	assert.Equal(t, a, SelectVocabularyAccent("ielts", 42))
}

func TestAccentConfigFor_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, AccentConfigFor("general"), AccentConfigFor("unknown"))
}

func TestSanitize(t *testing.T) {
	assert.True(t, IsSafeContent("ordering food at a restaurant"))
	assert.False(t, IsSafeContent("a night of gambling"))

	topic, ok := SanitizeTopic("planning a party")
	assert.False(t, ok)
	assert.Equal(t, "planning a celebration", topic)

	topic, ok = SanitizeTopic("buying a weapon")
	assert.False(t, ok)
	assert.Equal(t, "daily activities", topic)

	topic, ok = SanitizeTopic("weekend hiking")
	assert.True(t, ok)
	assert.Equal(t, "weekend hiking", topic)
}

func TestGenerate_SwimmingLesson(t *testing.T) {
	turns := Generate(validParams())
	require.GreaterOrEqual(t, len(turns), 12)

	assert.Contains(t, turns[0].Text, "City Centre Sports Club")
	assert.Contains(t, turns[1].Text, "swimming lesson")
	for i, turn := range turns {
		assert.Equal(t, i%2, turn.Speaker, "speakers alternate")
		assert.NotEmpty(t, turn.Text)
		assert.Greater(t, turn.Pace, 0.0)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := validParams()
	p.Goal = "general"
	p.Topic = "music"
	assert.Equal(t, Generate(p), Generate(p))
}

func TestGenerate_GoalRouting(t *testing.T) {
	p := validParams()

	p.Goal = "toefl"
	p.Topic = "campus life"
	turns := Generate(p)
	assert.Contains(t, turns[0].Text, "Student Services")

	p.Goal = "business"
	turns = Generate(p)
	assert.Contains(t, turns[0].Text, "quarterly review")

	p.Goal = "general"
	p.Topic = "street food"
	turns = Generate(p)
	found := false
	for _, turn := range turns {
		if strings.Contains(turn.Text, "restaurant recommendation") {
			found = true
		}
	}
	assert.True(t, found, "food topics route to the food table")
}
