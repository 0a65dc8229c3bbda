// Package vocab picks level-appropriate vocabulary out of a transcript so
// each exercise ships with a study list.
package vocab

import (
	"regexp"
	"sort"
	"strings"
)

// CEFR levels, easiest first.
var cefrLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// Known word levels. Words not listed default to B1.
var cefrMappings = map[string]string{
	"hello": "A1", "goodbye": "A1", "please": "A1", "family": "A1",
	"house": "A1", "food": "A1", "work": "A1",
	"friend": "A2", "school": "A2", "money": "A2", "weather": "A2",
	"travel": "A2", "shopping": "A2", "restaurant": "A2", "hotel": "A2",
	"appointment": "A2", "booking": "A2", "swimming": "A2", "lesson": "A2",
	"experience": "B1", "opinion": "B1", "decision": "B1", "situation": "B1",
	"opportunity": "B1", "environment": "B1", "culture": "B1", "society": "B1",
	"education": "B1", "equipment": "B1", "confirmation": "B1", "advertisement": "B1",
	"achievement": "B2", "accommodation": "B2", "administration": "B2",
	"characteristic": "B2", "concentration": "B2", "consequences": "B2",
	"establishment": "B2", "investigation": "B2", "relationship": "B2",
	"responsibility": "B2", "registration": "B2",
	"anticipated": "C1", "comprehensive": "C1", "controversial": "C1",
	"fundamental": "C1", "implementation": "C1", "methodology": "C1",
	"phenomenon": "C1", "predominantly": "C1", "sophisticated": "C1",
	"connotation": "C2", "deteriorate": "C2", "discrepancy": "C2",
	"meticulously": "C2", "substantiate": "C2", "ubiquitous": "C2",
	"unprecedented": "C2",
}

// Function words and auxiliaries never worth teaching.
var basicWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "could": true,
	"should": true, "can": true, "may": true, "might": true, "must": true,
	"shall": true, "this": true, "that": true, "these": true, "those": true,
	"you": true, "your": true, "it": true, "its": true, "not": true,
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// Item is one vocabulary entry extracted from a transcript.
type Item struct {
	Word    string `json:"word"`
	Level   string `json:"cefr_level"`
	Context string `json:"context_sentence"`
}

// Extract returns up to count vocabulary items suitable for targetLevel,
// in a deterministic order (score, then first appearance).
func Extract(transcript, targetLevel string, count int) []Item {
	if count <= 0 {
		return nil
	}
	targetIdx := levelIndex(targetLevel)

	type candidate struct {
		Item
		score int
		order int
	}

	seen := map[string]bool{}
	var candidates []candidate
	for _, raw := range wordPattern.FindAllString(transcript, -1) {
		word := strings.ToLower(raw)
		if len(word) < 3 || seen[word] || basicWords[word] {
			continue
		}
		seen[word] = true

		level := wordLevel(word)
		levelIdx := levelIndex(level)
		// Keep words at the target level or at most one above it.
		if levelIdx > targetIdx+1 {
			continue
		}

		score := 0
		switch {
		case levelIdx == targetIdx:
			score += 3
		case abs(levelIdx-targetIdx) == 1:
			score += 2
		}
		if len(word) > 6 {
			score++
		}

		candidates = append(candidates, candidate{
			Item: Item{
				Word:    word,
				Level:   level,
				Context: sentenceWith(word, transcript),
			},
			score: score,
			order: len(candidates),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		items[i] = c.Item
	}
	return items
}

func wordLevel(word string) string {
	if level, ok := cefrMappings[word]; ok {
		return level
	}
	return "B1"
}

func levelIndex(level string) int {
	for i, l := range cefrLevels {
		if l == strings.ToUpper(level) {
			return i
		}
	}
	return 2 // B1
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func sentenceWith(word, text string) string {
	for _, sentence := range sentenceSplit.Split(text, -1) {
		if strings.Contains(strings.ToLower(sentence), word) {
			return strings.TrimSpace(sentence)
		}
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
