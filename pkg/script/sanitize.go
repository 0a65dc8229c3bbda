package script

import "strings"

// Terms that disqualify a topic for classroom material.
var blockedTerms = []string{
	"adult", "sexual", "intimate", "erotic", "pornographic",
	"violent", "killing", "murder", "weapon", "gun", "knife",
	"gambling", "drugs", "alcohol", "smoking",
	"political", "religion", "religious", "politics",
}

// Substitutions applied before falling back to a neutral topic.
var safeAlternatives = map[string]string{
	"party":  "celebration",
	"drink":  "beverage",
	"bar":    "restaurant",
	"club":   "social group",
	"dating": "friendship",
}

const fallbackTopic = "daily activities"

// IsSafeContent reports whether text avoids all blocked terms.
func IsSafeContent(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range blockedTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// SuggestSafeTopic rewrites a problematic topic. Known terms get a direct
// substitution; anything else falls back to a neutral default.
func SuggestSafeTopic(topic string) string {
	lower := strings.ToLower(topic)
	for unsafe, safe := range safeAlternatives {
		if strings.Contains(lower, unsafe) {
			return strings.ReplaceAll(lower, unsafe, safe)
		}
	}
	return fallbackTopic
}

// SanitizeTopic returns the topic unchanged when safe, otherwise a safe
// replacement and false.
func SanitizeTopic(topic string) (string, bool) {
	if IsSafeContent(topic) {
		return topic, true
	}
	return SuggestSafeTopic(topic), false
}
