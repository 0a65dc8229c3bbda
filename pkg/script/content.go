package script

import (
	"fmt"
	"math/rand"
	"strings"
)

var conversationStarters = []string{
	"Hi there! How can I help you today?",
	"Good morning! What can I do for you?",
	"Hello! How are you doing today?",
}

var naturalResponses = []string{
	"That's a great question.",
	"I see what you mean.",
	"That makes perfect sense.",
	"Absolutely, I agree.",
	"That's exactly right.",
	"Good point.",
	"I hadn't thought of that.",
	"That's interesting.",
}

// Generate builds the conversation script for the request. The same
// parameters and seed always produce the same turns.
func Generate(p Params) []Turn {
	rng := rand.New(rand.NewSource(p.Seed))
	goal := strings.ToLower(p.Goal)
	topic := strings.ToLower(p.Topic)

	switch {
	case goal == "ielts" && containsAny(topic, "booking", "reservation", "appointment", "lesson", "class"):
		return bookingConversation(topic, p.Level, p.DurationSec)
	case goal == "toefl" && strings.Contains(topic, "campus"):
		return campusConversation(p.Level)
	case goal == "business":
		return businessConversation(p.Level)
	default:
		return generalConversation(p.Topic, p.Level, rng)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// bookingConversation is an IELTS Section 1 style service call: a
// receptionist takes a booking and spells out names, addresses and
// numbers the way the exam does.
func bookingConversation(topic, level string, durationSec int) []Turn {
	isAdvanced := level == "B2" || level == "C1" || level == "C2"

	serviceType := "fitness class"
	switch {
	case strings.Contains(topic, "swimming"):
		serviceType = "swimming lesson"
	case strings.Contains(topic, "yoga"):
		serviceType = "yoga class"
	case strings.Contains(topic, "hotel"):
		serviceType = "hotel room"
	case strings.Contains(topic, "restaurant"):
		serviceType = "dinner reservation"
	}

	turns := []Turn{
		{0, "Good morning, City Centre Sports Club, this is Emma speaking. How can I help you?", "professional", 1.0},
		{1, fmt.Sprintf("Hello Emma, I'm calling about your %ss. I saw your advertisement online.", serviceType), "polite", 0.95},
		{0, "Certainly! Are you looking for beginner classes or do you have some experience?", "helpful", 1.0},
		{1, "I'm a complete beginner actually. I'm twenty-nine years old and I'd like to try something new.", "friendly", 0.9},
	}

	details := []string{
		"We have classes on Tuesday evenings and Saturday mornings. Which would work better for you?",
		"Saturday mornings would be perfect. I work during the week.",
		"The Saturday class runs from ten o'clock until eleven thirty.",
		"That sounds great. How much does it cost?",
		"It's fifteen pounds per session, or you can buy a course of six sessions for seventy-five pounds.",
		"I'd like the six-session course please. When can I start?",
		"The next course begins this Saturday, October twenty-first. Shall I book you in?",
		"Yes please. What details do you need?",
		"I'll need your full name first.",
		"It's David Thompson. That's D-A-V-I-D Thompson, T-H-O-M-P-S-O-N.",
		"Thank you David. And your address please?",
		"It's twenty-eight Park Road, that's P-A-R-K Road, in Millfield, postcode M-F-seven, four-A-B.",
		"And can I have your telephone number?",
		"Yes, it's oh-seven-nine-six-two-four-eight-three-five-seven.",
		"Perfect. Do you have an email address?",
		"It's david-thompson-at-gmail-dot-com.",
		"Excellent. Is there anything else you'd like to know?",
		"Should I bring any equipment?",
		"No, we provide everything. Just wear comfortable sports clothes.",
		"What about parking?",
		"We have free parking for students. Just show your booking confirmation.",
		"Perfect. So I'm confirmed for Saturday October twenty-first at ten AM?",
		"That's correct David. Please arrive fifteen minutes early. See you Saturday!",
		"Thank you so much Emma.",
		"You're very welcome David. Have a lovely day!",
	}

	// Roughly eight seconds per turn, never fewer than twelve turns.
	targetTurns := durationSec / 8
	if targetTurns < 12 {
		targetTurns = 12
	}

	pace := 0.85
	if isAdvanced {
		pace = 0.95
	}
	for i, text := range details {
		if len(turns) >= targetTurns {
			break
		}
		turns = append(turns, Turn{i % 2, text, "conversational", pace})
	}
	return turns
}

func campusConversation(level string) []Turn {
	pace := 0.9
	if level == "B2" || level == "C1" || level == "C2" {
		pace = 1.0
	}

	turns := []Turn{
		{0, "Hi there! I'm Sarah from the Student Services office. How can I help you today?", "friendly", 1.0},
		{1, "Hi Sarah. I'm having some trouble with my course registration for next semester.", "concerned", 0.9},
	}

	lines := []string{
		"I see. What specific courses are you trying to register for?",
		"Well, I need to take Biology 201 and Chemistry 150, but they're showing as closed.",
		"Let me check the system. Sometimes we can add students to a waitlist.",
		"That would be great. I really need these courses for my pre-med requirements.",
		"I understand completely. These are popular courses. Let me see what options we have.",
	}
	for i, text := range lines {
		emotion := "hopeful"
		if i%2 == 0 {
			emotion = "helpful"
		}
		turns = append(turns, Turn{i % 2, text, emotion, pace})
	}
	return turns
}

func businessConversation(level string) []Turn {
	pace := 1.0
	if level == "C1" || level == "C2" {
		pace = 1.05
	}

	turns := []Turn{
		{0, "Good morning everyone. Thank you for joining today's quarterly review meeting.", "professional", 1.0},
		{1, "Good morning. Thanks for organizing this, Jennifer.", "professional", 1.0},
	}

	lines := []string{
		"Let's start by reviewing our Q3 performance against our targets.",
		"The sales figures look quite positive. We exceeded our goal by twelve percent.",
		"That's excellent news. What were the main drivers behind this success?",
		"I think our new marketing campaign really resonated with customers.",
		"The digital strategy we implemented in August has been particularly effective.",
	}
	for i, text := range lines {
		turns = append(turns, Turn{i % 2, text, "professional", pace})
	}
	return turns
}

func generalConversation(topic, level string, rng *rand.Rand) []Turn {
	pace := 0.9
	if level == "B2" || level == "C1" || level == "C2" {
		pace = 1.0
	}

	turns := []Turn{
		{0, conversationStarters[rng.Intn(len(conversationStarters))], "friendly", pace},
	}

	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "food"):
		turns = append(turns,
			Turn{1, "I'm looking for a good restaurant recommendation for tonight.", "curious", 0.9},
			Turn{0, "What kind of cuisine are you in the mood for?", "helpful", 1.0},
			Turn{1, "Something Italian would be perfect. Maybe with outdoor seating?", "hopeful", 0.95},
		)
	case strings.Contains(lower, "travel"):
		turns = append(turns,
			Turn{1, "I'm planning a trip to Europe next month. Any suggestions?", "excited", 0.95},
			Turn{0, "How exciting! What countries are you thinking of visiting?", "enthusiastic", 1.0},
		)
	default:
		turns = append(turns,
			Turn{1, fmt.Sprintf("I've been thinking about %s lately.", topic), "thoughtful", 0.9},
			Turn{0, naturalResponses[rng.Intn(len(naturalResponses))], "interested", 1.0},
		)
	}
	return turns
}
