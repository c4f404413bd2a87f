package interview

import (
	"strings"
)

// nonAnswerMarkers are the phrases the speech-to-text layer emits when it
// captured nothing meaningful. Matching is exact on the normalized text;
// extending or localizing the set only touches this table.
var nonAnswerMarkers = map[string]struct{}{
	"no answer detected":                  {},
	"no answer detected.":                 {},
	"sorry, could not hear any response":  {},
	"sorry, could not hear any response.": {},
	"no answer":                           {},
	"did not answer":                      {},
}

// IsNonAnswer reports whether a candidate turn signals a missed answer.
func IsNonAnswer(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	_, ok := nonAnswerMarkers[normalized]
	return ok
}

// greetingWords match when they are the first word of a line.
var greetingWords = map[string]struct{}{
	"welcome":   {},
	"hello":     {},
	"hi":        {},
	"greetings": {},
}

// greetingPhrases match as line prefixes.
var greetingPhrases = []string{
	"let's begin",
	"let us begin",
	"lets begin",
	"good morning",
	"good afternoon",
	"good evening",
	"thank you for joining",
	"thanks for joining",
}

// StripGreeting removes greeting-style opening lines the model sometimes
// produces mid-interview, so the candidate is not re-welcomed on every turn.
// If stripping would leave nothing, the original text is returned: the agent
// never emits an empty line.
func StripGreeting(text string) string {
	lines := strings.Split(text, "\n")

	i := 0
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !isGreetingLine(trimmed) {
			break
		}
	}

	stripped := strings.TrimSpace(strings.Join(lines[i:], "\n"))
	if stripped == "" {
		return text
	}
	return stripped
}

func isGreetingLine(line string) bool {
	lower := strings.ToLower(line)

	firstWord := lower
	if idx := strings.IndexAny(lower, " \t"); idx >= 0 {
		firstWord = lower[:idx]
	}
	firstWord = strings.TrimRight(firstWord, ",.!:;")
	if _, ok := greetingWords[firstWord]; ok {
		return true
	}

	for _, phrase := range greetingPhrases {
		if strings.HasPrefix(lower, phrase) {
			return true
		}
	}
	return false
}
