package command

import "strings"

// stopVocabulary contains the bare abort words.
var stopVocabulary = []string{
	"stop", "cancel", "abort", "quit", "exit", "halt",
	"terminate", "break", "stop command", "cancel command",
}

// queryIndicators are leading words that mark the text after a stop word
// as a question or request rather than an abort ("stop, can you tell me...").
var queryIndicators = map[string]struct{}{
	"can": {}, "could": {}, "what": {}, "who": {}, "when": {}, "where": {},
	"how": {}, "why": {}, "is": {}, "are": {}, "was": {}, "tell": {},
	"show": {}, "find": {}, "search": {}, "help": {}, "please": {},
	"explain": {}, "describe": {}, "list": {}, "create": {}, "make": {},
}

// explicitStopPhrases are unambiguous abort requests regardless of length.
var explicitStopPhrases = []string{
	"stop command", "cancel command", "i want to stop", "stop now please",
	"please stop now", "stop execution", "cancel execution", "abort execution",
	"abort this", "cancel this", "stop this",
}

// IsStopCommand reports whether the text is an explicit request to abort
// the current operation. It matches very short utterances containing a
// stop word, utterances starting with a stop word that are not followed
// by a question, and a fixed list of explicit stop phrases. Casual
// mentions of stop words within longer sentences do not count.
func IsStopCommand(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	words := strings.Fields(lower)

	if len(words) <= 3 {
		for _, word := range words {
			if containsString(stopVocabulary, word) {
				return true
			}
		}

		// Combinations like "abort now" or "please stop".
		if len(words) == 2 {
			for _, stop := range stopVocabulary {
				if strings.Contains(lower, stop) {
					return true
				}
			}
		}
	}

	for _, stop := range stopVocabulary {
		rest, found := strings.CutPrefix(lower, stop+" ")
		if !found {
			continue
		}

		// "stop the process" aborts, "stop, can you tell me about X"
		// is the start of a query and must pass through.
		after := strings.Fields(rest)
		if len(after) > 3 {
			after = after[:3]
		}
		query := false
		for _, word := range after {
			if _, ok := queryIndicators[word]; ok {
				query = true
				break
			}
		}
		if !query {
			return true
		}
	}

	for _, phrase := range explicitStopPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
