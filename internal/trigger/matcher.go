package trigger

import (
	"strings"
)

const DefaultThreshold = 0.6

// bareGreetings never fire the trigger on their own.
var bareGreetings = map[string]struct{}{
	"hello": {}, "hi": {}, "hey": {}, "ok": {}, "okay": {},
}

var greetingWords = []string{"hey", "hi", "hello", "ok", "okay"}

// triggerStems activate in combination with a preceding greeting word.
var triggerStems = []string{"assist", "friend", "code", "calm", "project", "help"}

// actionTriplets are explicit three-word command openers.
var actionTriplets = [][3]string{
	{"let", "'s", "code"},
	{"help", "me", "with"},
	{"do", "this", "now"},
	{"could", "you", "please"},
	{"code", "with", "me"},
	{"i", "need", "help"},
}

// Matcher decides whether a text span contains a trigger phrase.
// It evaluates a prioritized rule list against the configured vocabulary
// and reports the maximum confidence achieved across all rules.
// The zero threshold means DefaultThreshold.
type Matcher struct {
	Vocabulary Vocabulary
	Patterns   []CompoundPattern
	Threshold  float64
}

// Matches reports whether the text contains a trigger phrase with
// sufficient confidence.
func (m *Matcher) Matches(text string) bool {
	return m.Confidence(text) >= m.threshold()
}

func (m *Matcher) threshold() float64 {
	if m.Threshold == 0 {
		return DefaultThreshold
	}
	return m.Threshold
}

// Confidence scores the text against the trigger vocabulary, returning a
// value in [0,1]. Empty text and bare greetings score zero.
func (m *Matcher) Confidence(text string) float64 {
	lower := strings.ToLower(text)

	if strings.TrimSpace(lower) == "" {
		return 0
	}

	// A bare greeting must never wake the assistant.
	if _, ok := bareGreetings[strings.TrimSpace(lower)]; ok {
		return 0
	}

	words := strings.Fields(lower)
	confidence := 0.0

	// Canonical keys match as whole space-delimited words with full confidence.
	padded := " " + lower + " "
	for canonical := range m.Vocabulary {
		if strings.Contains(padded, " "+canonical+" ") && !tooWeakAlone(words, canonical) {
			return 1.0
		}
	}

	// Variations match as substrings, guarded against firing on a single
	// stray word in a very short utterance.
	for _, variant := range m.Vocabulary.Terms() {
		if !strings.Contains(lower, variant) {
			continue
		}

		if tooWeakAlone(words, variant) {
			continue
		}

		if containsWholeWord(lower, variant) {
			confidence = max(confidence, 0.9)
		} else {
			confidence = max(confidence, 0.7)
		}
	}

	for _, p := range m.Patterns {
		if p.Pattern.MatchString(lower) {
			confidence = max(confidence, p.Weight)
		}
	}

	// Multi-word variations additionally require an exact in-order word
	// sequence, which makes them strong matches.
	for _, variant := range m.Vocabulary.Terms() {
		variantWords := strings.Fields(variant)
		if len(variantWords) > 1 && containsWordSequence(words, variantWords) {
			confidence = max(confidence, 0.9)
		}
	}

	for i := 0; i+1 < len(words); i++ {
		if !containsWord(greetingWords, words[i]) {
			continue
		}
		for _, stem := range triggerStems {
			if strings.HasPrefix(words[i+1], stem) {
				confidence = max(confidence, 0.9)
			}
		}
	}

	tokens := splitClitics(words)
	for i := 0; i+2 < len(tokens); i++ {
		for _, triplet := range actionTriplets {
			if tokens[i] == triplet[0] && tokens[i+1] == triplet[1] && tokens[i+2] == triplet[2] {
				confidence = max(confidence, 0.9)
			}
		}
	}

	// Fuzzy prefix similarity compensates for speech recognition errors
	// ("clau" for "claude"). Longer utterances only, to keep the false
	// positive rate down.
	if len(words) >= 3 {
		for _, word := range words {
			if len(word) < 3 {
				continue
			}
			for _, term := range m.Vocabulary.Terms() {
				if len(term) < 3 {
					continue
				}
				minLen := min(len(word), len(term))
				if word[:minLen] == term[:minLen] {
					similarity := float64(minLen) / float64(max(len(word), len(term)))
					confidence = max(confidence, similarity*0.8)
				}
			}
		}
	}

	return confidence
}

// tooWeakAlone reports whether the term appears as a bare word within a
// very short utterance, which is too weak evidence on its own.
func tooWeakAlone(words []string, term string) bool {
	if len(words) >= 3 {
		return false
	}
	return containsWord(words, term)
}

func containsWord(words []string, w string) bool {
	for _, word := range words {
		if word == w {
			return true
		}
	}
	return false
}

// containsWholeWord reports whether term occurs in text delimited by
// non-letter, non-digit characters.
func containsWholeWord(text, term string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}

		start := offset + i
		end := start + len(term)

		if (start == 0 || !isWordChar(text[start-1])) && (end == len(text) || !isWordChar(text[end])) {
			return true
		}

		offset = start + 1
	}

	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// containsWordSequence reports whether seq occurs within words as an
// exact, in-order, contiguous subsequence.
func containsWordSequence(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		matched := true
		for j, w := range seq {
			if words[i+j] != w {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// splitClitics separates apostrophe clitics into their own tokens so that
// "let's" matches the ("let", "'s", ...) triplet form.
func splitClitics(words []string) []string {
	tokens := make([]string, 0, len(words)+2)
	for _, w := range words {
		if i := strings.Index(w, "'"); i > 0 && i < len(w)-1 {
			tokens = append(tokens, w[:i], w[i:])
		} else {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
