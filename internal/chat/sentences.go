package chat

import (
	"regexp"
	"strings"
)

// TextsToSentences receives a stream of response texts and emits them
// sentence by sentence. Speaking the response sentence-wise reduces the
// time to the first spoken word and lets the user interrupt verbally
// between sentences.
func TextsToSentences(texts <-chan string) <-chan string {
	ch := make(chan string, 10)

	go func() {
		defer close(ch)

		for text := range texts {
			for _, sentence := range SplitIntoSentences(text) {
				ch <- sentence
			}
		}
	}()

	return ch
}

var endOfSentenceRegex = regexp.MustCompile(`\n\s*|(\.|\?|!)+(\s+|$)`)

// SplitIntoSentences splits the given message at punctuation marks.
func SplitIntoSentences(msg string) []string {
	sentences := splitIntoSentences(msg)
	result := make([]string, 0, len(sentences))

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" {
			result = append(result, sentence)
		}
	}

	return result
}

// splitIntoSentences splits a given message at punctuation marks, preserving whitespaces.
func splitIntoSentences(msg string) []string {
	m := endOfSentenceRegex.FindAllStringIndex(msg, -1)
	sentences := make([]string, len(m))
	pos := 0

	for i, idx := range m {
		sentences[i] = msg[pos:idx[1]]
		pos = idx[1]
	}

	if pos < len(msg) && len(msg[pos:]) > 0 {
		sentences = append(sentences, msg[pos:])
	}

	return sentences
}
