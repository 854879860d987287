package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitIntoSentences(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:     "whitespace",
			input:    " ",
			expected: []string{},
		},
		{
			name:     "word",
			input:    "word",
			expected: []string{"word"},
		},
		{
			name:     "domain",
			input:    "example.org",
			expected: []string{"example.org"},
		},
		{
			name:     "sentence",
			input:    "a sentence.",
			expected: []string{"a sentence."},
		},
		{
			name:     "sentences",
			input:    "A sentence... a question? Another sentence!",
			expected: []string{"A sentence...", "a question?", "Another sentence!"},
		},
		{
			name:     "newline separated",
			input:    "First line\nsecond line",
			expected: []string{"First line", "second line"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, SplitIntoSentences(tc.input))
		})
	}
}

func TestTextsToSentences(t *testing.T) {
	texts := make(chan string, 2)
	texts <- "I created the file. It contains the parser."
	texts <- "Done!"
	close(texts)

	var actual []string
	for sentence := range TextsToSentences(texts) {
		actual = append(actual, sentence)
	}

	require.Equal(t, []string{"I created the file.", "It contains the parser.", "Done!"}, actual)
}
