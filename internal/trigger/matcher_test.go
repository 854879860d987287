package trigger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcherMatches(t *testing.T) {
	testee := &Matcher{
		Vocabulary: DefaultVocabulary(),
		Patterns:   DefaultCompoundPatterns(),
	}

	for _, tc := range []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "empty",
			input:    "",
			expected: false,
		},
		{
			name:     "whitespace",
			input:    "   ",
			expected: false,
		},
		{
			name:     "bare greeting",
			input:    "hello",
			expected: false,
		},
		{
			name:     "bare greeting with casing and whitespace",
			input:    "  Okay  ",
			expected: false,
		},
		{
			name:     "bare greeting hey",
			input:    "HEY",
			expected: false,
		},
		{
			name:     "single trigger word alone",
			input:    "friend",
			expected: false,
		},
		{
			name:     "trigger word in two-word utterance",
			input:    "a friend",
			expected: false,
		},
		{
			name:     "greeting plus trigger request",
			input:    "Hey friend, can you help?",
			expected: true,
		},
		{
			name:     "greeting and trigger stem adjacency",
			input:    "hey friend",
			expected: true,
		},
		{
			name:     "multi-word variation",
			input:    "Let's code something interesting",
			expected: true,
		},
		{
			name:     "action triplet",
			input:    "Help me with writing a function",
			expected: true,
		},
		{
			name:     "polite request",
			input:    "Could you please analyze this code?",
			expected: true,
		},
		{
			name:     "i need help triplet",
			input:    "I need help with this error message",
			expected: true,
		},
		{
			name:     "no trigger",
			input:    "I need some general advice",
			expected: false,
		},
		{
			name:     "embedded trigger in longer sentence",
			input:    "I want to code with a friend",
			expected: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, testee.Matches(tc.input))
		})
	}
}

func TestMatcherCanonicalWholeWord(t *testing.T) {
	testee := &Matcher{Vocabulary: NewVocabulary(map[string][]string{"calmhive": nil})}

	require.Equal(t, 1.0, testee.Confidence("ok calmhive please write a function"))
	require.True(t, testee.Matches("ok calmhive please write a function"))
}

func TestMatcherSequentialPhrase(t *testing.T) {
	testee := &Matcher{
		Vocabulary: NewVocabulary(map[string][]string{"codehelper": {"let's code"}}),
	}

	for _, tc := range []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "in-order sequence",
			input:    "let's code now",
			expected: true,
		},
		{
			name:     "reversed word order",
			input:    "code, let's",
			expected: false,
		},
		{
			name:     "interleaved words",
			input:    "let's go and code",
			expected: false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, testee.Matches(tc.input))
		})
	}
}

func TestMatcherFuzzyPrefix(t *testing.T) {
	testee := &Matcher{Vocabulary: NewVocabulary(map[string][]string{"claude": nil})}

	// "claud" shares 5 of 6 prefix characters: 5/6*0.8 > 0.6.
	require.True(t, testee.Matches("claud write some code"))
	// "clau" only shares 4: 4/6*0.8 < 0.6.
	require.False(t, testee.Matches("clau write some code"))
	// Fuzzy matching requires at least three words.
	require.False(t, testee.Matches("claud write"))
}

func TestMatcherEmbeddedVariation(t *testing.T) {
	testee := &Matcher{Vocabulary: NewVocabulary(map[string][]string{"friend": nil})}

	// Embedded (non-boundary) occurrence scores 0.7.
	require.InDelta(t, 0.7, testee.Confidence("she unfriended me yesterday"), 0.001)
	// Word-boundary occurrence scores 0.9.
	require.InDelta(t, 0.9, testee.Confidence("my friend, please assist here"), 0.001)
}

func TestNewVocabularyContainsCanonicals(t *testing.T) {
	v := NewVocabulary(map[string][]string{
		"code":   {"code helper"},
		"friend": {"friend", "fren"},
	})

	require.ElementsMatch(t, []string{"code", "code helper"}, v["code"])
	require.ElementsMatch(t, []string{"friend", "fren"}, v["friend"])
}
