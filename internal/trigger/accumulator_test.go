package trigger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulatorCapacity(t *testing.T) {
	testee := &Accumulator{Vocabulary: DefaultVocabulary()}

	for _, tc := range []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "empty",
			input:    "",
			expected: 30,
		},
		{
			name:     "short plain text",
			input:    "hi there",
			expected: 30,
		},
		{
			name:     "medium length",
			input:    strings.Repeat("za ", 50),
			expected: 35,
		},
		{
			name:     "long complex text with many triggers",
			input:    strings.Repeat("friend, help me with this project; ok. ", 16),
			expected: 80,
		},
		{
			name:     "single trigger occurrence",
			input:    "a friend is here",
			expected: 35,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, testee.Capacity(tc.input))
		})
	}
}

func TestAccumulatorCapacityClampedToMax(t *testing.T) {
	testee := &Accumulator{Base: 80, Vocabulary: DefaultVocabulary()}
	input := strings.Repeat("friend, help me with this project; ok. ", 16)

	require.Equal(t, 100, testee.Capacity(input))
}

func TestAccumulatorAppendTruncatesOldest(t *testing.T) {
	testee := &Accumulator{Base: 3, Max: 3}

	for _, fragment := range []string{"a", "b", "c", "d", "e"} {
		testee.Append(fragment)
	}
	combined := testee.Append("f")

	require.Equal(t, "d e f", combined)
	require.Equal(t, []string{"d", "e", "f"}, testee.Buffer())
}

func TestAccumulatorReset(t *testing.T) {
	testee := &Accumulator{}
	testee.Append("hello")
	testee.Append("world")

	testee.Reset()

	require.Empty(t, testee.Buffer())
	require.Equal(t, "again", testee.Append("again"))
}

func TestDeduplicate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "empty",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "growing partial transcripts",
			input:    []string{"hey", "hey friend", "hey friend can you", "do it"},
			expected: []string{"hey friend can you", "do it"},
		},
		{
			name:     "no duplicates",
			input:    []string{"run tests", "ok", "try again"},
			expected: []string{"run tests", "ok", "try again"},
		},
		{
			name:     "only adjacent successor considered",
			input:    []string{"hey", "something else", "hey friend"},
			expected: []string{"hey", "something else", "hey friend"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Deduplicate(tc.input))
		})
	}
}
