package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/trigger"
)

func newTestSegmenter(onTrigger func(string)) *Segmenter {
	return &Segmenter{
		Matcher: &trigger.Matcher{
			Vocabulary: trigger.DefaultVocabulary(),
			Patterns:   trigger.DefaultCompoundPatterns(),
		},
		Accumulator: &trigger.Accumulator{Vocabulary: trigger.DefaultVocabulary()},
		OnTrigger:   onTrigger,
	}
}

func interim(text string) model.TranscriptFragment {
	return model.TranscriptFragment{Kind: model.FragmentInterim, Text: text}
}

func final(text string) model.TranscriptFragment {
	return model.TranscriptFragment{Kind: model.FragmentFinal, Text: text}
}

func TestSegmenterFullCycle(t *testing.T) {
	announced := 0
	testee := newTestSegmenter(func(string) { announced++ })

	command := "hey friend can you help me write a script"
	for _, text := range []string{"hey", "hey friend", "hey friend can", command} {
		result, done := testee.Ingest(interim(text))
		require.False(t, done)
		require.Empty(t, result.Command)
	}
	require.Equal(t, TriggerArmed, testee.State())

	result, done := testee.Ingest(final(command))

	require.True(t, done)
	require.Equal(t, command, result.Command)
	require.True(t, result.Triggered)
	require.Equal(t, 1, announced, "trigger should be announced exactly once per cycle")
	require.Equal(t, Idle, testee.State())
}

func TestSegmenterBackScan(t *testing.T) {
	testee := newTestSegmenter(nil)

	for _, text := range []string{"hey", "friend can you", "help me write"} {
		testee.Ingest(interim(text))
	}

	result, done := testee.Ingest(final("a function"))

	require.True(t, done)
	require.Equal(t, "help me write a function", result.Command)
	require.True(t, result.Triggered)
}

func TestSegmenterBackScanDeduplicates(t *testing.T) {
	testee := newTestSegmenter(nil)

	for _, text := range []string{"let's code", "writing a", "writing a parser"} {
		testee.Ingest(interim(text))
	}

	result, done := testee.Ingest(final("for me"))

	require.True(t, done)
	require.Equal(t, "let's code writing a parser for me", result.Command)
	require.True(t, result.Triggered)
}

func TestSegmenterStaleTrigger(t *testing.T) {
	testee := newTestSegmenter(nil)

	fragments := []string{"hey friend", "one", "two", "three", "four", "five"}
	for _, text := range fragments {
		testee.Ingest(interim(text))
	}

	result, done := testee.Ingest(final("just rambling on"))

	require.True(t, done)
	require.Equal(t, "just rambling on", result.Command, "trigger older than the back-scan window must be ignored")
}

func TestSegmenterNoTrigger(t *testing.T) {
	testee := newTestSegmenter(nil)

	testee.Ingest(interim("the weather"))
	testee.Ingest(interim("is nice"))

	result, done := testee.Ingest(final("indeed"))

	require.True(t, done)
	require.Equal(t, "indeed", result.Command)
	require.False(t, result.Triggered)
	require.Equal(t, Idle, testee.State())
}

func TestSegmenterAnnouncesAgainInNextCycle(t *testing.T) {
	announced := 0
	testee := newTestSegmenter(func(string) { announced++ })

	for i := 0; i < 2; i++ {
		testee.Ingest(interim("hey friend"))
		testee.Ingest(interim("hey friend do something"))
		testee.Ingest(final("hey friend do something"))
	}

	require.Equal(t, 2, announced)
}

func TestSegmenterSegmentChannel(t *testing.T) {
	testee := newTestSegmenter(nil)

	fragments := make(chan model.TranscriptFragment, 6)
	fragments <- interim("hey friend")
	fragments <- final("hey friend please write a test")
	fragments <- interim("the weather")
	fragments <- final("is nice")
	close(fragments)

	results := testee.Segment(fragments)

	first := <-results
	require.Equal(t, "hey friend please write a test", first.Command)
	require.True(t, first.Triggered)

	second := <-results
	require.Equal(t, "is nice", second.Command)
	require.False(t, second.Triggered)

	_, open := <-results
	require.False(t, open)
}
