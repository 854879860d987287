package tts

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeService struct {
	failFor string
}

func (s *fakeService) GenerateAudio(_ context.Context, msg string) (io.ReadCloser, error) {
	if msg == s.failFor {
		return nil, ErrSynthesis
	}

	return io.NopCloser(strings.NewReader("RIFF" + msg)), nil
}

func TestGenerateAudio(t *testing.T) {
	requests := make(chan string, 2)
	requests <- "hello"
	requests <- "world"
	close(requests)
	testee := &SpeechGenerator{Service: &fakeService{}}

	var speeches []GeneratedSpeech
	for speech := range testee.GenerateAudio(context.Background(), requests) {
		speeches = append(speeches, speech)
	}

	require.Len(t, speeches, 2, "generated speeches")
	require.Equal(t, "hello", speeches[0].Text, "text")
	require.Equal(t, []byte("RIFFhello"), speeches[0].WaveData, "wave data")
}

func TestGenerateAudioFallsBackToTextOnFailure(t *testing.T) {
	requests := make(chan string, 1)
	requests <- "unpronounceable"
	close(requests)
	testee := &SpeechGenerator{Service: &fakeService{failFor: "unpronounceable"}}

	var speeches []GeneratedSpeech
	for speech := range testee.GenerateAudio(context.Background(), requests) {
		speeches = append(speeches, speech)
	}

	require.Len(t, speeches, 1, "generated speeches")
	require.Equal(t, "unpronounceable", speeches[0].Text, "text preserved")
	require.Empty(t, speeches[0].WaveData, "no wave data")
}
