package stt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
)

func TestListenOnceAssemblesUtterance(t *testing.T) {
	fragments := make(chan model.TranscriptFragment, 3)
	fragments <- model.TranscriptFragment{Kind: model.FragmentInterim, Text: "hey friend"}
	fragments <- model.TranscriptFragment{Kind: model.FragmentInterim, Text: "write a test"}
	testee := &Recognizer{Fragments: fragments, Silence: 50 * time.Millisecond, Interval: 10 * time.Millisecond}

	result, err := testee.ListenOnce(context.Background(), time.Second)

	require.NoError(t, err)
	require.Equal(t, "hey friend write a test", result.Text)
	require.Len(t, result.Fragments, 3)
	require.Equal(t, model.FragmentFinal, result.Fragments[2].Kind)
	require.Equal(t, result.Text, result.Fragments[2].Text)
}

func TestListenOncePassesThroughFinalFragment(t *testing.T) {
	fragments := make(chan model.TranscriptFragment, 1)
	fragments <- model.TranscriptFragment{Kind: model.FragmentFinal, Text: "already final"}
	testee := &Recognizer{Fragments: fragments}

	result, err := testee.ListenOnce(context.Background(), time.Second)

	require.NoError(t, err)
	require.Equal(t, "already final", result.Text)
}

func TestListenOnceTimeout(t *testing.T) {
	testee := &Recognizer{Fragments: make(chan model.TranscriptFragment), Interval: 10 * time.Millisecond}

	_, err := testee.ListenOnce(context.Background(), 50*time.Millisecond)

	require.ErrorIs(t, err, ErrTimeout)
}

func TestListenOnceUnavailable(t *testing.T) {
	fragments := make(chan model.TranscriptFragment)
	close(fragments)
	testee := &Recognizer{Fragments: fragments}

	_, err := testee.ListenOnce(context.Background(), time.Second)

	require.ErrorIs(t, err, ErrUnavailable)
}

func TestListenOnceContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	testee := &Recognizer{Fragments: make(chan model.TranscriptFragment)}

	_, err := testee.ListenOnce(ctx, time.Second)

	require.ErrorIs(t, err, context.Canceled)
}
