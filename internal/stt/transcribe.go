package stt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-audio/audio"

	audioconv "github.com/mgoltzsche/voice-code-assistant/internal/audio"
	"github.com/mgoltzsche/voice-code-assistant/internal/model"
)

var (
	// ErrTimeout indicates that no final transcript arrived within the
	// listen budget. Callers recover by retrying the listen cycle.
	ErrTimeout = errors.New("recognition timed out")
	// ErrUnavailable indicates that the speech engine is missing or failed.
	ErrUnavailable = errors.New("speech recognition unavailable")
)

type Service interface {
	Transcribe(ctx context.Context, wavData []byte) (string, error)
}

// Transcriber converts captured speech buffers into interim transcript
// fragments.
type Transcriber struct {
	Service Service
}

// Transcribe transcribes the provided speech to text.
func (t *Transcriber) Transcribe(ctx context.Context, input <-chan audio.Buffer) <-chan model.TranscriptFragment {
	ch := make(chan model.TranscriptFragment, 10)

	go func() {
		defer close(ch)

		for audioBuffer := range input {
			wavData, err := audioconv.BufferToRiffWav(audioBuffer)
			if err != nil {
				log.Println(fmt.Errorf("encode captured audio: %w", err))
				continue
			}

			text, err := t.Service.Transcribe(ctx, wavData)
			if err != nil {
				log.Println(fmt.Errorf("failed to transcribe: %w", err))
				continue
			}

			text = strings.TrimSuffix(text, "[BLANK_AUDIO]")

			if strings.TrimSpace(text) != "" {
				ch <- model.TranscriptFragment{Kind: model.FragmentInterim, Text: text}
			}
		}
	}()

	return ch
}
