package tts

import (
	"context"
	"errors"
	"io"
	"log"
)

// ErrSynthesis marks TTS failures. Callers fall back to printing the text.
var ErrSynthesis = errors.New("speech synthesis failed")

type Service interface {
	GenerateAudio(ctx context.Context, msg string) (io.ReadCloser, error)
}

// GeneratedSpeech carries synthesized audio for a response text.
// WaveData is empty when synthesis failed, in which case the text is
// printed instead of spoken.
type GeneratedSpeech struct {
	Text     string
	WaveData []byte
}

// SpeechGenerator converts response texts into playable audio.
type SpeechGenerator struct {
	Service Service
}

func (g *SpeechGenerator) GenerateAudio(ctx context.Context, requests <-chan string) <-chan GeneratedSpeech {
	ch := make(chan GeneratedSpeech, 10)

	go func() {
		defer close(ch)

		for text := range requests {
			body, err := g.Service.GenerateAudio(ctx, text)
			if err != nil {
				log.Println("ERROR: generate speech:", err)
				ch <- GeneratedSpeech{Text: text}
				continue
			}

			b, err := io.ReadAll(body)
			body.Close()
			if err != nil {
				log.Println("ERROR: read speech generation response body:", err)
				ch <- GeneratedSpeech{Text: text}
				continue
			}

			ch <- GeneratedSpeech{Text: text, WaveData: b}
		}
	}()

	return ch
}
