package vad

import (
	"fmt"
	"log"
	"time"

	"github.com/go-audio/audio"
	"github.com/streamer45/silero-vad-go/speech"
)

const (
	DefaultSampleRate = 16000
	DefaultThreshold  = 0.5
)

// Detector drops captured audio buffers that contain no speech, so that
// silence and background noise never reach the transcriber.
type Detector struct {
	ModelPath string
	// SampleRate of the incoming audio, default 16000.
	SampleRate int
	// Threshold is the speech probability cutoff, default 0.5.
	Threshold float32
}

// DetectVoiceActivity filters the audio input channel down to buffers
// with detected voice activity.
func (d *Detector) DetectVoiceActivity(input <-chan audio.Buffer) (<-chan audio.Buffer, error) {
	sampleRate := d.SampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	threshold := d.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	sileroVAD, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            d.ModelPath,
		SampleRate:           sampleRate,
		Threshold:            threshold,
		MinSilenceDurationMs: 0,
		SpeechPadMs:          0,
	})
	if err != nil {
		return input, fmt.Errorf("create silero vad: %w", err)
	}

	ch := make(chan audio.Buffer, 10)

	go func() {
		defer func() {
			if err := sileroVAD.Destroy(); err != nil {
				log.Printf("WARNING: destroy silero vad: %v\n", err)
			}
			close(ch)
		}()

		for audioBuffer := range input {
			start := time.Now()
			segments, err := sileroVAD.Detect(audioBuffer.AsFloat32Buffer().Data)
			if err != nil {
				log.Println("WARNING: detect voice:", err)
				continue
			}
			detected := len(segments) > 0
			log.Printf("voice activity detected: %v (took %s)\n", detected, time.Since(start))

			if detected {
				ch <- audioBuffer
			}
		}
	}()

	return ch, nil
}
