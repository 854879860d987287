package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/gordonklaus/portaudio"
)

// captureBufferSize is the number of 16-bit frames read from the device
// per iteration.
const captureBufferSize = 512 * 9

// Input captures microphone audio and groups it into utterance-sized
// buffers: recording accumulates while the measured volume stays above
// MinVolume and a buffer is emitted after MinDelay of silence or once
// MaxDuration is reached.
type Input struct {
	Device      string
	SampleRate  int
	Channels    int
	MinVolume   int
	MinDelay    time.Duration
	MaxDuration time.Duration
}

// RecordAudio opens the audio input device and emits buffers into the
// returned channel until the context is cancelled.
func (i *Input) RecordAudio(ctx context.Context) (<-chan audio.Buffer, error) {
	device, err := inputDevice(i.Device)
	if err != nil {
		return nil, err
	}

	in := make([]int16, captureBufferSize)
	audioStream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: i.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      device.DefaultSampleRate,
		FramesPerBuffer: len(in),
	}, &in)
	if err != nil {
		return nil, fmt.Errorf("opening audio input stream: %w", err)
	}

	err = audioStream.Start()
	if err != nil {
		return nil, fmt.Errorf("starting audio input stream: %w", err)
	}

	ch := make(chan audio.Buffer, 5)

	go func() {
		defer close(ch)

		var lastHeard time.Time
		buffer := make([]int16, 0, captureBufferSize)

		for {
			select {
			case <-ctx.Done():
				if err := audioStream.Stop(); err != nil {
					slog.Warn("failed to stop input audio stream", "err", err)
				}
				if err := audioStream.Close(); err != nil {
					slog.Warn("failed to close input audio stream", "err", err)
				}
				return
			default:
				if err := audioStream.Read(); err != nil {
					if err == portaudio.InputOverflowed {
						slog.Warn("audio input overflowed - dropped samples")
					} else {
						slog.Warn("failed to read audio stream", "err", err)
					}
					continue
				}

				if int(calculateRMS16(in)) > i.MinVolume {
					lastHeard = time.Now()
				}

				recorded := time.Duration(math.Ceil(float64(len(buffer)+len(in))/device.DefaultSampleRate)) * time.Second

				if time.Since(lastHeard) < i.MinDelay && recorded < i.MaxDuration {
					buffer = append(buffer, in...)
				} else if len(buffer) > 0 {
					buffer = resampleInt16(buffer, int(device.DefaultSampleRate), i.SampleRate)
					ch <- &audio.IntBuffer{
						Format:         &audio.Format{SampleRate: i.SampleRate, NumChannels: i.Channels},
						Data:           int16ToInt(buffer),
						SourceBitDepth: 16,
					}

					buffer = buffer[:0]
				}
			}
		}
	}()

	return ch, nil
}

// calculateRMS16 is the root mean square of the buffer, used as the
// volume measure.
func calculateRMS16(buffer []int16) float64 {
	var sumSquares float64
	for _, sample := range buffer {
		val := float64(sample)
		sumSquares += val * val
	}
	return math.Sqrt(sumSquares / float64(len(buffer)))
}

func int16ToInt(input []int16) []int {
	output := make([]int, len(input))
	for i, value := range input {
		output[i] = int(value)
	}
	return output
}
