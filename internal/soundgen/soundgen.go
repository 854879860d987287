package soundgen

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

// Tone identifies one of the generated feedback sounds.
type Tone string

const (
	// ToneRegular is the plain acknowledgement beep.
	ToneRegular Tone = "regular"
	// ToneRising signals that a trigger phrase was detected.
	ToneRising Tone = "rising"
	// ToneFalling signals an error.
	ToneFalling Tone = "falling"
	// ToneDouble signals that a request was submitted to the executor.
	ToneDouble Tone = "double"
	// ToneChord signals completion.
	ToneChord Tone = "chord"
	// ToneTwoTone is the background notification sound.
	ToneTwoTone Tone = "two-tone"
)

// fade ramps sample amplitude in and out to avoid clicks.
const fade = 5 * time.Millisecond

// Generator synthesizes the feedback beeps as RIFF WAV data.
type Generator struct {
	SampleRate int

	cache map[Tone][]byte
}

// Generate returns the WAV data for the given tone. Sounds are generated
// once and cached.
func (g *Generator) Generate(tone Tone) ([]byte, error) {
	if data, ok := g.cache[tone]; ok {
		return data, nil
	}

	var samples []int

	switch tone {
	case ToneRegular:
		samples = g.sine(500, 300*time.Millisecond)
	case ToneRising:
		samples = g.sweep(400, 800, 250*time.Millisecond)
	case ToneFalling:
		samples = g.sweep(800, 400, 250*time.Millisecond)
	case ToneDouble:
		samples = g.sine(600, 120*time.Millisecond)
		samples = append(samples, g.silence(60*time.Millisecond)...)
		samples = append(samples, g.sine(600, 120*time.Millisecond)...)
	case ToneChord:
		samples = g.chord([]float64{523.25, 659.25, 783.99}, 400*time.Millisecond)
	case ToneTwoTone:
		samples = g.sine(440, 150*time.Millisecond)
		samples = append(samples, g.sine(660, 150*time.Millisecond)...)
	default:
		return nil, fmt.Errorf("generate sound: unknown tone %q", tone)
	}

	data, err := g.encodeWav(samples)
	if err != nil {
		return nil, fmt.Errorf("generate %s sound: %w", tone, err)
	}

	if g.cache == nil {
		g.cache = map[Tone][]byte{}
	}
	g.cache[tone] = data

	return data, nil
}

func (g *Generator) sine(frequency float64, duration time.Duration) []int {
	return g.chord([]float64{frequency}, duration)
}

func (g *Generator) chord(frequencies []float64, duration time.Duration) []int {
	data := make([]int, g.sampleCount(duration))
	amplitude := 32767.0 / float64(len(frequencies))

	for i := range data {
		var value float64
		for _, frequency := range frequencies {
			phase := frequency * float64(i) / float64(g.SampleRate)
			value += math.Sin(2*math.Pi*phase) * amplitude
		}
		data[i] = int(value)
	}

	return g.faded(data)
}

// sweep generates a tone whose frequency changes linearly, accumulating
// the phase so that the transition stays continuous.
func (g *Generator) sweep(from, to float64, duration time.Duration) []int {
	data := make([]int, g.sampleCount(duration))
	phase := 0.0

	for i := range data {
		progress := float64(i) / float64(len(data))
		frequency := from + (to-from)*progress
		phase += frequency / float64(g.SampleRate)

		data[i] = int(math.Sin(2*math.Pi*phase) * 32767)
	}

	return g.faded(data)
}

func (g *Generator) silence(duration time.Duration) []int {
	return make([]int, g.sampleCount(duration))
}

func (g *Generator) sampleCount(duration time.Duration) int {
	return int(math.Ceil(float64(duration) * float64(g.SampleRate) / float64(time.Second)))
}

func (g *Generator) faded(data []int) []int {
	ramp := g.sampleCount(fade)
	if ramp*2 > len(data) {
		return data
	}

	for i := 0; i < ramp; i++ {
		factor := float64(i) / float64(ramp)
		data[i] = int(float64(data[i]) * factor)
		data[len(data)-1-i] = int(float64(data[len(data)-1-i]) * factor)
	}

	return data
}

func (g *Generator) encodeWav(samples []int) ([]byte, error) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: g.SampleRate, NumChannels: 1},
		Data:           samples,
		SourceBitDepth: 16,
	}

	wavFile := &writerseeker.WriterSeeker{}
	encoder := wav.NewEncoder(wavFile, buf.Format.SampleRate, 16, 1, 1)

	if err := encoder.Write(buf.AsIntBuffer()); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}

	b, err := io.ReadAll(wavFile.Reader())
	if err != nil {
		return nil, fmt.Errorf("read generated wav: %w", err)
	}

	return b, nil
}
