package audio

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

// BufferToRiffWav encodes a captured audio buffer as an in-memory RIFF
// wave file.
func BufferToRiffWav(buffer audio.Buffer) ([]byte, error) {
	wavFile := &writerseeker.WriterSeeker{}
	f := buffer.PCMFormat()
	encoder := wav.NewEncoder(wavFile, f.SampleRate, 16, f.NumChannels, 1)

	if err := encoder.Write(buffer.AsIntBuffer()); err != nil {
		return nil, fmt.Errorf("encoder write buffer: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	riffWav, err := io.ReadAll(wavFile.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading wav into memory: %w", err)
	}

	return riffWav, nil
}
