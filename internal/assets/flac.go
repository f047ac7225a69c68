// ABOUTME: FLAC decoder
// ABOUTME: Decodes FLAC assets frame by frame via mewkiz/flac
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/mewkiz/flac"
)

// decodeFLAC decodes a complete FLAC stream.
func decodeFLAC(data []byte) (*audio.Buffer, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	var samples []float64
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame: %w", err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for c := 0; c < channels; c++ {
				samples = append(samples, audio.SampleFromInt32(frame.Subframes[c].Samples[i], bitDepth))
			}
		}
	}

	return interleavedToBuffer(samples, channels, int(info.SampleRate)), nil
}
