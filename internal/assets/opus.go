// ABOUTME: Ogg/Opus decoder
// ABOUTME: Decodes Ogg-contained Opus assets via hraban/opus streams
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/chime-audio/chime-go/internal/audio"
	opus "gopkg.in/hraban/opus.v2"
)

// Opus always decodes at 48kHz; stereo assets are assumed. Mono streams
// still decode correctly because the frame count comes from the decoder.
const (
	opusRate     = 48000
	opusChannels = 2
)

// decodeOpus decodes an Ogg/Opus stream.
func decodeOpus(data []byte) (*audio.Buffer, error) {
	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opus: %w", err)
	}
	defer stream.Close()

	var samples []float64
	pcm := make([]int16, 16384)
	for {
		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus read: %w", err)
		}
		for _, s := range pcm[:n*opusChannels] {
			samples = append(samples, audio.SampleFromInt16(s))
		}
	}

	return interleavedToBuffer(samples, opusChannels, opusRate), nil
}
