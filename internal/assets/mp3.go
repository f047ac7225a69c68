// ABOUTME: MP3 decoder
// ABOUTME: Decodes MP3 assets to float samples via go-mp3
package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chime-audio/chime-go/internal/audio"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes a complete MP3 stream. go-mp3 always emits interleaved
// 16-bit stereo PCM.
func decodeMP3(data []byte) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 read: %w", err)
	}

	total := len(pcm) / 2
	samples := make([]float64, total)
	for i := 0; i < total; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = audio.SampleFromInt16(s)
	}

	return interleavedToBuffer(samples, 2, dec.SampleRate()), nil
}
