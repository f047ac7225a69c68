// ABOUTME: WAV/PCM decoder
// ABOUTME: Minimal RIFF parser for 16- and 24-bit PCM
package assets

import (
	"encoding/binary"
	"fmt"

	"github.com/chime-audio/chime-go/internal/audio"
)

// decodeWAV parses a RIFF/WAVE container holding integer PCM.
func decodeWAV(data []byte) (*audio.Buffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		channels   int
		sampleRate int
		bitDepth   int
		pcm        []byte
	)

	// Walk the chunk list.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body:])
			if format != 1 {
				return nil, fmt.Errorf("unsupported WAV format tag %d (want PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14:]))
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if channels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcm == nil {
		return nil, fmt.Errorf("missing data chunk")
	}

	bytesPer := bitDepth / 8
	switch bitDepth {
	case 16, 24:
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	total := len(pcm) / bytesPer
	samples := make([]float64, total)
	for i := 0; i < total; i++ {
		off := i * bytesPer
		if bitDepth == 16 {
			s := int16(binary.LittleEndian.Uint16(pcm[off:]))
			samples[i] = audio.SampleFromInt16(s)
		} else {
			v := int32(pcm[off]) | int32(pcm[off+1])<<8 | int32(pcm[off+2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign extend
			}
			samples[i] = audio.SampleFromInt32(v, 24)
		}
	}

	return interleavedToBuffer(samples, channels, sampleRate), nil
}
