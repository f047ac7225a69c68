// ABOUTME: Decoder dispatch for retrieved assets
// ABOUTME: Routes raw bytes to the right codec by file extension
package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chime-audio/chime-go/internal/audio"
)

// Decode converts raw asset bytes to a stereo buffer at the target rate.
// The codec is chosen by file extension. Failures are *DecodeError.
func Decode(path string, data []byte, targetRate int) (*audio.Buffer, error) {
	var (
		buf *audio.Buffer
		err error
	)

	switch ext := extension(path); ext {
	case ".wav":
		buf, err = decodeWAV(data)
	case ".mp3":
		buf, err = decodeMP3(data)
	case ".flac":
		buf, err = decodeFLAC(data)
	case ".ogg", ".opus":
		buf, err = decodeOpus(data)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if buf.Frames() == 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("empty audio stream")}
	}
	return audio.Resample(buf, targetRate), nil
}

// extension returns the lower-cased file extension, ignoring any query string
func extension(path string) string {
	path = strings.Split(path, "?")[0]
	return strings.ToLower(filepath.Ext(path))
}

// interleavedToBuffer converts interleaved samples to a stereo buffer.
// Mono input is duplicated to both channels; extra channels are dropped.
func interleavedToBuffer(samples []float64, channels, sampleRate int) *audio.Buffer {
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	buf := audio.NewBuffer(sampleRate, frames)
	for i := 0; i < frames; i++ {
		left := samples[i*channels]
		right := left
		if channels > 1 {
			right = samples[i*channels+1]
		}
		buf.Channels[0][i] = left
		buf.Channels[1][i] = right
	}
	return buf
}
