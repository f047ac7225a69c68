// ABOUTME: Core audio buffer and format types
// ABOUTME: Defines multi-channel float sample buffers and PCM conversion helpers
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// NumChannels is the fixed channel count for every buffer (stereo).
	NumChannels = 2

	// DefaultSampleRate is the engine-wide sample rate in Hz.
	DefaultSampleRate = 44100
)

// Format describes decoded audio data
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds decoded or synthesized PCM as per-channel float64 samples.
// All channels have equal length. A Buffer is immutable once finalized;
// playback voices hold a non-owning reference.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NewBuffer allocates a stereo buffer with the given frame count
func NewBuffer(sampleRate, frames int) *Buffer {
	chans := make([][]float64, NumChannels)
	for c := range chans {
		chans[c] = make([]float64, frames)
	}
	return &Buffer{SampleRate: sampleRate, Channels: chans}
}

// Frames returns the per-channel sample count
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// InterleaveInt16 converts the buffer to interleaved 16-bit little-endian PCM
func (b *Buffer) InterleaveInt16() []byte {
	frames := b.Frames()
	out := make([]byte, frames*NumChannels*2)
	for i := 0; i < frames; i++ {
		for c := 0; c < NumChannels; c++ {
			s := SampleToInt16(b.Channels[c][i])
			binary.LittleEndian.PutUint16(out[(i*NumChannels+c)*2:], uint16(s))
		}
	}
	return out
}

// SampleToInt16 converts a float sample in [-1, 1] to 16-bit PCM, clamping
// out-of-range values
func SampleToInt16(s float64) int16 {
	if s > 1 {
		s = 1
	}
	if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// SampleFromInt16 converts a 16-bit PCM sample to float in [-1, 1]
func SampleFromInt16(s int16) float64 {
	return float64(s) / 32768
}

// SampleFromInt32 converts an int32 PCM sample with the given bit depth to
// float in [-1, 1]
func SampleFromInt32(s int32, bitDepth int) float64 {
	return float64(s) / math.Pow(2, float64(bitDepth-1))
}

// Resample converts src to the target rate by linear interpolation. Returns
// src unchanged when the rates already match.
func Resample(src *Buffer, targetRate int) *Buffer {
	if src.SampleRate == targetRate || src.SampleRate == 0 {
		return src
	}

	srcFrames := src.Frames()
	dstFrames := int(float64(srcFrames) * float64(targetRate) / float64(src.SampleRate))
	dst := NewBuffer(targetRate, dstFrames)

	ratio := float64(src.SampleRate) / float64(targetRate)
	for c := range dst.Channels {
		for i := 0; i < dstFrames; i++ {
			pos := float64(i) * ratio
			i0 := int(pos)
			if i0 >= srcFrames-1 {
				dst.Channels[c][i] = src.Channels[c][srcFrames-1]
				continue
			}
			frac := pos - float64(i0)
			dst.Channels[c][i] = src.Channels[c][i0]*(1-frac) + src.Channels[c][i0+1]*frac
		}
	}
	return dst
}
