// ABOUTME: WAV encoding for buffer export
// ABOUTME: Serializes a buffer as a 16-bit PCM RIFF/WAVE file
package audio

import "encoding/binary"

// EncodeWAV serializes the buffer as a standard 16-bit PCM WAV file.
func EncodeWAV(b *Buffer) []byte {
	pcm := b.InterleaveInt16()
	out := make([]byte, 44+len(pcm))

	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVE")

	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:], NumChannels)
	binary.LittleEndian.PutUint32(out[24:], uint32(b.SampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(b.SampleRate*NumChannels*2))
	binary.LittleEndian.PutUint16(out[32:], NumChannels*2)
	binary.LittleEndian.PutUint16(out[34:], 16)

	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[44:], pcm)

	return out
}
