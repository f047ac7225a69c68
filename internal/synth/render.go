// ABOUTME: Buffer rendering
// ABOUTME: Runs a sound's builder and finalizer for every channel
package synth

import "github.com/chime-audio/chime-go/internal/audio"

// Render synthesizes and finalizes a complete stereo buffer for a spec.
// Output is deterministic: the same spec and rate always produce identical
// samples.
func Render(spec *Spec, sampleRate int) *audio.Buffer {
	frames := int(spec.Duration * float64(sampleRate))
	buf := audio.NewBuffer(sampleRate, frames)
	for c := range buf.Channels {
		spec.Build(buf.Channels[c], sampleRate, c)
		Finalize(buf.Channels[c], spec, sampleRate)
	}
	return buf
}
