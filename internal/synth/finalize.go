// ABOUTME: Channel finalization pass
// ABOUTME: Edge fades, optional soft-clip saturation and peak normalization
package synth

import "math"

// Finalize post-processes one raw channel in place: linear edge fades,
// optional tanh saturation, then peak normalization to the spec target.
// Saturation must precede normalization so the final peak is exact.
func Finalize(ch []float64, spec *Spec, sampleRate int) {
	n := len(ch)
	if n == 0 {
		return
	}

	// Edge fades, capped at half the buffer so they never overlap on very
	// short sounds.
	fade := int(spec.EdgeFade * float64(sampleRate))
	if fade > n/2 {
		fade = n / 2
	}
	for i := 0; i < fade; i++ {
		g := float64(i) / float64(fade)
		ch[i] *= g
		ch[n-1-i] *= g
	}

	if spec.Drive > 0 {
		for i := range ch {
			ch[i] = math.Tanh(ch[i] * spec.Drive)
		}
	}

	peak := 0.0
	for _, s := range ch {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	scale := spec.TargetPeak / peak
	for i := range ch {
		ch[i] *= scale
	}
}
