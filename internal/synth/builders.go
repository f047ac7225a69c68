// ABOUTME: Procedural waveform builders
// ABOUTME: Additive oscillator synthesis, blip events and seeded noise beds per sound
package synth

import "math"

// hashNoise is a deterministic pseudo-random function in [0, 1). The same
// (i, seed) pair always yields the same value, which keeps every builder
// bit-for-bit reproducible.
func hashNoise(i int, seed float64) float64 {
	v := math.Sin((float64(i)+seed*13.37)*12.9898) * 43758.5453
	return v - math.Floor(v)
}

// channelSeed derives the noise seed for a channel. Different seeds per
// channel give subtle stereo decorrelation.
func channelSeed(channel int) float64 {
	return 1 + float64(channel)*7.77
}

// detune returns a tiny per-channel frequency factor so the two channels do
// not cancel when summed to mono.
func detune(channel int) float64 {
	return 1 + 0.0015*float64(channel)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// addSweep layers a sine sweep from f0 to f1 Hz across the whole buffer.
// harmonics holds weights for overtones at integer multiples starting at 2x.
// Phase is accumulated incrementally so a moving frequency never produces a
// discontinuity.
func addSweep(dst []float64, rate int, f0, f1, amp float64, harmonics []float64) {
	n := len(dst)
	if n == 0 {
		return
	}
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		f := f0 + (f1-f0)*t
		phase += 2 * math.Pi * f / float64(rate)
		s := math.Sin(phase)
		for h, w := range harmonics {
			if w != 0 {
				s += w * math.Sin(phase*float64(h+2))
			}
		}
		dst[i] += amp * s
	}
}

// addBlip layers a short percussive tone at a start offset (seconds) with a
// sin(pi*x)^envPower amplitude envelope over its local duration.
func addBlip(dst []float64, rate int, start, dur, freq, amp, envPower float64) {
	begin := int(start * float64(rate))
	count := int(dur * float64(rate))
	if count <= 0 {
		return
	}
	phase := 0.0
	for i := 0; i < count; i++ {
		idx := begin + i
		if idx < 0 || idx >= len(dst) {
			continue
		}
		ratio := clamp01(float64(i) / float64(count))
		env := math.Pow(math.Sin(math.Pi*ratio), envPower)
		phase += 2 * math.Pi * freq / float64(rate)
		dst[idx] += amp * env * math.Sin(phase)
	}
}

// addNoiseBed layers broadband noise modulated by a slow periodic pulse.
func addNoiseBed(dst []float64, rate int, amp, pulseHz, seed float64) {
	for i := range dst {
		t := float64(i) / float64(rate)
		n := hashNoise(i, seed)*2 - 1
		pulse := 0.6 + 0.4*math.Sin(2*math.Pi*pulseHz*t)
		dst[i] += amp * n * pulse
	}
}

// addDecay multiplies the buffer by an exponential decay envelope. k is the
// number of time constants across the buffer.
func addDecay(dst []float64, k float64) {
	n := len(dst)
	for i := range dst {
		dst[i] *= math.Exp(-k * float64(i) / float64(n))
	}
}

// tone is one event of a multi-tone sound, layered additively.
type tone struct {
	start     float64 // seconds
	dur       float64 // seconds
	freq      float64 // Hz
	amp       float64
	harmonics []float64
}

// addTone layers a tone event with a soft sin^0.7 envelope.
func addTone(dst []float64, rate int, tn tone) {
	begin := int(tn.start * float64(rate))
	count := int(tn.dur * float64(rate))
	if count <= 0 {
		return
	}
	phase := 0.0
	for i := 0; i < count; i++ {
		idx := begin + i
		if idx < 0 || idx >= len(dst) {
			continue
		}
		ratio := clamp01(float64(i) / float64(count))
		env := math.Pow(math.Sin(math.Pi*ratio), 0.7)
		phase += 2 * math.Pi * tn.freq / float64(rate)
		s := math.Sin(phase)
		for h, w := range tn.harmonics {
			if w != 0 {
				s += w * math.Sin(phase*float64(h+2))
			}
		}
		dst[idx] += tn.amp * env * s
	}
}

func buildPickup(dst []float64, rate, channel int) {
	d := detune(channel)
	addBlip(dst, rate, 0.00, 0.10, 988*d, 0.8, 1.5)
	addBlip(dst, rate, 0.08, 0.18, 1319*d, 1.0, 1.2)
	addNoiseBed(dst, rate, 0.02, 18, channelSeed(channel))
}

func buildLaser(dst []float64, rate, channel int) {
	d := detune(channel)
	addSweep(dst, rate, 1800*d, 320*d, 0.9, []float64{0.45})
	addNoiseBed(dst, rate, 0.06, 60, channelSeed(channel))
	addDecay(dst, 2.5)
}

func buildExplosion(dst []float64, rate, channel int) {
	d := detune(channel)
	addNoiseBed(dst, rate, 1.0, 7, channelSeed(channel))
	addSweep(dst, rate, 220*d, 36*d, 0.9, []float64{0.5, 0.3})
	addDecay(dst, 4.5)
}

func buildHit(dst []float64, rate, channel int) {
	d := detune(channel)
	addSweep(dst, rate, 210*d, 70*d, 1.0, []float64{0.4})
	addNoiseBed(dst, rate, 0.55, 30, channelSeed(channel))
	addDecay(dst, 5)
}

func buildPowerup(dst []float64, rate, channel int) {
	d := detune(channel)
	addSweep(dst, rate, 320*d, 1280*d, 0.7, []float64{0.5, 0.25})
	addBlip(dst, rate, 0.30, 0.14, 1568*d, 0.6, 1.3)
	addNoiseBed(dst, rate, 0.02, 12, channelSeed(channel))
}

func buildWarning(dst []float64, rate, channel int) {
	d := detune(channel)
	// Two alternating tones, square-ish via odd harmonics.
	addBlip(dst, rate, 0.00, 0.15, 740*d, 0.9, 0.8)
	addBlip(dst, rate, 0.17, 0.15, 587*d, 0.9, 0.8)
	addSweep(dst, rate, 740*d, 740*d, 0.12, []float64{0, 0.3, 0, 0.15})
}

func buildClick(dst []float64, rate, channel int) {
	addBlip(dst, rate, 0, 0.05, 1900*detune(channel), 1.0, 2.2)
	addNoiseBed(dst, rate, 0.15, 90, channelSeed(channel))
	addDecay(dst, 6)
}

func buildVictory(dst []float64, rate, channel int) {
	d := detune(channel)
	bright := []float64{0.5, 0.3, 0.15}
	events := []tone{
		{start: 0.00, dur: 0.22, freq: 523.25 * d, amp: 0.8, harmonics: bright},
		{start: 0.20, dur: 0.22, freq: 659.25 * d, amp: 0.8, harmonics: bright},
		{start: 0.40, dur: 0.22, freq: 783.99 * d, amp: 0.8, harmonics: bright},
		{start: 0.60, dur: 0.50, freq: 1046.50 * d, amp: 0.9, harmonics: bright},
		// Closing chord.
		{start: 1.15, dur: 0.70, freq: 523.25 * d, amp: 0.55, harmonics: bright},
		{start: 1.15, dur: 0.70, freq: 659.25 * d, amp: 0.55, harmonics: bright},
		{start: 1.15, dur: 0.70, freq: 783.99 * d, amp: 0.55, harmonics: bright},
		{start: 1.15, dur: 0.70, freq: 1046.50 * d, amp: 0.65, harmonics: bright},
	}
	for _, tn := range events {
		addTone(dst, rate, tn)
	}
	addNoiseBed(dst, rate, 0.015, 10, channelSeed(channel))
}

func buildGameover(dst []float64, rate, channel int) {
	d := detune(channel)
	events := []tone{
		{start: 0.00, dur: 0.30, freq: 440.00 * d, amp: 0.8, harmonics: []float64{0.4}},
		{start: 0.30, dur: 0.30, freq: 392.00 * d, amp: 0.8, harmonics: []float64{0.4}},
		{start: 0.60, dur: 0.65, freq: 329.63 * d, amp: 0.9, harmonics: []float64{0.4, 0.2}},
	}
	for _, tn := range events {
		addTone(dst, rate, tn)
	}
	addSweep(dst, rate, 220*d, 110*d, 0.25, []float64{0.3})
	addNoiseBed(dst, rate, 0.04, 4, channelSeed(channel))
}

func buildBackground(dst []float64, rate, channel int) {
	d := detune(channel)
	addSweep(dst, rate, 55*d, 55*d, 0.8, []float64{0.45, 0.22, 0.12})
	addSweep(dst, rate, 82.5*d, 82.5*d, 0.35, []float64{0.3})
	addNoiseBed(dst, rate, 0.14, 0.5, channelSeed(channel))
	// Sparse shimmer blips for texture.
	addBlip(dst, rate, 0.9, 0.7, 660*d, 0.10, 2)
	addBlip(dst, rate, 2.6, 0.8, 880*d, 0.08, 2)
}

func buildMachines(dst []float64, rate, channel int) {
	d := detune(channel)
	addSweep(dst, rate, 120*d, 120*d, 0.6, []float64{0.5, 0, 0.25})
	addNoiseBed(dst, rate, 0.5, 9, channelSeed(channel))
	addBlip(dst, rate, 0.6, 0.1, 240*d, 0.3, 1.5)
	addBlip(dst, rate, 1.8, 0.1, 240*d, 0.3, 1.5)
}
