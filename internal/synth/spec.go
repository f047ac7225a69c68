// ABOUTME: Sound specification table
// ABOUTME: Maps sound names to durations, finalization targets and builder functions
package synth

import (
	"sort"
	"time"
)

// BuilderFunc fills dst with raw samples for one channel. Samples may exceed
// ±1; Finalize brings them to the target level. channel is 0 or 1 and feeds
// stereo decorrelation.
type BuilderFunc func(dst []float64, sampleRate, channel int)

// Spec describes one sound: how long it is, how it is finalized, and which
// builder synthesizes it.
type Spec struct {
	Name       string
	Duration   float64 // seconds
	EdgeFade   float64 // seconds, applied to both ends
	TargetPeak float64 // peak amplitude after normalization
	Drive      float64 // tanh saturation drive, 0 = off
	Loop       bool
	Cooldown   time.Duration // minimum gap between accepted plays, 0 = none
	Build      BuilderFunc
}

// Library is the static sound table, registered once and never mutated.
var Library = map[string]*Spec{
	"pickup":     {Name: "pickup", Duration: 0.28, EdgeFade: 0.01, TargetPeak: 0.90, Build: buildPickup},
	"laser":      {Name: "laser", Duration: 0.12, EdgeFade: 0.008, TargetPeak: 0.90, Build: buildLaser},
	"explosion":  {Name: "explosion", Duration: 0.70, EdgeFade: 0.02, TargetPeak: 0.90, Drive: 2.5, Build: buildExplosion},
	"hit":        {Name: "hit", Duration: 0.20, EdgeFade: 0.01, TargetPeak: 0.90, Drive: 1.8, Build: buildHit},
	"powerup":    {Name: "powerup", Duration: 0.45, EdgeFade: 0.01, TargetPeak: 0.90, Build: buildPowerup},
	"warning":    {Name: "warning", Duration: 0.35, EdgeFade: 0.012, TargetPeak: 0.85, Cooldown: 3 * time.Second, Build: buildWarning},
	"click":      {Name: "click", Duration: 0.06, EdgeFade: 0.004, TargetPeak: 0.80, Build: buildClick},
	"victory":    {Name: "victory", Duration: 1.90, EdgeFade: 0.03, TargetPeak: 0.90, Build: buildVictory},
	"gameover":   {Name: "gameover", Duration: 1.30, EdgeFade: 0.03, TargetPeak: 0.90, Build: buildGameover},
	"background": {Name: "background", Duration: 4.00, EdgeFade: 0.05, TargetPeak: 0.55, Loop: true, Build: buildBackground},
	"machines":   {Name: "machines", Duration: 2.60, EdgeFade: 0.04, TargetPeak: 0.50, Loop: true, Build: buildMachines},
}

// Lookup returns the spec for a sound name, or nil if unknown
func Lookup(name string) *Spec {
	return Library[name]
}

// Names returns all registered sound names
func Names() []string {
	names := make([]string, 0, len(Library))
	for n := range Library {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
