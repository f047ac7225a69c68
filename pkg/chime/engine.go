// ABOUTME: High-level Engine API for procedural game audio
// ABOUTME: Wires the device, provider and manager behind a simple facade
package chime

import (
	"context"
	"log"
	"time"

	"github.com/chime-audio/chime-go/internal/assets"
	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/chime-audio/chime-go/internal/device"
	"github.com/chime-audio/chime-go/internal/engine"
	"github.com/chime-audio/chime-go/internal/synth"
)

// Source retrieves raw asset bytes for a configured path. Implement it to
// serve assets from anywhere other than HTTP or the local filesystem.
type Source interface {
	Retrieve(ctx context.Context, path string) ([]byte, error)
}

// Config holds engine configuration
type Config struct {
	// SampleRate is the output sample rate in Hz (default: 44100)
	SampleRate int

	// MasterGain is the initial master gain (0-1, default: 1)
	MasterGain float64

	// Assets maps sound names to file paths or http(s) URLs played in place
	// of procedural synthesis. An empty value forces synthesis.
	Assets map[string]string

	// Source overrides asset retrieval (default: HTTP + local filesystem)
	Source Source

	// Silent skips the audio device entirely. Playback state is tracked but
	// nothing reaches the speakers. Also the fallback when no device opens.
	Silent bool
}

// Options controls a play or loop-start request.
type Options struct {
	// Gain is the per-instance gain (0 means 1.0)
	Gain float64

	// FadeIn ramps the instance up from silence on start
	FadeIn time.Duration

	// FadeOut ramps a one-shot to silence over the end of the clip
	FadeOut time.Duration

	// Offset skips into the buffer before starting
	Offset time.Duration
}

// StopOptions controls stop ramps.
type StopOptions struct {
	// Immediate skips the fade and cuts the instance off
	Immediate bool

	// Fade overrides the default stop ramp duration
	Fade time.Duration
}

// Engine plays procedurally synthesized sound effects and ambient loops.
// Every method is safe for concurrent use and never blocks on audio I/O.
type Engine struct {
	manager *engine.Manager
	dev     device.Device
	silent  bool
}

// New creates an engine. When no audio device can be opened the engine
// degrades to silent playback tracking instead of failing, so game code
// never has to branch on audio availability.
func New(config Config) (*Engine, error) {
	if config.SampleRate == 0 {
		config.SampleRate = audio.DefaultSampleRate
	}
	if config.Source == nil {
		config.Source = assets.NewSource()
	}

	var dev device.Device
	silent := config.Silent
	if !silent {
		otoDev, err := device.NewOtoDevice(config.SampleRate)
		if err != nil {
			log.Printf("Audio device unavailable, running silent: %v", err)
			silent = true
		} else {
			dev = otoDev
		}
	}
	if silent {
		dev = device.NewHeadless(config.SampleRate)
	}

	// No built-in asset paths: everything ships procedural and hosts opt in
	// to files via Config.Assets or ConfigureAssets.
	provider := engine.NewProvider(config.Source, config.SampleRate, nil)
	mgr := engine.NewManager(dev, provider)

	if len(config.Assets) > 0 {
		mgr.ConfigureAssets(config.Assets)
	}
	if config.MasterGain > 0 {
		mgr.SetMasterGain(config.MasterGain)
	}

	return &Engine{manager: mgr, dev: dev, silent: silent}, nil
}

// Resume unlocks playback. Call it from the first user gesture; requests
// made before the device is running are queued and flushed in order.
func (e *Engine) Resume() {
	e.manager.Resume()
}

// Play schedules a one-shot cue by name. Unknown names are logged and
// dropped; cooldown-gated cues inside their window are dropped silently.
func (e *Engine) Play(name string, opts Options) {
	e.manager.Play(name, engineOptions(opts))
}

// StartLoop starts a named loop. At most one instance per name is ever
// active; repeated calls while the loop is live or starting are no-ops.
func (e *Engine) StartLoop(name string, opts Options) {
	e.manager.StartLoop(name, engineOptions(opts))
}

// StopLoop stops a named loop, fading unless told otherwise. Stopping a
// loop whose start is still resolving cancels the start.
func (e *Engine) StopLoop(name string, opts StopOptions) {
	e.manager.StopLoop(name, engineStop(opts))
}

// StopAllOneShots stops every active one-shot, leaving loops running.
func (e *Engine) StopAllOneShots(opts StopOptions) {
	e.manager.StopAllOneShots(engineStop(opts))
}

// HardStopAll stops everything and clears all pending loop starts.
func (e *Engine) HardStopAll(opts StopOptions) {
	e.manager.HardStopAll(engineStop(opts))
}

// ArmAmbient starts the named ambient loop as soon as playback unlocks.
// An empty name selects the default ambient loop.
func (e *Engine) ArmAmbient(name string, opts Options) {
	e.manager.ArmAutoStart(name, engineOptions(opts))
}

// ConfigureAssets replaces the asset override table. Sounds already playing
// keep their buffers; new plays resolve against the new table.
func (e *Engine) ConfigureAssets(overrides map[string]string) {
	e.manager.ConfigureAssets(overrides)
}

// SetMasterGain sets the master gain (0-1) and rescales active voices.
func (e *Engine) SetMasterGain(g float64) {
	e.manager.SetMasterGain(g)
}

// MasterGain returns the current master gain
func (e *Engine) MasterGain() float64 {
	return e.manager.MasterGain()
}

// LoopActive reports whether the named loop has a live instance
func (e *Engine) LoopActive(name string) bool {
	return e.manager.LoopActive(name)
}

// Counts returns the number of live one-shot and loop instances
func (e *Engine) Counts() (oneShots, loops int) {
	return e.manager.Counts()
}

// Silent reports whether the engine runs without an audio device
func (e *Engine) Silent() bool {
	return e.silent
}

// Sounds lists every known sound name in sorted order
func Sounds() []string {
	return synth.Names()
}

// IsLoop reports whether the named sound is a looping ambient bed
func IsLoop(name string) bool {
	spec := synth.Lookup(name)
	return spec != nil && spec.Loop
}

// Close hard-stops everything and releases the device.
func (e *Engine) Close() {
	e.manager.Close()
}

func engineOptions(o Options) engine.Options {
	return engine.Options{
		Gain:    o.Gain,
		FadeIn:  o.FadeIn,
		FadeOut: o.FadeOut,
		Offset:  o.Offset,
	}
}

func engineStop(o StopOptions) engine.StopOptions {
	return engine.StopOptions{
		Immediate: o.Immediate,
		Fade:      o.Fade,
	}
}
