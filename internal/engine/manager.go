// ABOUTME: Playback manager
// ABOUTME: Tracks one-shot and loop instances, enforces loop intent tokens, applies fades
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/chime-audio/chime-go/internal/device"
	"github.com/chime-audio/chime-go/internal/synth"
	"github.com/google/uuid"
)

const (
	// DefaultLoopFade is the stop ramp for a single loop.
	DefaultLoopFade = 500 * time.Millisecond

	// DefaultSweepFade is the shorter ramp used when stopping everything.
	DefaultSweepFade = 150 * time.Millisecond

	// DefaultAmbientLoop is the loop armed by ArmAutoStart.
	DefaultAmbientLoop = "background"

	// stopSlack delays the hard stop slightly past the end of a fade ramp.
	stopSlack = 50 * time.Millisecond
)

// Options controls a play or loop-start request.
type Options struct {
	Gain    float64       // 0 means 1.0
	FadeIn  time.Duration // linear ramp from silence on start
	FadeOut time.Duration // one-shots: ramp to silence over the clip's tail
	Offset  time.Duration // start offset into the buffer
}

func (o Options) gain() float64 {
	if o.Gain == 0 {
		return 1
	}
	if o.Gain < 0 {
		return 0
	}
	return o.Gain
}

// StopOptions controls stop ramps.
type StopOptions struct {
	Immediate bool
	Fade      time.Duration // 0 means the default for the operation
}

// instance is one live playback: a voice plus its bookkeeping identity.
type instance struct {
	id    string
	name  string
	voice device.Voice
	gain  float64 // base gain before master scaling
	loop  bool
}

// Manager schedules every sound instance over the shared output device. All
// registry and intent mutation is serialized by mu; asynchronous buffer
// resolution re-validates its intent token under the same lock before
// attaching anything.
type Manager struct {
	mu       sync.Mutex
	dev      device.Device
	provider *Provider
	gate     *Gate

	master float64

	oneShots map[string]*instance // uuid -> instance
	loops    map[string]*instance // loop name -> instance

	loopPending map[string]bool   // loop name -> start in flight
	loopIntent  map[string]uint64 // loop name -> current intent token
	nextToken   uint64

	lastCue map[string]time.Time // cooldown bookkeeping

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewManager creates a playback manager over the given device and provider.
func NewManager(dev device.Device, provider *Provider) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		dev:         dev,
		provider:    provider,
		gate:        NewGate(),
		master:      1,
		oneShots:    make(map[string]*instance),
		loops:       make(map[string]*instance),
		loopPending: make(map[string]bool),
		loopIntent:  make(map[string]uint64),
		lastCue:     make(map[string]time.Time),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Gate exposes the readiness gate (for Resume wiring and tests)
func (m *Manager) Gate() *Gate { return m.gate }

// Resume reacts to a user gesture: it requests device resume once and flushes
// the deferred queue when the device reports running. Errors degrade to
// silence, never to the caller.
func (m *Manager) Resume() {
	if !m.gate.BeginUnlock() {
		return
	}
	go func() {
		if err := m.dev.Resume(m.ctx); err != nil {
			log.Printf("Device resume failed, continuing silent: %v", err)
		}
		m.gate.SetRunning()
	}()
}

// Play schedules a one-shot cue. Cooldown-gated cues are dropped when called
// within their window. Resolution is always asynchronous, even on cache hits,
// to keep one code path.
func (m *Manager) Play(name string, opts Options) {
	spec := synth.Lookup(name)
	if spec == nil {
		log.Printf("Play: unknown sound %q", name)
		return
	}

	if spec.Cooldown > 0 && !m.acceptCue(name, spec.Cooldown) {
		return
	}

	m.gate.Do(func() {
		go m.resolveOneShot(name, opts)
	})
}

// acceptCue applies the rate limit for cooldown-gated cues
func (m *Manager) acceptCue(name string, cooldown time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if last, ok := m.lastCue[name]; ok && now.Sub(last) < cooldown {
		return false
	}
	m.lastCue[name] = now
	return true
}

func (m *Manager) resolveOneShot(name string, opts Options) {
	buf := m.provider.Resolve(m.ctx, name)
	if buf == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	voice, err := m.dev.NewVoice(buf, false)
	if err != nil {
		log.Printf("Play %q: %v", name, err)
		return
	}

	inst := &instance{
		id:    uuid.New().String(),
		name:  name,
		voice: voice,
		gain:  opts.gain(),
	}

	m.prepareVoice(inst, buf, opts)

	if err := voice.Start(); err != nil {
		log.Printf("Play %q: %v", name, err)
		voice.Stop()
		return
	}
	m.oneShots[inst.id] = inst

	// Self-deregister on natural completion or stop.
	go func() {
		<-voice.Done()
		m.mu.Lock()
		delete(m.oneShots, inst.id)
		m.mu.Unlock()
	}()
}

// prepareVoice applies offset, gain and fade scheduling. Caller holds mu.
func (m *Manager) prepareVoice(inst *instance, buf *audio.Buffer, opts Options) {
	if opts.Offset > 0 {
		frames := int(opts.Offset.Seconds() * float64(buf.SampleRate))
		inst.voice.SetOffset(frames)
	}

	target := inst.gain * m.master
	if opts.FadeIn > 0 {
		inst.voice.SetGain(0)
		ramp(inst.voice, target, opts.FadeIn)
	} else {
		inst.voice.SetGain(target)
	}

	if !inst.loop && opts.FadeOut > 0 {
		tail := buf.Duration() - opts.Offset - opts.FadeOut
		if tail < 0 {
			tail = 0
		}
		v := inst.voice
		fade := opts.FadeOut
		time.AfterFunc(tail, func() {
			ramp(v, 0, fade)
		})
	}
}

// StartLoop starts a named loop. Idempotent: a second call while the loop is
// active or its start is still resolving is a no-op. The minted intent token
// must still be current when the buffer resolves, otherwise the attach is
// abandoned.
func (m *Manager) StartLoop(name string, opts Options) {
	spec := synth.Lookup(name)
	if spec == nil {
		log.Printf("StartLoop: unknown sound %q", name)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.loops[name] != nil || m.loopPending[name] {
		m.mu.Unlock()
		return
	}
	m.nextToken++
	token := m.nextToken
	m.loopIntent[name] = token
	m.loopPending[name] = true
	m.mu.Unlock()

	m.gate.Do(func() {
		go m.resolveLoop(name, opts, token)
	})
}

func (m *Manager) resolveLoop(name string, opts Options, token uint64) {
	buf := m.provider.Resolve(m.ctx, name)

	m.mu.Lock()
	defer m.mu.Unlock()

	// A stop or a newer start superseded this request while the buffer was
	// resolving: discard the result.
	if m.loopIntent[name] != token {
		return
	}
	// A raced resolution already won.
	if m.loops[name] != nil {
		return
	}
	if m.closed || buf == nil {
		delete(m.loopPending, name)
		return
	}

	voice, err := m.dev.NewVoice(buf, true)
	if err != nil {
		log.Printf("StartLoop %q: %v", name, err)
		delete(m.loopPending, name)
		return
	}

	inst := &instance{
		id:    uuid.New().String(),
		name:  name,
		voice: voice,
		gain:  opts.gain(),
		loop:  true,
	}
	m.prepareVoice(inst, buf, opts)

	if err := voice.Start(); err != nil {
		log.Printf("StartLoop %q: %v", name, err)
		voice.Stop()
		delete(m.loopPending, name)
		return
	}

	m.loops[name] = inst
	delete(m.loopPending, name)
}

// StopLoop stops a named loop. Clearing the pending marker and intent first
// guarantees an in-flight start for the same name abandons itself.
func (m *Manager) StopLoop(name string, opts StopOptions) {
	m.mu.Lock()
	delete(m.loopPending, name)
	delete(m.loopIntent, name)
	inst := m.loops[name]
	delete(m.loops, name)
	m.mu.Unlock()

	if inst == nil {
		return
	}
	m.windDown(inst, opts, DefaultLoopFade)
}

// StopAllOneShots stops every active one-shot.
func (m *Manager) StopAllOneShots(opts StopOptions) {
	m.mu.Lock()
	stopped := make([]*instance, 0, len(m.oneShots))
	for id, inst := range m.oneShots {
		stopped = append(stopped, inst)
		delete(m.oneShots, id)
	}
	m.mu.Unlock()

	for _, inst := range stopped {
		m.windDown(inst, opts, DefaultSweepFade)
	}
}

// HardStopAll stops every loop and one-shot and clears all loop bookkeeping
// unconditionally, guaranteeing a clean slate before a terminal transition.
func (m *Manager) HardStopAll(opts StopOptions) {
	m.mu.Lock()
	stopped := make([]*instance, 0, len(m.oneShots)+len(m.loops))
	for _, inst := range m.oneShots {
		stopped = append(stopped, inst)
	}
	for _, inst := range m.loops {
		stopped = append(stopped, inst)
	}
	m.oneShots = make(map[string]*instance)
	m.loops = make(map[string]*instance)
	m.loopPending = make(map[string]bool)
	m.loopIntent = make(map[string]uint64)
	m.mu.Unlock()

	for _, inst := range stopped {
		m.windDown(inst, opts, DefaultSweepFade)
	}
}

// windDown fades an already-deregistered instance to silence and hard-stops
// it shortly after the ramp completes.
func (m *Manager) windDown(inst *instance, opts StopOptions, defaultFade time.Duration) {
	if opts.Immediate {
		inst.voice.Stop()
		return
	}
	fade := opts.Fade
	if fade <= 0 {
		fade = defaultFade
	}
	ramp(inst.voice, 0, fade)
	v := inst.voice
	time.AfterFunc(fade+stopSlack, v.Stop)
}

// ArmAutoStart remembers a request to start the ambient loop the moment the
// gate reaches running. Safe to call at any time.
func (m *Manager) ArmAutoStart(name string, opts Options) {
	if name == "" {
		name = DefaultAmbientLoop
	}
	m.gate.Do(func() {
		m.StartLoop(name, opts)
	})
}

// ConfigureAssets forwards to the provider. Playback already in flight keeps
// its buffers; new resolutions see the new table.
func (m *Manager) ConfigureAssets(overrides map[string]string) {
	m.provider.ConfigureAssets(overrides)
}

// SetMasterGain rescales every active voice.
func (m *Manager) SetMasterGain(g float64) {
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = g
	for _, inst := range m.oneShots {
		inst.voice.SetGain(inst.gain * g)
	}
	for _, inst := range m.loops {
		inst.voice.SetGain(inst.gain * g)
	}
}

// MasterGain returns the current master gain
func (m *Manager) MasterGain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

// LoopActive reports whether a loop instance is live for the name
func (m *Manager) LoopActive(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loops[name] != nil
}

// Counts returns the number of live one-shot and loop instances
func (m *Manager) Counts() (oneShots, loops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.oneShots), len(m.loops)
}

// PendingLoops returns the number of loop starts still resolving
func (m *Manager) PendingLoops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loopPending)
}

// IntentCount returns the number of live loop intent tokens
func (m *Manager) IntentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loopIntent)
}

// Close hard-stops everything and releases the device. A failed stop on one
// instance never prevents stopping the rest; teardown errors are logged.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.HardStopAll(StopOptions{Immediate: true})
	m.cancel()
	if err := m.dev.Close(); err != nil {
		log.Printf("Device close: %v", err)
	}
}

// ramp linearly adjusts a voice's gain to target over dur. The ramp aborts
// when the voice ends first.
func ramp(v device.Voice, target float64, dur time.Duration) {
	if dur <= 0 {
		v.SetGain(target)
		return
	}

	const step = 10 * time.Millisecond
	steps := int(dur / step)
	if steps < 1 {
		steps = 1
	}
	start := v.Gain()

	go func() {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		for i := 1; i <= steps; i++ {
			select {
			case <-ticker.C:
				select {
				case <-v.Done():
					return
				default:
				}
				v.SetGain(start + (target-start)*float64(i)/float64(steps))
			case <-v.Done():
				return
			}
		}
	}()
}
