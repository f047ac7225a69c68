// ABOUTME: Test doubles for the engine package
// ABOUTME: In-memory device, controllable voices and scriptable asset sources
package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/chime-audio/chime-go/internal/device"
)

// stubDevice records created voices without touching any audio backend.
type stubDevice struct {
	mu     sync.Mutex
	state  device.State
	voices []*stubVoice
}

func newStubDevice() *stubDevice { return &stubDevice{} }

func (d *stubDevice) Resume(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = device.Running
	return nil
}

func (d *stubDevice) State() device.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *stubDevice) SampleRate() int { return audio.DefaultSampleRate }

func (d *stubDevice) NewVoice(buf *audio.Buffer, loop bool) (device.Voice, error) {
	v := &stubVoice{loop: loop, gain: 1, done: make(chan struct{})}
	d.mu.Lock()
	d.voices = append(d.voices, v)
	d.mu.Unlock()
	return v, nil
}

func (d *stubDevice) Close() error { return nil }

func (d *stubDevice) voiceCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.voices)
}

func (d *stubDevice) voice(i int) *stubVoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.voices[i]
}

type stubVoice struct {
	mu       sync.Mutex
	gain     float64
	started  bool
	stopped  bool
	loop     bool
	done     chan struct{}
	doneOnce sync.Once
}

func (v *stubVoice) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.started = true
	return nil
}

func (v *stubVoice) SetGain(g float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gain = g
}

func (v *stubVoice) Gain() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gain
}

func (v *stubVoice) SetOffset(frames int) {}

func (v *stubVoice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
	v.doneOnce.Do(func() { close(v.done) })
}

func (v *stubVoice) Done() <-chan struct{} { return v.done }

// finish simulates natural one-shot completion.
func (v *stubVoice) finish() {
	v.doneOnce.Do(func() { close(v.done) })
}

func (v *stubVoice) isStopped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopped
}

// blockingSource holds every retrieval until released, then returns the
// scripted payload or error. It counts calls for dedup assertions.
type blockingSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	data    []byte
	err     error
}

func newBlockingSource(data []byte, err error) *blockingSource {
	return &blockingSource{release: make(chan struct{}), data: data, err: err}
}

func (s *blockingSource) Retrieve(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.data, s.err
}

func (s *blockingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
