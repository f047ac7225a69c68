// ABOUTME: oto-backed output device
// ABOUTME: Plays voices through the platform audio layer via ebitengine/oto
package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/ebitengine/oto/v3"
)

// OtoDevice drives the platform audio output through a single shared oto
// context.
type OtoDevice struct {
	mu         sync.Mutex
	ctx        *oto.Context
	ready      chan struct{}
	state      State
	sampleRate int
}

// NewOtoDevice creates the shared output context. The device stays suspended
// until Resume observes the ready signal.
func NewOtoDevice(sampleRate int) (*OtoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: audio.NumChannels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	return &OtoDevice{
		ctx:        ctx,
		ready:      ready,
		sampleRate: sampleRate,
	}, nil
}

// Resume blocks until the platform output is ready
func (d *OtoDevice) Resume(ctx context.Context) error {
	select {
	case <-d.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	d.mu.Lock()
	d.state = Running
	d.mu.Unlock()
	return nil
}

func (d *OtoDevice) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *OtoDevice) SampleRate() int { return d.sampleRate }

// NewVoice attaches a buffer to a fresh oto player
func (d *OtoDevice) NewVoice(buf *audio.Buffer, loop bool) (Voice, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, &StartFailure{Err: fmt.Errorf("empty buffer")}
	}

	reader := &pcmReader{data: buf.InterleaveInt16(), loop: loop}
	v := &otoVoice{
		player: d.ctx.NewPlayer(reader),
		reader: reader,
		gain:   1,
		done:   make(chan struct{}),
	}
	return v, nil
}

func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Suspended
	return d.ctx.Suspend()
}

// otoVoice is one playback instance on the oto context.
type otoVoice struct {
	player   *oto.Player
	reader   *pcmReader
	mu       sync.Mutex
	gain     float64
	started  bool
	done     chan struct{}
	doneOnce sync.Once
}

func (v *otoVoice) Start() error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return nil
	}
	v.started = true
	v.player.SetVolume(v.gain)
	v.mu.Unlock()

	v.player.Play()
	if err := v.player.Err(); err != nil {
		v.Stop()
		return &StartFailure{Err: err}
	}

	// Watch for natural completion. Loops never EOF, so this also serves as
	// the stop watcher for them.
	go func() {
		for v.player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		v.Stop()
	}()
	return nil
}

func (v *otoVoice) SetGain(g float64) {
	if g < 0 {
		g = 0
	}
	if g > 1 {
		g = 1
	}
	v.mu.Lock()
	v.gain = g
	v.mu.Unlock()
	v.player.SetVolume(g)
}

func (v *otoVoice) Gain() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gain
}

func (v *otoVoice) SetOffset(frames int) {
	v.reader.seek(frames)
}

func (v *otoVoice) Stop() {
	v.doneOnce.Do(func() {
		v.player.Close()
		close(v.done)
	})
}

func (v *otoVoice) Done() <-chan struct{} { return v.done }

// pcmReader streams interleaved 16-bit PCM, optionally wrapping around for
// loops. oto reads it from a single goroutine.
type pcmReader struct {
	mu   sync.Mutex
	data []byte
	pos  int
	loop bool
}

func (r *pcmReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.data) {
		if !r.loop {
			return 0, io.EOF
		}
		r.pos = 0
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// seek jumps to a frame offset, clamped to the buffer
func (r *pcmReader) seek(frames int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	off := frames * audio.NumChannels * 2
	if off < 0 {
		off = 0
	}
	if off > len(r.data) {
		off = len(r.data)
	}
	r.pos = off
}
