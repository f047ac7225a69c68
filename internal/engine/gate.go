// ABOUTME: Readiness gate for the output device
// ABOUTME: Queues playback actions until the device unlock completes, then flushes FIFO
package engine

import "sync"

// GateState tracks output-device readiness.
type GateState int

const (
	// GateLocked: no user gesture observed yet, device suspended or absent.
	GateLocked GateState = iota
	// GateUnlocking: gesture observed, device resume in flight.
	GateUnlocking
	// GateRunning: device active. Terminal; no back-transition.
	GateRunning
)

// Gate defers actions issued before the device is running and flushes them,
// in submission order, exactly once on the transition to running.
type Gate struct {
	mu    sync.Mutex
	state GateState
	queue []func()
}

// NewGate creates a locked gate
func NewGate() *Gate {
	return &Gate{state: GateLocked}
}

func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Do runs fn immediately when the gate is running, otherwise queues it.
func (g *Gate) Do(fn func()) {
	g.mu.Lock()
	if g.state != GateRunning {
		g.queue = append(g.queue, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	fn()
}

// BeginUnlock moves the gate from locked to unlocking. Returns false when the
// unlock is already in flight or done, so resume work is issued only once.
func (g *Gate) BeginUnlock() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != GateLocked {
		return false
	}
	g.state = GateUnlocking
	return true
}

// SetRunning transitions to running and drains the deferred queue in FIFO
// order. Actions enqueued by the drained actions themselves run inline.
func (g *Gate) SetRunning() {
	g.mu.Lock()
	if g.state == GateRunning {
		g.mu.Unlock()
		return
	}
	g.state = GateRunning
	queued := g.queue
	g.queue = nil
	g.mu.Unlock()

	for _, fn := range queued {
		fn()
	}
}
