// ABOUTME: Tests for the readiness gate
// ABOUTME: Covers FIFO flush, one-time transition and unlock idempotence
package engine

import "testing"

func TestGateQueuesWhileLocked(t *testing.T) {
	g := NewGate()
	ran := false
	g.Do(func() { ran = true })
	if ran {
		t.Fatal("action ran before gate was running")
	}
	if g.State() != GateLocked {
		t.Fatalf("state = %v, want locked", g.State())
	}
}

func TestGateFlushesFIFO(t *testing.T) {
	g := NewGate()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		g.Do(func() { order = append(order, i) })
	}

	g.SetRunning()

	if len(order) != 5 {
		t.Fatalf("flushed %d actions, want 5", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("flush order %v, want ascending", order)
		}
	}
}

func TestGateRunsInlineOnceRunning(t *testing.T) {
	g := NewGate()
	g.SetRunning()

	ran := false
	g.Do(func() { ran = true })
	if !ran {
		t.Fatal("action did not run inline on a running gate")
	}
}

func TestGateFlushHappensOnce(t *testing.T) {
	g := NewGate()
	count := 0
	g.Do(func() { count++ })

	g.SetRunning()
	g.SetRunning()

	if count != 1 {
		t.Fatalf("queued action ran %d times, want 1", count)
	}
}

func TestGateBeginUnlockOnlyOnce(t *testing.T) {
	g := NewGate()
	if !g.BeginUnlock() {
		t.Fatal("first BeginUnlock returned false")
	}
	if g.BeginUnlock() {
		t.Fatal("second BeginUnlock returned true")
	}
	if g.State() != GateUnlocking {
		t.Fatalf("state = %v, want unlocking", g.State())
	}

	g.SetRunning()
	if g.BeginUnlock() {
		t.Fatal("BeginUnlock returned true on a running gate")
	}
}
