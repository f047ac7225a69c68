// ABOUTME: High-level Chime library API
// ABOUTME: Provides the Engine entry point for most library users
// Package chime provides a high-level API for procedural game audio.
//
// This is the main entry point for most library users, providing:
//   - Engine: Play one-shot cues and manage named ambient loops
//   - Asset substitution: swap any procedural sound for a local or HTTP file
//   - Graceful degradation: a host without an audio device runs silent
//
// For lower-level control, see the internal synth and engine packages.
//
// Example:
//
//	eng, err := chime.New(chime.Config{})
//	eng.Resume() // call from the first user gesture
//	eng.Play("pickup", chime.Options{})
//	eng.StartLoop("background", chime.Options{FadeIn: 2 * time.Second})
//	defer eng.Close()
package chime
