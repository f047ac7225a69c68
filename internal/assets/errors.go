// ABOUTME: Asset error taxonomy
// ABOUTME: Transport and decode failures that trigger procedural fallback
package assets

import "fmt"

// TransportError reports an unreachable or rejected asset retrieval.
type TransportError struct {
	Path   string
	Status int // HTTP status when applicable, 0 otherwise
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("asset transport failed for %s: HTTP %d", e.Path, e.Status)
	}
	return fmt.Sprintf("asset transport failed for %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports malformed or unsupported audio data.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asset decode failed for %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
