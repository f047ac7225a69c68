// ABOUTME: Asset retrieval source
// ABOUTME: Fetches raw asset bytes over HTTP or from the local filesystem
package assets

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Source retrieves raw asset bytes for a configured path.
type Source interface {
	Retrieve(ctx context.Context, path string) ([]byte, error)
}

// DefaultSource retrieves http(s) URLs with a shared client and everything
// else from the local filesystem.
type DefaultSource struct {
	client *http.Client
}

// NewSource creates the default asset source
func NewSource() *DefaultSource {
	return &DefaultSource{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Retrieve fetches the raw bytes for path. Failures are reported as
// *TransportError so callers can fall back to procedural generation.
func (s *DefaultSource) Retrieve(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return s.retrieveHTTP(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	return data, nil
}

func (s *DefaultSource) retrieveHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Path: url, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Path: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Path: url, Err: err}
	}
	return data, nil
}
