// ABOUTME: Tests for the buffer provider
// ABOUTME: Covers caching, load dedup, permanent fallback and reconfiguration
package engine

import (
	"context"
	"encoding/binary"
	"net/http"
	"sync"
	"testing"

	"github.com/chime-audio/chime-go/internal/assets"
	"github.com/chime-audio/chime-go/internal/audio"
)

// smallWAV builds a valid 16-bit stereo WAV payload for decode-success paths.
func smallWAV() []byte {
	samples := []int16{100, -100, 2000, -2000, 30000, -30000}
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)
	binary.LittleEndian.PutUint16(buf[22:], 2)
	binary.LittleEndian.PutUint32(buf[24:], uint32(audio.DefaultSampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(audio.DefaultSampleRate*4))
	binary.LittleEndian.PutUint16(buf[32:], 4)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(s))
	}
	return buf
}

func releasedSource(data []byte, err error) *blockingSource {
	s := newBlockingSource(data, err)
	close(s.release)
	return s
}

func TestProviderProceduralCached(t *testing.T) {
	p := NewProvider(nil, audio.DefaultSampleRate, nil)

	a := p.Resolve(context.Background(), "pickup")
	b := p.Resolve(context.Background(), "pickup")
	if a == nil {
		t.Fatal("Resolve returned nil for known sound")
	}
	if a != b {
		t.Error("procedural buffer not cached: got different pointers")
	}
}

func TestProviderUnknownSound(t *testing.T) {
	p := NewProvider(nil, audio.DefaultSampleRate, nil)
	if buf := p.Resolve(context.Background(), "no-such-sound"); buf != nil {
		t.Errorf("Resolve(unknown) = %v, want nil", buf)
	}
}

func TestProviderDecodesConfiguredAsset(t *testing.T) {
	src := releasedSource(smallWAV(), nil)
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	buf := p.Resolve(context.Background(), "pickup")
	if buf == nil || buf.Frames() != 3 {
		t.Fatalf("decoded buffer = %v, want 3 frames", buf)
	}

	// Second resolve is a cache hit.
	again := p.Resolve(context.Background(), "pickup")
	if again != buf {
		t.Error("decoded buffer not served from cache")
	}
	if src.callCount() != 1 {
		t.Errorf("source called %d times, want 1", src.callCount())
	}
}

func TestProviderCollapsesConcurrentLoads(t *testing.T) {
	src := newBlockingSource(smallWAV(), nil)
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	var wg sync.WaitGroup
	results := make([]*audio.Buffer, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Resolve(context.Background(), "pickup")
		}(i)
	}

	// Let the first request register its pending load before releasing.
	waitUntil(t, "first retrieval to start", func() bool { return src.callCount() >= 1 })
	close(src.release)
	wg.Wait()

	if src.callCount() != 1 {
		t.Errorf("source called %d times, want 1 (dedup)", src.callCount())
	}
	if results[0] == nil || results[0] != results[1] {
		t.Errorf("concurrent resolvers got different buffers: %p vs %p", results[0], results[1])
	}
}

func TestProviderTransportFailureFallsBackPermanently(t *testing.T) {
	src := releasedSource(nil, &assets.TransportError{Path: "pickup.wav", Status: http.StatusNotFound})
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	buf := p.Resolve(context.Background(), "pickup")
	if buf == nil {
		t.Fatal("expected procedural fallback buffer")
	}
	if p.HasAsset("pickup") {
		t.Error("failed asset mapping was not dropped")
	}

	p.Resolve(context.Background(), "pickup")
	if src.callCount() != 1 {
		t.Errorf("source called %d times after failure, want 1 (no retry)", src.callCount())
	}
}

func TestProviderDecodeFailureFallsBack(t *testing.T) {
	src := releasedSource([]byte("not audio at all"), nil)
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	buf := p.Resolve(context.Background(), "pickup")
	if buf == nil {
		t.Fatal("expected procedural fallback buffer")
	}
	if p.HasAsset("pickup") {
		t.Error("undecodable asset mapping was not dropped")
	}
}

func TestConfigureAssetsRemovalForcesProcedural(t *testing.T) {
	src := releasedSource(smallWAV(), nil)
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	p.ConfigureAssets(map[string]string{"pickup": ""})

	buf := p.Resolve(context.Background(), "pickup")
	if buf == nil {
		t.Fatal("expected procedural buffer")
	}
	if src.callCount() != 0 {
		t.Errorf("source called %d times for removed mapping, want 0", src.callCount())
	}
}

func TestConfigureAssetsResetsToDefaults(t *testing.T) {
	p := NewProvider(releasedSource(smallWAV(), nil), audio.DefaultSampleRate,
		map[string]string{"pickup": "pickup.wav"})

	p.ConfigureAssets(map[string]string{"pickup": ""})
	if p.HasAsset("pickup") {
		t.Fatal("override did not remove mapping")
	}

	p.ConfigureAssets(nil)
	if !p.HasAsset("pickup") {
		t.Error("reconfigure did not restore the default mapping")
	}
}

func TestConfigureAssetsIgnoresUnknownNames(t *testing.T) {
	p := NewProvider(nil, audio.DefaultSampleRate, nil)
	p.ConfigureAssets(map[string]string{"no-such-sound": "x.wav"})
	if p.HasAsset("no-such-sound") {
		t.Error("unknown sound name was not ignored")
	}
}

func TestConfigureAssetsInvalidatesDecodedCache(t *testing.T) {
	src := releasedSource(smallWAV(), nil)
	p := NewProvider(src, audio.DefaultSampleRate, map[string]string{"pickup": "pickup.wav"})

	p.Resolve(context.Background(), "pickup")
	p.ConfigureAssets(nil)
	p.Resolve(context.Background(), "pickup")

	if src.callCount() != 2 {
		t.Errorf("source called %d times, want 2 (cache invalidated)", src.callCount())
	}
}
