// ABOUTME: Tests for asset retrieval and decoding
// ABOUTME: Uses httptest for transport and generated WAV bytes for decode
package assets

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chime-audio/chime-go/internal/audio"
)

// wavBytes builds a minimal 16-bit PCM WAV file from interleaved samples.
func wavBytes(samples []int16, channels, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize))
	copy(buf[8:], "WAVE")

	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(buf[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(buf[34:], 16)

	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(s))
	}
	return buf
}

func TestDecodeWAVRoundTrip(t *testing.T) {
	src := []int16{0, 16384, -16384, 32767, -32768, 100, -100, 0}
	data := wavBytes(src, 2, 44100)

	buf, err := Decode("ping.wav", data, 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if buf.Frames() != 4 {
		t.Fatalf("frames = %d, want 4", buf.Frames())
	}
	for i := 0; i < 4; i++ {
		wantL := audio.SampleFromInt16(src[i*2])
		wantR := audio.SampleFromInt16(src[i*2+1])
		if math.Abs(buf.Channels[0][i]-wantL) > 1e-9 || math.Abs(buf.Channels[1][i]-wantR) > 1e-9 {
			t.Errorf("frame %d = (%v, %v), want (%v, %v)",
				i, buf.Channels[0][i], buf.Channels[1][i], wantL, wantR)
		}
	}
}

func TestDecodeWAVMonoDuplicated(t *testing.T) {
	data := wavBytes([]int16{1000, 2000, 3000}, 1, 22050)
	buf, err := Decode("mono.wav", data, 22050)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := 0; i < buf.Frames(); i++ {
		if buf.Channels[0][i] != buf.Channels[1][i] {
			t.Fatalf("frame %d: mono not duplicated to both channels", i)
		}
	}
}

func TestDecodeResamplesToTargetRate(t *testing.T) {
	// One second of audio at 22050 must come out as one second at 44100.
	src := make([]int16, 22050*2)
	data := wavBytes(src, 2, 22050)

	buf, err := Decode("slow.wav", data, 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if buf.SampleRate != 44100 {
		t.Errorf("rate = %d, want 44100", buf.SampleRate)
	}
	if buf.Frames() != 44100 {
		t.Errorf("frames = %d, want 44100", buf.Frames())
	}
}

func TestDecodeGarbageIsDecodeError(t *testing.T) {
	_, err := Decode("bad.wav", []byte("definitely not audio"), 44100)
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	_, err := Decode("tune.mid", []byte{1, 2, 3}, 44100)
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestExtensionIgnoresQueryString(t *testing.T) {
	if got := extension("https://cdn.example.com/a/b/pickup.wav?v=3"); got != ".wav" {
		t.Errorf("extension = %q, want .wav", got)
	}
}

func TestRetrieveHTTP(t *testing.T) {
	body := []byte("asset-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.wav" {
			w.Write(body)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewSource()

	got, err := src.Retrieve(context.Background(), srv.URL+"/ok.wav")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("body = %q, want %q", got, body)
	}

	_, err = src.Retrieve(context.Background(), srv.URL+"/missing.wav")
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if terr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", terr.Status)
	}
}

func TestRetrieveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blip.wav")
	if err := os.WriteFile(path, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewSource()
	got, err := src.Retrieve(context.Background(), path)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if string(got) != "local" {
		t.Errorf("body = %q, want %q", got, "local")
	}

	_, err = src.Retrieve(context.Background(), filepath.Join(dir, "nope.wav"))
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}
