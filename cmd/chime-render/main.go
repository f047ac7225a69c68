// ABOUTME: Offline renderer for the built-in sound library
// ABOUTME: Writes every procedural sound to a WAV file for auditioning
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/chime-audio/chime-go/internal/audio"
	"github.com/chime-audio/chime-go/internal/synth"
)

var (
	outDir     = flag.String("out", "rendered", "Output directory for WAV files")
	sampleRate = flag.Int("rate", audio.DefaultSampleRate, "Output sample rate in Hz")
	only       = flag.String("only", "", "Render a single sound instead of the whole library")
)

func main() {
	flag.Parse()

	names := synth.Names()
	if *only != "" {
		if synth.Lookup(*only) == nil {
			log.Fatalf("unknown sound %q", *only)
		}
		names = []string{*only}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	for _, name := range names {
		spec := synth.Lookup(name)
		buf := synth.Render(spec, *sampleRate)

		path := filepath.Join(*outDir, name+".wav")
		if err := os.WriteFile(path, audio.EncodeWAV(buf), 0644); err != nil {
			log.Fatalf("writing %s: %v", path, err)
		}
		log.Printf("Rendered %s (%.2fs)", path, buf.Duration().Seconds())
	}
}
