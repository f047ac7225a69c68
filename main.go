// ABOUTME: Entry point for the chime soundboard
// ABOUTME: Parses CLI flags and runs the interactive soundboard or a one-off play
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chime-audio/chime-go/internal/ui"
	"github.com/chime-audio/chime-go/internal/version"
	"github.com/chime-audio/chime-go/pkg/chime"
)

var (
	showVersion = flag.Bool("version", false, "Print version and exit")
	listSounds  = flag.Bool("list", false, "List all known sound names and exit")
	playSound   = flag.String("play", "", "Play one sound and exit (comma-separated for several)")
	assetFlags  = flag.String("assets", "", "Asset overrides as name=path pairs, comma-separated")
	gain        = flag.Float64("gain", 1.0, "Master gain (0-1)")
	silent      = flag.Bool("silent", false, "Run without an audio device")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	logFile     = flag.String("log-file", "chime.log", "Log file path")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if *listSounds {
		for _, name := range chime.Sounds() {
			kind := "cue"
			if chime.IsLoop(name) {
				kind = "loop"
			}
			fmt.Printf("%-12s %s\n", name, kind)
		}
		return
	}

	useTUI := !*noTUI && *playSound == ""

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	eng, err := chime.New(chime.Config{
		MasterGain: *gain,
		Assets:     parseAssets(*assetFlags),
		Silent:     *silent,
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	if *playSound != "" {
		playAndExit(eng, *playSound)
		return
	}

	if useTUI {
		if err := ui.Run(eng); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		return
	}

	// Headless demo mode: play the ambient bed until interrupted.
	log.Printf("Starting chime (no TUI); ambient loop runs until interrupted")
	eng.ArmAmbient("", chime.Options{FadeIn: 2 * time.Second})
	eng.Resume()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutdown signal received")

	eng.HardStopAll(chime.StopOptions{})
	time.Sleep(300 * time.Millisecond)
}

// playAndExit plays the named sounds in sequence and waits for them to finish
func playAndExit(eng *chime.Engine, names string) {
	eng.Resume()
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		log.Printf("Playing %q", name)
		if chime.IsLoop(name) {
			log.Printf("%q is a loop; playing 3 seconds of it", name)
			eng.StartLoop(name, chime.Options{})
			time.Sleep(3 * time.Second)
			eng.StopLoop(name, chime.StopOptions{})
			continue
		}
		eng.Play(name, chime.Options{})
		waitForOneShots(eng)
	}
}

// waitForOneShots blocks until every one-shot has completed. Resolution is
// asynchronous, so first give the instance a moment to register.
func waitForOneShots(eng *chime.Engine) {
	appear := time.Now().Add(time.Second)
	for time.Now().Before(appear) {
		if oneShots, _ := eng.Counts(); oneShots > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if oneShots, _ := eng.Counts(); oneShots == 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	log.Printf("Timed out waiting for playback to finish")
}

// parseAssets parses "name=path,name=path" into an override table
func parseAssets(s string) map[string]string {
	if s == "" {
		return nil
	}
	overrides := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, path, ok := strings.Cut(pair, "=")
		if !ok {
			log.Printf("Ignoring malformed asset override %q", pair)
			continue
		}
		overrides[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}
	return overrides
}
