// Command octobridged is the octobridge daemon: it wires the control
// surface, synth, and audio interface devices onto the bus, starts the
// looper's audio stream, and runs until the bus completes (double-click
// shutdown or SIGINT).
//
// Grounded on samoyed's cmd/samoyed-appserver pflag+wiring idiom; unlike
// direwolf's cmd/direwolf (a cgo-bound 700-line option parser over C
// globals), octobridge's process configuration lives entirely in
// internal/config (spec §6: "Configuration (environment)"), so this
// entrypoint's own flag surface is limited to --help/--version.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/octobridge/octobridge/internal/bus"
	"github.com/octobridge/octobridge/internal/clock"
	"github.com/octobridge/octobridge/internal/config"
	"github.com/octobridge/octobridge/internal/device/audioadapter"
	"github.com/octobridge/octobridge/internal/device/control"
	"github.com/octobridge/octobridge/internal/device/synth"
	"github.com/octobridge/octobridge/internal/instrument"
	"github.com/octobridge/octobridge/internal/logging"
	"github.com/octobridge/octobridge/internal/looper"
	"github.com/octobridge/octobridge/internal/looper/paaudio"
	"github.com/octobridge/octobridge/internal/midiio"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var showVersion = pflag.BoolP("version", "v", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "octobridged - a live-looping and synth-control hub for a control surface, a MIDI synth, and an audio interface.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: octobridged [options]\n\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nAll device selection and tuning is read from the environment; see SPEC_FULL.md §6.\n")
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return 0
	}
	if *showVersion {
		fmt.Println("octobridged", version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.New("octobridged", cfg.DebugLevel)

	synthPort, err := midiio.Open(logging.New("midi.synth", cfg.DebugLevel), cfg.SynthDevice)
	if err != nil {
		logger.Error("synth port open failed", "err", err)
		return 1
	}
	controlPort, err := midiio.Open(logging.New("midi.control", cfg.DebugLevel), cfg.ControlDevice)
	if err != nil {
		logger.Error("control port open failed", "err", err)
		return 1
	}

	registry := instrument.NewRegistry()
	metronome := clock.NewMetronome()
	loop := looper.New(cfg.SampleRate, cfg.Tracks)

	b := bus.New(logging.New("bus", cfg.DebugLevel))

	synthDevice := synth.New(logging.New("device.synth", cfg.DebugLevel), "synth", synthPort, registry)
	controlDevice := control.New(logging.New("device.control", cfg.DebugLevel), "control", controlPort, b)
	audioDevice := audioadapter.New(logging.New("device.audio", cfg.DebugLevel), "audio", metronome, loop)

	stream := paaudio.New(logging.New("paaudio", cfg.DebugLevel))
	if cfg.AudioDevice != "" {
		logger.Debug("audio device selection is out of scope; using the backend's default device", "requested", cfg.AudioDevice)
	}
	if err := stream.Open(float64(cfg.SampleRate), cfg.Tracks, loop.Callback); err != nil {
		// octerr.PortOpenFailure (retries exhausted) and
		// octerr.AudioStreamFailure (backend couldn't start at all)
		// are both fatal per spec §7's propagation policy.
		logger.Error("audio backend failed to start", "err", err)
		return 1
	}
	defer stream.Close()

	b.Start(synthDevice, controlDevice, audioDevice)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-b.Done():
		logger.Info("shutdown requested by control surface double-click")
	case s := <-sig:
		logger.Info("shutdown requested by signal", "signal", s)
		b.Shutdown()
	}

	b.Wait()
	_ = synthPort.Close()
	_ = controlPort.Close()

	return 0
}
