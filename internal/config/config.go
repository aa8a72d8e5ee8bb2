// Package config reads octobridge's process configuration from the
// environment (spec §6). Loading a .env file into the environment is an
// external collaborator's job (spec §1 Non-goals); this package only ever
// calls os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// Config holds the four environment variables spec.md §6 names plus the
// looper sizing knobs SPEC_FULL.md §6 adds (Tracks, SampleRate) that spec.md
// leaves as domain constants rather than configuration.
type Config struct {
	SynthDevice   string
	ControlDevice string
	AudioDevice   string
	DebugLevel    log.Level

	Tracks     int
	SampleRate int
}

const (
	defaultSynthDevice   = "SY-1000 MIDI 1"
	defaultControlDevice = "Akai APC40 MIDI 1"
	defaultAudioDevice   = "SY-1000"
	defaultTracks        = 8
	defaultSampleRate    = 48000
)

// Load reads Config from the process environment, applying spec.md §6
// defaults for anything unset or invalid.
func Load() (Config, error) {
	cfg := Config{
		SynthDevice:   getenv("SYNTH_DEVICE", defaultSynthDevice),
		ControlDevice: getenv("CONTROL_DEVICE", defaultControlDevice),
		AudioDevice:   getenv("AUDIO_DEVICE", defaultAudioDevice),
		DebugLevel:    parseDebug(os.Getenv("DEBUG")),
		Tracks:        defaultTracks,
		SampleRate:    defaultSampleRate,
	}

	if v := os.Getenv("OCTOBRIDGE_TRACKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: OCTOBRIDGE_TRACKS: %w", err)
		}
		if n != 8 && n != 16 {
			return Config{}, fmt.Errorf("config: OCTOBRIDGE_TRACKS must be 8 or 16, got %d", n)
		}
		cfg.Tracks = n
	}

	if v := os.Getenv("OCTOBRIDGE_SAMPLE_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: OCTOBRIDGE_SAMPLE_RATE: %w", err)
		}
		switch n {
		case 44100, 48000, 96000:
			cfg.SampleRate = n
		default:
			return Config{}, fmt.Errorf("config: OCTOBRIDGE_SAMPLE_RATE must be one of 44100, 48000, 96000, got %d", n)
		}
	}

	return cfg, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// parseDebug turns the DEBUG env var (spec.md §6: "Log verbosity threshold
// (int)") into a charmbracelet/log level. Accepts either a log level name
// or an integer threshold (0=debug .. 3=error), defaulting to info.
func parseDebug(v string) log.Level {
	if v == "" {
		return log.InfoLevel
	}
	if lvl, err := log.ParseLevel(v); err == nil {
		return lvl
	}
	if n, err := strconv.Atoi(v); err == nil {
		switch {
		case n <= 0:
			return log.DebugLevel
		case n == 1:
			return log.InfoLevel
		case n == 2:
			return log.WarnLevel
		default:
			return log.ErrorLevel
		}
	}
	return log.InfoLevel
}
