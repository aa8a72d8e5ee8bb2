package config

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SYNTH_DEVICE", "")
	t.Setenv("CONTROL_DEVICE", "")
	t.Setenv("AUDIO_DEVICE", "")
	t.Setenv("DEBUG", "")
	t.Setenv("OCTOBRIDGE_TRACKS", "")
	t.Setenv("OCTOBRIDGE_SAMPLE_RATE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultSynthDevice, cfg.SynthDevice)
	require.Equal(t, defaultControlDevice, cfg.ControlDevice)
	require.Equal(t, defaultAudioDevice, cfg.AudioDevice)
	require.Equal(t, log.InfoLevel, cfg.DebugLevel)
	require.Equal(t, defaultTracks, cfg.Tracks)
	require.Equal(t, defaultSampleRate, cfg.SampleRate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SYNTH_DEVICE", "Some Synth MIDI 1")
	t.Setenv("CONTROL_DEVICE", "Some Pad MIDI 1")
	t.Setenv("AUDIO_DEVICE", "Some Interface")
	t.Setenv("OCTOBRIDGE_TRACKS", "16")
	t.Setenv("OCTOBRIDGE_SAMPLE_RATE", "96000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Some Synth MIDI 1", cfg.SynthDevice)
	require.Equal(t, "Some Pad MIDI 1", cfg.ControlDevice)
	require.Equal(t, "Some Interface", cfg.AudioDevice)
	require.Equal(t, 16, cfg.Tracks)
	require.Equal(t, 96000, cfg.SampleRate)
}

func TestLoadRejectsBadTracks(t *testing.T) {
	t.Setenv("OCTOBRIDGE_TRACKS", "3")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadSampleRate(t *testing.T) {
	t.Setenv("OCTOBRIDGE_SAMPLE_RATE", "22050")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonIntegerTracks(t *testing.T) {
	t.Setenv("OCTOBRIDGE_TRACKS", "eight")
	_, err := Load()
	require.Error(t, err)
}

func TestParseDebugAcceptsLevelNameAndIntegerThreshold(t *testing.T) {
	require.Equal(t, log.InfoLevel, parseDebug(""))
	require.Equal(t, log.DebugLevel, parseDebug("debug"))
	require.Equal(t, log.DebugLevel, parseDebug("0"))
	require.Equal(t, log.InfoLevel, parseDebug("1"))
	require.Equal(t, log.WarnLevel, parseDebug("2"))
	require.Equal(t, log.ErrorLevel, parseDebug("3"))
}
