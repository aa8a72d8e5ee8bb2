// Package paaudio is the default concrete internal/looper.Stream backed by
// github.com/gordonklaus/portaudio (spec §6's audio backend interface).
package paaudio

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/octobridge/octobridge/internal/looper"
	"github.com/octobridge/octobridge/internal/octerr"
)

const framesPerBuffer = 256

// openRetries/openBackoff mirror the source's `retry(action, args,
// timeout=3, retries=5)` hardware-connect helper.
const openRetries = 5
const openBackoff = 3 * time.Second

// Stream wraps a portaudio.Stream as an internal/looper.Stream.
type Stream struct {
	logger *log.Logger
	pa     *portaudio.Stream
	tracks int

	in, out, scratch [][]float32
}

// New returns a Stream that logs through logger.
func New(logger *log.Logger) *Stream {
	return &Stream{logger: logger}
}

// Open opens a duplex PortAudio stream on the default device at
// sampleRate with tracks input/output channels, retrying the device open
// per the fixed retry/backoff policy (spec §5: "port-open uses a fixed
// retry/backoff").
func (s *Stream) Open(sampleRate float64, tracks int, cb looper.Callback) error {
	s.tracks = tracks
	s.in = allocBuffer(framesPerBuffer, tracks)
	s.out = allocBuffer(framesPerBuffer, tracks)
	s.scratch = allocBuffer(framesPerBuffer, tracks)

	callback := func(in, out []float32) {
		deinterleave(in, s.in, tracks)
		more := cb(s.in, s.out, s.scratch, framesPerBuffer)
		interleave(s.out, out, tracks)
		if !more {
			go s.Close()
		}
	}

	var pa *portaudio.Stream
	var err error
	for attempt := 0; attempt <= openRetries; attempt++ {
		pa, err = portaudio.OpenDefaultStream(tracks, tracks, sampleRate, framesPerBuffer, callback)
		if err == nil {
			break
		}
		if attempt == openRetries {
			return &octerr.PortOpenFailure{Device: "default", Retries: openRetries, Cause: err}
		}
		s.logger.Warn("audio device open failed, retrying", "attempt", attempt+1, "err", err)
		time.Sleep(openBackoff)
	}

	s.pa = pa
	if err := s.pa.Start(); err != nil {
		return &octerr.AudioStreamFailure{Cause: err}
	}
	s.logger.Info("audio stream started", "samplerate", sampleRate, "tracks", tracks)
	return nil
}

// Close stops and closes the underlying PortAudio stream.
func (s *Stream) Close() error {
	if s.pa == nil {
		return nil
	}
	if err := s.pa.Stop(); err != nil {
		return &octerr.AudioStreamFailure{Cause: err}
	}
	return s.pa.Close()
}

func allocBuffer(frames, tracks int) [][]float32 {
	buf := make([][]float32, frames)
	for i := range buf {
		buf[i] = make([]float32, tracks)
	}
	return buf
}

func deinterleave(flat []float32, dst [][]float32, tracks int) {
	for i := range dst {
		copy(dst[i], flat[i*tracks:(i+1)*tracks])
	}
}

func interleave(src [][]float32, flat []float32, tracks int) {
	for i := range src {
		copy(flat[i*tracks:(i+1)*tracks], src[i])
	}
}
