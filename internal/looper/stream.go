package looper

// Stream is the audio backend octobridge drives (spec §6: "concrete audio
// backend... reduced to interfaces"). The default implementation is
// `internal/looper/paaudio`, a PortAudio-backed duplex stream; tests drive
// Callback directly against synthetic buffers without any Stream at all.
type Stream interface {
	// Open starts the duplex stream at the given sample rate and channel
	// count, registering cb as the audio callback.
	Open(sampleRate float64, tracks int, cb Callback) error
	// Close stops and releases the stream.
	Close() error
}

// Callback is the per-buffer audio processing function (spec §4.G): in,
// out, and scratch are frame-major [frames][tracks] buffers, scratch
// being a caller-owned staging buffer reused across calls so the audio
// thread never allocates. It returns false when the looper has run out of
// buffer and the stream should stop.
type Callback func(in, out, scratch [][]float32, frames int) bool
