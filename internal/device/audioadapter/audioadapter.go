// Package audioadapter adapts octobridge's clock and looper engines (spec
// §4.C, §4.G, grounded on `devices/metronome.py` and `devices/mixer.py`)
// onto internal/bus.Device. Unlike `devices/metronome.py`'s own MIDI
// connection, this device owns no hardware port of its own: the clock
// pulses and transport triggers it needs arrive over the bus, forwarded
// by internal/device/synth from the shared hardware connection, since two
// independent listeners on the same physical port is not a connection
// model this hub relies on.
package audioadapter

import (
	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/clock"
	"github.com/octobridge/octobridge/internal/looper"
	"github.com/octobridge/octobridge/internal/message"
)

// Device is the clock/mixer bus glue: no wire transport, pure Internal
// message in, Internal message out.
type Device struct {
	logger    *log.Logger
	name      string
	metronome *clock.Metronome
	looper    *looper.Looper
	out       chan message.Message
}

// New wires metronome and looper together behind the bus contract.
func New(logger *log.Logger, name string, metronome *clock.Metronome, loop *looper.Looper) *Device {
	return &Device{logger: logger, name: name, metronome: metronome, looper: loop, out: make(chan message.Message, 64)}
}

func (d *Device) Name() string { return d.name }

func (d *Device) InitActions() []message.Message { return nil }

// ExternalMessage accepts the clock/transport triggers forwarded from the
// hardware connection plus the mixer control vocabulary (spec §4.C, §4.G).
func (d *Device) ExternalMessage(msg message.Message) bool {
	in, ok := msg.(message.Internal)
	if !ok {
		return false
	}
	switch in.Type {
	case message.TypeClock, message.TypeStart, message.TypeStop, message.TypeContinue,
		message.TypeBars, message.TypePlay, message.TypeRec, message.TypeToggle, message.TypeOverdub,
		message.TypeVolume, message.TypeXfade, message.TypeXfader, message.TypePhrase:
		return true
	}
	return false
}

// SelectMessage: this device has no hardware port, so nothing of its own
// ever needs self-processing.
func (d *Device) SelectMessage(message.Message) bool { return false }

func (d *Device) ToMessages(msg message.Message) []message.Message {
	in, ok := msg.(message.Internal)
	if !ok {
		return nil
	}
	switch in.Type {
	case message.TypeClock:
		return d.pulseIn()
	case message.TypeStart:
		if len(in.Data) == 0 {
			return d.startIn()
		}
	case message.TypeStop:
		return d.stopIn()
	case message.TypeBars:
		return d.barsIn(in.Data[0])
	case message.TypePlay:
		d.looper.QueuePlay()
	case message.TypeRec:
		d.looper.QueueRec()
	case message.TypeToggle:
		d.looper.QueueToggle()
	case message.TypeOverdub:
		d.looper.QueueOverdub()
	case message.TypeVolume:
		d.looper.SetVolume(in.Data[0], float32(in.Data[1])/127)
	case message.TypeXfade:
		d.looper.SetPan(in.Data[0], float32(in.Data[1])/127)
	case message.TypeXfader:
		d.looper.SetMasterX(float32(in.Data[0]) / 127)
	case message.TypePhrase:
		d.looper.QueuePhrase(in.Data[0])
	}
	return nil
}

// Send has no hardware to reach, so the messages ToMessages produces
// (beats, domain start/stop, ...) are republished for the rest of the bus
// mesh to pick up instead of being dropped on the floor.
func (d *Device) Send(msg message.Message) {
	select {
	case d.out <- msg:
	default:
		d.logger.Warn("audioadapter publish buffer full, dropping", "msg", msg)
	}
}

func (d *Device) Publish() <-chan message.Message { return d.out }

// pulseIn advances the metronome one MIDI clock tick and, on the pulse
// that starts a new phrase, applies every deferred looper transition
// (spec §4.G: "deferred to the next start pulse").
func (d *Device) pulseIn() []message.Message {
	events := d.metronome.Pulse()
	out := make([]message.Message, 0, len(events))
	for _, ev := range events {
		if ev.Type == message.TypeStart {
			d.looper.Start()
		}
		out = append(out, ev)
	}
	return out
}

// startIn handles the raw MIDI Start byte: force the metronome back to
// counter 0 and apply the looper's deferred state immediately, matching
// the wire-level restart `metronome.py`'s own connection would see.
func (d *Device) startIn() []message.Message {
	ev := d.metronome.Start()
	d.looper.Start()
	return []message.Message{ev}
}

// stopIn handles both the transport "stop" button and the raw MIDI Stop
// byte identically: queue a looper stop (applied at the next start) and
// emit the metronome's stop event. The metronome's counter is unaffected.
func (d *Device) stopIn() []message.Message {
	d.looper.QueueStop()
	return []message.Message{d.metronome.Stop()}
}

// barsIn queues the new bar count on both the metronome (deferred to the
// next beat) and the looper (deferred to the next start), per spec §4.C
// and §4.G's independent bars-deferral contracts.
func (d *Device) barsIn(bars int) []message.Message {
	d.metronome.SetBars(bars)
	d.looper.QueueBars(bars)
	return nil
}
