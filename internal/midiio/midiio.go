// Package midiio is octobridge's MIDI transport boundary (spec §6: "a MIDI
// backend reduced to an interface — which concrete library provides it is
// out of scope"). It defines the Port devices speak through and a codec
// between wire bytes and internal/message.Message, plus a concrete
// implementation backed by gitlab.com/gomidi/midi/v2.
package midiio

import "github.com/octobridge/octobridge/internal/message"

// Port is the transport a device sends and receives raw MIDI through.
// Concrete ports (Go) are plain wrappers around a physical or virtual MIDI
// connection; octobridge never talks to a driver directly outside this
// package.
type Port interface {
	// Send writes msg to the wire, encoding it first.
	Send(msg message.Message) error
	// Recv returns the channel messages arrive on. Closed when the port
	// closes.
	Recv() <-chan message.Message
	// Close releases the underlying connection.
	Close() error
}

// SelfLoop drives a port-backed device's own hardware traffic: the bus
// mesh only connects DISTINCT devices (spec §4.B skips self-pairs), so a
// device's own wire input can never reach its own ToMessages through the
// bus — this is the missing other half of bus.Device for anything
// wrapping a Port directly. For each raw message port.Recv() yields that
// accept reports wanting (spec §4.B: "select_message ... applied by the
// device's own poll loop"), transform runs it through the device's
// ToMessages; results that are wire-representable are sent back out
// through send (LED/state reflection), and Internal results are handed to
// out so the bus can route them to every other device. Blocks until
// port's receive channel closes, then closes out itself; callers run it in
// its own goroutine and must not close out themselves.
func SelfLoop(port Port, accept func(message.Message) bool, transform func(message.Message) []message.Message, send func(message.Message), out chan<- message.Message) {
	defer close(out)
	for raw := range port.Recv() {
		if !accept(raw) {
			continue
		}
		for _, result := range transform(raw) {
			if result.Kind() == message.KindInternal {
				out <- result
			} else {
				send(result)
			}
		}
	}
}

const (
	statusNoteOff  = 0x80
	statusNoteOn   = 0x90
	statusCC       = 0xB0
	statusSysex    = 0xF0
	statusSysexEnd = 0xF7

	// System Real-Time: single-byte, no channel nibble.
	statusClock    = 0xF8
	statusStart    = 0xFA
	statusContinue = 0xFB
	statusStop     = 0xFC
)

// Encode turns a Message into raw MIDI bytes ready to hand to a Port's
// underlying driver.
func Encode(msg message.Message) []byte {
	switch m := msg.(type) {
	case message.NoteOn:
		return []byte{byte(statusNoteOn | m.Channel&0x0f), byte(m.Note), byte(m.Velocity)}
	case message.NoteOff:
		return []byte{byte(statusNoteOff | m.Channel&0x0f), byte(m.Note), byte(m.Velocity)}
	case message.ControlChange:
		return []byte{byte(statusCC | m.Channel&0x0f), byte(m.Control), byte(m.Value)}
	case message.Sysex:
		out := make([]byte, 0, len(m.Bytes)+2)
		out = append(out, statusSysex)
		out = append(out, m.Bytes...)
		out = append(out, statusSysexEnd)
		return out
	default:
		return nil
	}
}

// Decode parses raw MIDI bytes into a Message, or ok=false for anything
// octobridge doesn't model (aftertouch, program change, ...). The System
// Real-Time clock/start/continue/stop bytes decode to Internal messages.
func Decode(raw []byte) (message.Message, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	status := raw[0]
	switch status & 0xf0 {
	case statusNoteOn:
		if len(raw) < 3 {
			return nil, false
		}
		return message.NewNote(int(status&0x0f), int(raw[1]), int(raw[2])), true
	case statusNoteOff:
		if len(raw) < 3 {
			return nil, false
		}
		return message.NoteOff{Channel: int(status & 0x0f), Note: int(raw[1]), Velocity: int(raw[2])}, true
	case statusCC:
		if len(raw) < 3 {
			return nil, false
		}
		return message.ControlChange{Channel: int(status & 0x0f), Control: int(raw[1]), Value: int(raw[2])}, true
	}
	if status == statusSysex {
		body := raw[1:]
		if len(body) > 0 && body[len(body)-1] == statusSysexEnd {
			body = body[:len(body)-1]
		}
		return message.Sysex{Bytes: append([]byte(nil), body...)}, true
	}

	switch status {
	case statusClock:
		return message.NewInternal(message.TypeClock), true
	case statusStart:
		return message.NewInternal(message.TypeStart), true
	case statusStop:
		return message.NewInternal(message.TypeStop), true
	case statusContinue:
		return message.NewInternal(message.TypeContinue), true
	}
	return nil, false
}
