// Package message defines octobridge's wire-and-bus message vocabulary
// (spec §3, §4.A): note on/off, control-change, sysex, and the internal
// vocabulary devices speak among themselves, plus the sysex checksum codec
// and queue_merge policy.
//
// The source language dispatched on msg.type via attribute lookup
// (`getattr(self, "_" + msg.type + "_in")`); here that becomes a tagged
// sum type with an exhaustive switch at every dispatch site (spec §9).
package message

import "fmt"

// Kind tags which concrete Message variant a value holds.
type Kind int

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindControlChange
	KindSysex
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindControlChange:
		return "control_change"
	case KindSysex:
		return "sysex"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Message is the common interface implemented by every wire/bus message
// variant. Kind lets dispatch switch exhaustively without a type assertion
// chain at every call site.
type Message interface {
	Kind() Kind
	String() string
}

// NoteOn carries a MIDI note-on event. Channel, Note, Velocity are all
// 0..127; a NoteOn with Velocity 0 is equivalent to NoteOff and producers
// should construct a NoteOff directly (see NewNote).
type NoteOn struct {
	Channel  int
	Note     int
	Velocity int
}

func (NoteOn) Kind() Kind { return KindNoteOn }
func (n NoteOn) String() string {
	return fmt.Sprintf("NoteOn{ch:%d note:%d vel:%d}", n.Channel, n.Note, n.Velocity)
}

// NoteOff carries a MIDI note-off event (or a note-on with velocity 0,
// which collapses to this per spec §3).
type NoteOff struct {
	Channel  int
	Note     int
	Velocity int
}

func (NoteOff) Kind() Kind { return KindNoteOff }
func (n NoteOff) String() string {
	return fmt.Sprintf("NoteOff{ch:%d note:%d vel:%d}", n.Channel, n.Note, n.Velocity)
}

// NewNote builds a NoteOn, or a NoteOff when velocity <= 0, per spec §3's
// "velocity ≤ 0 collapses to NoteOff" rule.
func NewNote(channel, note, velocity int) Message {
	if velocity <= 0 {
		return NoteOff{Channel: channel, Note: note, Velocity: 0}
	}
	return NoteOn{Channel: channel, Note: note, Velocity: velocity}
}

// ControlChange carries a MIDI CC event, all fields 0..127.
type ControlChange struct {
	Channel int
	Control int
	Value   int
}

func (ControlChange) Kind() Kind { return KindControlChange }
func (c ControlChange) String() string {
	return fmt.Sprintf("CC{ch:%d ctl:%d val:%d}", c.Channel, c.Control, c.Value)
}

// Sysex carries a vendor system-exclusive payload as framed 7-bit bytes
// (spec §4.A), including the vendor header, opcode, address, body, and
// trailing checksum.
type Sysex struct {
	Bytes []byte
}

func (Sysex) Kind() Kind { return KindSysex }
func (s Sysex) String() string { return fmt.Sprintf("Sysex{%d bytes}", len(s.Bytes)) }

// Internal carries octobridge's own device-to-device vocabulary: beat,
// start, end, stop, play, rec, toggle, overdub, bars, phrase, patch,
// strings, volume, xfade, xfader, synth, steps, target, seq, length, init
// (spec §3).
type Internal struct {
	Type string
	Data []int
}

func (Internal) Kind() Kind { return KindInternal }
func (i Internal) String() string { return fmt.Sprintf("Internal{%s %v}", i.Type, i.Data) }

// NewInternal is a small convenience constructor.
func NewInternal(typ string, data ...int) Internal {
	return Internal{Type: typ, Data: data}
}

// The internal message vocabulary enumerated by spec §3.
const (
	TypeInit    = "init"
	TypeBeat    = "beat"
	TypeStart   = "start"
	TypeEnd     = "end"
	TypeStop    = "stop"
	TypePlay    = "play"
	TypeRec     = "rec"
	TypeToggle  = "toggle"
	TypeOverdub = "overdub"
	TypeBars    = "bars"
	TypePhrase  = "phrase"
	TypePatch   = "patch"
	TypeStrings = "strings"
	TypeVolume  = "volume"
	TypeXfade   = "xfade"
	TypeXfader  = "xfader"
	TypeSynth   = "synth"
	TypeSteps   = "steps"
	TypeTarget  = "target"
	TypeSeq     = "seq"
	TypeLength  = "length"

	// Wire-level MIDI System Real-Time triggers (spec §6: "clock, start,
	// stop"), decoded off the synth's MIDI port and forwarded onto the bus
	// by internal/device/synth; internal/device/audioadapter consumes them
	// from the bus to drive internal/clock.
	TypeClock    = "clock"
	TypeContinue = "continue"
)
