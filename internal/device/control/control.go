// Package control adapts an APC40-shaped control surface (spec §4.H,
// grounded on `devices/control.py`) onto internal/bus.Device: transport
// buttons, patch/phrase scrolling, per-string volume/pan, the master
// crossfader and per-instrument synth macros, and the double-click
// shutdown gesture, all reflected back to the surface's LEDs through
// internal/block.
package control

import (
	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/block"
	"github.com/octobridge/octobridge/internal/bus"
	"github.com/octobridge/octobridge/internal/message"
	"github.com/octobridge/octobridge/internal/midiio"
)

// Device is the APC40-shaped control surface adapter.
type Device struct {
	logger *log.Logger
	name   string
	port   midiio.Port
	bus    *bus.Bus
	out    chan message.Message

	root    *block.Nav
	xfade   *block.CCBlock
	strings *block.StringBlock
	bars    *block.Stack
}

// New wraps port as a control-surface device and starts the self-loop
// that lets its own CC/note traffic reach its own ToMessages (see
// midiio.SelfLoop). bus is held only to trigger a double-click shutdown
// (note 98), not to route ordinary messages.
func New(logger *log.Logger, name string, port midiio.Port, b *bus.Bus) *Device {
	root := block.NewNav("root", 0, 4) // page 0 = master xfade, 1..3 = instrument 0..2
	xfade := block.NewCCBlock("xfade", 48, 8, 8)
	xfade.Parent = root.Block
	d := &Device{
		logger:  logger,
		name:    name,
		port:    port,
		bus:     b,
		out:     make(chan message.Message, 64),
		root:    root,
		xfade:   xfade,
		strings: block.NewStringBlock("strings", 16, 1, 8),
		bars:    block.NewStack("bars", 50, 8),
	}
	go midiio.SelfLoop(port, d.SelectMessage, d.ToMessages, d.rawSend, d.out)
	return d
}

func (d *Device) Name() string { return d.name }

// InitActions reproduces `APC40.__init__`'s LED priming burst: full
// volume/pan fields lit, both bar LEDs off, and the master/page-0
// crossfader centered.
func (d *Device) InitActions() []message.Message {
	var out []message.Message
	for ch := 0; ch < 8; ch++ {
		out = append(out, message.ControlChange{Channel: ch, Control: 7, Value: 127})
		for ctl := 16; ctl < 20; ctl++ {
			out = append(out, message.ControlChange{Channel: ch, Control: ctl, Value: 127})
		}
		for _, ctl := range append(rangeInts(20, 24), rangeInts(48, 56)...) {
			out = append(out, message.ControlChange{Channel: ch, Control: ctl, Value: 64})
		}
		for _, note := range []int{48, 49} {
			out = append(out, message.NewNote(ch, note, 0))
		}
	}
	out = append(out, message.ControlChange{Channel: 0, Control: 14, Value: 127})
	out = append(out, message.ControlChange{Channel: 0, Control: 15, Value: 64})
	d.bars.Update(1)
	out = append(out, d.bars.Current()...)
	return out
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

// ExternalMessage accepts the transport-clock blink trigger; everything
// else the surface does is wire-originated.
func (d *Device) ExternalMessage(msg message.Message) bool {
	in, ok := msg.(message.Internal)
	return ok && in.Type == message.TypeBeat
}

// SelectMessage accepts the raw wire messages the surface drives: CC and
// both note directions.
func (d *Device) SelectMessage(msg message.Message) bool {
	switch msg.Kind() {
	case message.KindControlChange, message.KindNoteOn, message.KindNoteOff:
		return true
	}
	return false
}

func (d *Device) ToMessages(msg message.Message) []message.Message {
	switch m := msg.(type) {
	case message.ControlChange:
		return d.controlChangeIn(m)
	case message.NoteOn:
		return d.noteOnIn(m)
	case message.NoteOff:
		return d.noteIn(m.Channel, m.Note, m.Velocity)
	case message.Internal:
		if m.Type == message.TypeBeat {
			return []message.Message{message.NewNote(0, 62, 127)}
		}
	}
	return nil
}

func (d *Device) Send(msg message.Message) {
	d.rawSend(msg)
}

func (d *Device) rawSend(msg message.Message) {
	if err := d.port.Send(msg); err != nil {
		d.logger.Error("control send failed", "err", err)
	}
}

func (d *Device) Publish() <-chan message.Message { return d.out }

// controlChangeIn mirrors `APC40._control_change_in`: transport/volume
// controls, the master and per-instrument crossfaders (via CCBlock), and
// the per-string volume/pan bank (via StringBlock), whose wire-echo runs
// alongside a direct "strings" emission decoupled from the block tree.
func (d *Device) controlChangeIn(cc message.ControlChange) []message.Message {
	channel, control, value := cc.Channel, cc.Control, cc.Value

	switch {
	case control == 64:
		return []message.Message{message.NewInternal(message.TypeToggle)}
	case control == 67:
		return []message.Message{message.NewInternal(message.TypeStop)}
	case control == 7:
		return []message.Message{message.NewInternal(message.TypeVolume, channel, value)}
	case control == 14:
		out := make([]message.Message, 0, 8)
		for ch := 0; ch < 8; ch++ {
			out = append(out, message.NewInternal(message.TypeVolume, ch, value))
		}
		return out
	case control == 15:
		return []message.Message{message.NewInternal(message.TypeXfader, value)}
	case control >= 48 && control <= 55:
		d.xfade.Update(0, control-48, value)
		return []message.Message{d.xfade.Message(control, channel, value)}
	case control >= 16 && control <= 23:
		out := d.strings.Message(control, channel, value)
		if channel < 6 {
			out = append(out, message.NewInternal(message.TypeStrings, channel, control, value))
		}
		return out
	}
	return nil
}

// noteOnIn mirrors `APC40._note_on_in`: transport buttons, patch/phrase
// scrolling, and the double-click shutdown gesture on note 98.
func (d *Device) noteOnIn(n message.NoteOn) []message.Message {
	switch n.Note {
	case 91:
		out := []message.Message{message.NewInternal(message.TypePlay)}
		for ch := 0; ch <= 8; ch++ {
			out = append(out, message.NewNote(ch, 62, 127))
		}
		return out
	case 92:
		out := []message.Message{message.NewInternal(message.TypeStop)}
		for ch := 0; ch <= 8; ch++ {
			out = append(out, message.NewNote(ch, 62, 0))
		}
		return out
	case 93:
		return []message.Message{message.NewInternal(message.TypeRec)}
	case 94:
		return []message.Message{message.NewInternal(message.TypePatch, -1)}
	case 95:
		return []message.Message{message.NewInternal(message.TypePatch, 1)}
	case 96:
		return []message.Message{message.NewInternal(message.TypePatch, 4)}
	case 97:
		return []message.Message{message.NewInternal(message.TypePatch, -4)}
	case 100:
		return []message.Message{message.NewInternal(message.TypePhrase, 1)}
	case 101:
		return []message.Message{message.NewInternal(message.TypePhrase, -1)}
	case 98:
		d.bus.TriggerShutdown()
		return nil
	case 87, 88, 89, 90:
		return d.root.NextPage(n.Note - 87)
	}
	return d.noteIn(n.Channel, n.Note, n.Velocity)
}

// noteIn mirrors `APC40._note_in`: the shared tail every note on/off
// reaches — a channel-7 pass-through for notes 48/49 and the bars row.
func (d *Device) noteIn(channel, note, value int) []message.Message {
	switch note {
	case 48, 49:
		if channel == 7 {
			out := make([]message.Message, 0, 7)
			for ch := 0; ch < 7; ch++ {
				out = append(out, message.NewNote(ch, note, value))
			}
			return out
		}
	case 50:
		return d.barsOut(channel + 1)
	}
	return nil
}

// barsOut lights the bars row up to bars-1 and announces the new count
// (spec §4.H, `_bars_out`).
func (d *Device) barsOut(bars int) []message.Message {
	d.bars.Update(bars - 1)
	out := []message.Message{message.NewInternal(message.TypeBars, bars)}
	return append(out, d.bars.Current()...)
}
