// Package synth adapts the guitar-synth engine (spec §4.H, grounded on
// `devices/synth.py` and `devices/sy1000/instruments.py`) onto
// internal/bus.Device: patch scrolling, per-string volume/pan, per-
// instrument parameter edits, master crossfade, and bar-count propagation,
// all translated to and from sysex through internal/instrument's registry
// and internal/param's codecs.
package synth

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/instrument"
	"github.com/octobridge/octobridge/internal/message"
	"github.com/octobridge/octobridge/internal/midiio"
	"github.com/octobridge/octobridge/internal/param"
)

func scroll(n, lo, hi int) int {
	if n < lo {
		return hi
	}
	if n > hi {
		return lo
	}
	return n
}

func clip(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Device is the SY-1000-shaped synth adapter.
//
// ToMessages is reachable both from the bus's single dispatcher goroutine
// and from this device's own midiio.SelfLoop goroutine (its sysex replies
// loop back to itself, spec §4.B), so mu guards every field ToMessages'
// sub-dispatch touches.
type Device struct {
	logger   *log.Logger
	name     string
	port     midiio.Port
	registry *instrument.Registry
	out      chan message.Message

	mu    sync.Mutex
	patch int
	bars  int
}

// New wraps port as a synth device addressing registry's instruments, and
// starts the self-loop that lets the synth's own sysex replies reach its
// own ToMessages (see midiio.SelfLoop).
func New(logger *log.Logger, name string, port midiio.Port, registry *instrument.Registry) *Device {
	d := &Device{logger: logger, name: name, port: port, registry: registry, bars: 2, out: make(chan message.Message, 64)}
	go midiio.SelfLoop(port, d.SelectMessage, d.ToMessages, d.rawSend, d.out)
	return d
}

func (d *Device) Name() string { return d.name }

// InitActions requests the current patch number, forces stereo-link mode,
// and centers the master crossfader (spec §4.H, `SY1000.init_actions`). The
// string-bank requests (`get_strings`) are not emitted here: the source
// gates them on decoding the patch-number reply, which sysexIn's common-
// family branch now does.
func (d *Device) InitActions() []message.Message {
	out := []message.Message{}
	if req, err := message.EncodeSysex(message.OpRequest, message.AddrCommon, [2]int{0, 0}, []int{0, 0, 0, 4}); err == nil {
		out = append(out, req)
	}
	if link, err := message.EncodeSysex(message.OpCommand, message.AddrInout, [2]int{0, 52}, []int{1, 0}); err == nil {
		out = append(out, link)
	}
	out = append(out, d.xfaderMessages(64)...)
	return out
}

// ExternalMessage accepts the control vocabulary the synth reacts to (spec
// §4.H: "patch, strings, synth_param, steps, seq, xfader, bars").
func (d *Device) ExternalMessage(msg message.Message) bool {
	in, ok := msg.(message.Internal)
	if !ok {
		return false
	}
	switch in.Type {
	case message.TypePatch, message.TypeStrings, message.TypeSynth, message.TypeSteps, message.TypeSeq, message.TypeXfader, message.TypeBars, message.TypeStop:
		return true
	}
	return false
}

// SelectMessage accepts sysex replies and the MIDI System Real-Time
// transport triggers arriving on the same hardware connection — this
// device's port is the one the clock pulses ride in on, so it is the one
// that must forward them onward for internal/device/audioadapter to
// consume (spec §6).
func (d *Device) SelectMessage(msg message.Message) bool {
	if msg.Kind() == message.KindSysex {
		return true
	}
	in, ok := msg.(message.Internal)
	if !ok {
		return false
	}
	switch in.Type {
	case message.TypeClock, message.TypeStart, message.TypeStop, message.TypeContinue:
		return true
	}
	return false
}

func (d *Device) ToMessages(msg message.Message) []message.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch m := msg.(type) {
	case message.Sysex:
		return d.sysexIn(m)
	case message.Internal:
		switch m.Type {
		case message.TypePatch:
			return d.patchIn(m.Data[0])
		case message.TypeStrings:
			return d.stringsIn(m.Data)
		case message.TypeSynth:
			return d.synthIn(m.Data)
		case message.TypeXfader:
			return d.xfaderMessages(m.Data[0])
		case message.TypeBars:
			return d.barsIn(m.Data[0])
		case message.TypeSteps:
			return d.stepsIn(m.Data)
		case message.TypeSeq:
			return d.seqIn(m.Data)
		case message.TypeClock, message.TypeContinue:
			return []message.Message{m}
		case message.TypeStart, message.TypeStop:
			// Raw wire System Real-Time triggers carry no Data; the
			// clock-engine's own start/stop emissions always carry at
			// least one element (bars, or a 0 placeholder). Only forward
			// the former — forwarding the latter back onto the bus would
			// echo audioadapter's own transport event right back at it.
			if len(m.Data) == 0 {
				return []message.Message{m}
			}
		}
	}
	return nil
}

func (d *Device) Send(msg message.Message) {
	d.rawSend(msg)
}

func (d *Device) rawSend(msg message.Message) {
	if err := d.port.Send(msg); err != nil {
		d.logger.Error("synth send failed", "err", err)
	}
}

func (d *Device) Publish() <-chan message.Message { return d.out }

// patchIn scrolls the current patch number 0..399 and requests its load
// (spec §4.H, `_patch_in`).
func (d *Device) patchIn(delta int) []message.Message {
	d.patch = scroll(d.patch+delta, 0, 399)
	digits := hexDigits(d.patch)
	sysex, err := message.EncodeSysex(message.OpCommand, message.AddrCommon, [2]int{0, 0}, digits)
	if err != nil {
		d.logger.Warn("patch encode failed", "err", err)
		return nil
	}
	return []message.Message{sysex}
}

func hexDigits(n int) []int {
	out := make([]int, 4)
	for i := 3; i >= 0; i-- {
		out[i] = n & 0xf
		n >>= 4
	}
	return out
}

// stringsIn fans a (channel, control, velocity) string edit out to every
// instrument controller 16..23 addresses (spec §4.H, `select_by_control`).
func (d *Device) stringsIn(data []int) []message.Message {
	channel, control, velocity := data[0], data[1], data[2]
	if channel == 6 || channel == 7 {
		return nil
	}
	idx := param.StringIndex(channel, control)
	values := param.NewString(0, 0).Values(channel, velocity)
	var out []message.Message
	for _, ins := range selectByControl(d.registry, control) {
		body := append([]int{ins.SlotIndex, idx}, values...)
		sysex, err := message.EncodeSysex(message.OpCommand, message.AddrPatch, [2]int{0, 0}, body)
		if err != nil {
			continue
		}
		out = append(out, sysex)
	}
	return out
}

// selectByControl mirrors `Instruments.select_by_control`: controllers
// 16-18 each target one of the first 3 registry slots, 19/23 target all
// three, 20-22 the same 3 slots shifted.
func selectByControl(registry *instrument.Registry, control int) []instrument.Instrument {
	all := registry.All()
	if len(all) < 3 {
		return nil
	}
	want := map[int][]int{
		16: {0}, 17: {1}, 18: {2},
		19: {0, 1, 2},
		20: {0}, 21: {1}, 22: {2},
		23: {0, 1, 2},
	}
	var out []instrument.Instrument
	for _, i := range want[control] {
		out = append(out, all[i])
	}
	return out
}

// synthIn edits one instrument's control-indexed parameter (spec §4.H,
// `DynaSynth._control_in` generalized across the shared prototype shape:
// control 0/1 are the Pot params, 2 the filter Bipolar, 6/7 the two LFOs).
func (d *Device) synthIn(data []int) []message.Message {
	instrIdx, control, value := data[0], data[1], data[2]
	ins, idx := d.registry.Get(instrIdx)
	if idx < 0 {
		return nil
	}
	var body []int
	switch control {
	case 0:
		if len(ins.Params) > 0 {
			body = ins.Params[0].Send(ins.Params[0].FromVel(value))
		}
	case 1:
		if len(ins.Params) > 1 {
			body = ins.Params[1].Send(ins.Params[1].FromVel(value))
		}
	case 2:
		if len(ins.Bipolars) > 0 {
			body = ins.Bipolars[0].Send(ins.Bipolars[0].FromVel(value))
		}
	case 6:
		if len(ins.LFOs) > 0 {
			body = ins.LFOs[0].Send(value)
		}
	case 7:
		if len(ins.LFOs) > 1 {
			body = ins.LFOs[1].Send(value)
		}
	}
	if body == nil {
		return nil
	}
	sysex, err := message.EncodeSysex(message.OpCommand, message.AddrPatch, [2]int{0, 0}, body)
	if err != nil {
		return nil
	}
	return []message.Message{sysex}
}

// xfaderMessages builds the stereo L/R output-level sysex for a 0..127
// crossfade value (spec §4.H, `_xfader_in`).
func (d *Device) xfaderMessages(value int) []message.Message {
	v := clip(value*200/127, 0, 200)
	var left, right int
	if v < 100 {
		left, right = 200-v, v
	} else {
		left, right = v, 200-v
	}
	pair := append(splitHex(left), splitHex(right)...)
	data := append(append([]int{}, pair...), pair...)
	sysex, err := message.EncodeSysex(message.OpCommand, message.AddrInout, [2]int{0, 44}, data)
	if err != nil {
		return nil
	}
	return []message.Message{sysex}
}

// splitHex always returns the 2 hex nibbles of a 0..255 value (spec
// §4.H simplifies the source's variable-width `split_hex` to a fixed pair,
// since every caller here addresses an 8-bit-wide field).
func splitHex(v int) []int {
	return []int{(v >> 4) & 0xf, v & 0xf}
}

// barsIn clips and stores the current bar count. No other method of this
// device reads it, so no sysex is sent for a bars change.
func (d *Device) barsIn(bars int) []message.Message {
	d.bars = clip(bars, 1, 8)
	return nil
}

// stepsIn writes a full step-sequencer lane (spec §4.H, `_steps_in`):
// each step is written as the lane's per-step minimum last read back from
// the synth, followed by the step's wire value (see param.Grid.Steps).
func (d *Device) stepsIn(data []int) []message.Message {
	instrIdx, target, steps := data[0], data[1], data[2:]
	ins, idx := d.registry.Get(instrIdx)
	if idx < 0 || ins.Sequencer == nil || target < 0 || target > 2 {
		return nil
	}
	body := ins.Sequencer.Steps(target, steps)
	sysex, err := message.EncodeSysex(message.OpCommand, message.AddrPatch, [2]int{0, 0}, body)
	if err != nil {
		return nil
	}
	return []message.Message{sysex}
}

// seqIn writes a single sequencer target-selection cell (spec §4.H,
// `_seq_in`).
func (d *Device) seqIn(data []int) []message.Message {
	instrIdx, param_, value := data[0], data[1], data[2]
	ins, idx := d.registry.Get(instrIdx)
	if idx < 0 || ins.Sequencer == nil {
		return nil
	}
	body := ins.Sequencer.Seq(param_, value)
	sysex, err := message.EncodeSysex(message.OpCommand, message.AddrPatch, [2]int{0, 0}, body)
	if err != nil {
		return nil
	}
	return []message.Message{sysex}
}

// sysexIn decodes an inbound reply and dispatches on its address family and
// field, per spec §4.H/`SY1000._sysex_in`:
//   - common: decode the 4-nibble patch number, then request the string
//     banks (`get_strings`).
//   - patch, field 1: reinstate the instrument by type and re-issue its
//     request().
//   - patch, field 6: the string vol/pan bank.
//   - patch, any other field: dispatch to the matching parameter's Receive.
//
// Every patch-family body here carries its own two-element address
// (instrument slot, field) ahead of the data, the same convention stringsIn
// already writes with — EncodeSysex's suffix stays [0,0] throughout (see
// synthIn/stepsIn/seqIn), so decoded.Body, not decoded.Suffix, carries it.
func (d *Device) sysexIn(s message.Sysex) []message.Message {
	decoded, err := message.DecodeSysex(s)
	if err != nil {
		d.logger.Debug("dropping unrecognized sysex", "err", err)
		return nil
	}
	switch decoded.Family {
	case message.AddrCommon:
		return d.commonIn(decoded.Body)
	case message.AddrPatch:
		return d.patchSysexIn(decoded.Body)
	default:
		return nil
	}
}

// commonIn decodes the patch-number reply and requests the string banks
// (spec §4.H, `_sysex_in`'s `data[1] == 1` branch).
func (d *Device) commonIn(body []int) []message.Message {
	if len(body) < 4 {
		return nil
	}
	digits := body[len(body)-4:]
	patch := 0
	for _, nibble := range digits {
		patch = patch<<4 | (nibble & 0xf)
	}
	d.patch = patch
	return d.getStrings()
}

// getStrings requests every registered instrument's type+volume byte and
// string vol/pan bank (spec §4.H, `SY1000.get_strings`).
func (d *Device) getStrings() []message.Message {
	var out []message.Message
	for _, ins := range d.registry.All() {
		if sysex, err := message.EncodeSysex(message.OpRequest, message.AddrPatch, [2]int{0, 0}, []int{ins.SlotIndex, 1, 0, 0, 0, 2}); err == nil {
			out = append(out, sysex)
		}
		if sysex, err := message.EncodeSysex(message.OpRequest, message.AddrPatch, [2]int{0, 0}, []int{ins.SlotIndex, 6, 0, 0, 0, 12}); err == nil {
			out = append(out, sysex)
		}
	}
	return out
}

// patchSysexIn dispatches a patch-family reply by its field byte
// (spec §4.H, `_sysex_in`'s `data[3]` switch).
func (d *Device) patchSysexIn(body []int) []message.Message {
	if len(body) < 2 {
		return nil
	}
	instrIdx, field, data := body[0], body[1], body[2:]
	ins, idx := d.registry.Get(instrIdx)
	if idx < 0 {
		return nil
	}

	switch field {
	case 1: // instrument type (+ volume, unused)
		if len(data) == 0 {
			return nil
		}
		d.registry.Set(instrIdx, instrument.TypeTag(data[0]))
		ins, idx = d.registry.Get(instrIdx)
		if idx < 0 {
			return nil
		}
		var out []message.Message
		for _, row := range ins.Request() {
			if sysex, err := message.EncodeSysex(message.OpRequest, message.AddrPatch, [2]int{0, 0}, row); err == nil {
				out = append(out, sysex)
			}
		}
		return out
	case 6: // string vol/pan
		d.logger.Debug("string bank readback", "instrument", instrIdx, "values", data)
		return nil
	default:
		return d.paramIn(ins, instrIdx, field, data)
	}
}

// paramIn matches field (the instrument-relative byte the source addresses
// each parameter with) against this instrument's Params/Bipolars/LFOs/
// Sequencer and dispatches to whichever owns it, reconstructing the
// combined address prototypes.go folds (slot+field) to compare against each
// parameter's Origin.Address.
func (d *Device) paramIn(ins instrument.Instrument, instrIdx, field int, data []int) []message.Message {
	addr := instrIdx + field
	switch {
	case len(ins.Params) > 0 && ins.Params[0].Origin.Address == addr:
		return []message.Message{message.Internal{Type: message.TypeSynth, Data: []int{instrIdx, 0, ins.Params[0].Receive(data)}}}
	case len(ins.Params) > 1 && ins.Params[1].Origin.Address == addr:
		return []message.Message{message.Internal{Type: message.TypeSynth, Data: []int{instrIdx, 1, ins.Params[1].Receive(data)}}}
	case len(ins.Bipolars) > 0 && ins.Bipolars[0].Origin.Address == addr:
		return []message.Message{message.Internal{Type: message.TypeSynth, Data: []int{instrIdx, 2, ins.Bipolars[0].Receive(data)}}}
	case len(ins.LFOs) > 0 && ins.LFOs[0].Origin.Address == addr:
		return []message.Message{message.Internal{Type: message.TypeSynth, Data: []int{instrIdx, 6, ins.LFOs[0].Receive(data)}}}
	case len(ins.LFOs) > 1 && ins.LFOs[1].Origin.Address == addr:
		return []message.Message{message.Internal{Type: message.TypeSynth, Data: []int{instrIdx, 7, ins.LFOs[1].Receive(data)}}}
	case ins.Sequencer != nil && ins.Sequencer.Origin.Address == addr:
		var out []message.Message
		for _, row := range ins.Sequencer.Receive(data) {
			out = append(out, message.Internal{Type: message.TypeSteps, Data: append([]int{instrIdx, row.Target}, row.Values...)})
		}
		return out
	}
	return nil
}
