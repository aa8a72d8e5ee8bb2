package midiio

import (
	"time"

	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters the default driver
	"github.com/octobridge/octobridge/internal/message"
	"github.com/octobridge/octobridge/internal/octerr"
)

// openRetries/openBackoff mirror the source's `retry(action, args,
// timeout=3, retries=5)` hardware-connect helper — applied here to a MIDI
// port instead of the audio device.
const openRetries = 5
const openBackoff = 3 * time.Second

// gomidiPort is the default Port, backed by gitlab.com/gomidi/midi/v2.
type gomidiPort struct {
	logger *log.Logger
	name   string
	in     drivers.In
	out    drivers.Out
	recv   chan message.Message
	stop   func()
}

// Open finds the named input and output ports (by exact name match) and
// begins listening, retrying both lookups per the fixed retry/backoff
// policy (spec §5).
func Open(logger *log.Logger, name string) (Port, error) {
	var in drivers.In
	var out drivers.Out
	var err error

	for attempt := 0; attempt <= openRetries; attempt++ {
		in, err = midi.FindInPort(name)
		if err == nil {
			out, err = midi.FindOutPort(name)
		}
		if err == nil {
			break
		}
		if attempt == openRetries {
			return nil, &octerr.PortOpenFailure{Device: name, Retries: openRetries, Cause: err}
		}
		logger.Warn("midi port open failed, retrying", "device", name, "attempt", attempt+1, "err", err)
		time.Sleep(openBackoff)
	}

	p := &gomidiPort{logger: logger, name: name, in: in, out: out, recv: make(chan message.Message, 64)}

	stop, err := midi.ListenTo(in, func(raw []byte, _ int32) {
		if msg, ok := Decode(raw); ok {
			p.recv <- msg
		}
	}, midi.UseSysEx())
	if err != nil {
		return nil, &octerr.PortOpenFailure{Device: name, Retries: 0, Cause: err}
	}
	p.stop = stop

	return p, nil
}

func (p *gomidiPort) Send(msg message.Message) error {
	return midi.SendTo(p.out, Encode(msg))
}

func (p *gomidiPort) Recv() <-chan message.Message { return p.recv }

func (p *gomidiPort) Close() error {
	if p.stop != nil {
		p.stop()
	}
	close(p.recv)
	return p.out.Close()
}
