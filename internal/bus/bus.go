// Package bus implements octobridge's device interconnect (spec §4.B): a
// full mesh of devices, each subscribed to every other's publish stream,
// filtered through its own external_message/select_message/to_messages
// contract.
//
// The source language wired this with reactivex Observables and a
// BehaviorSubject per device, all delivered onto a single scheduler thread;
// here every device owns a buffered channel as its publish stream, one
// goroutine per device forwards that stream onto a single merged channel,
// and one dispatcher goroutine drains the merge and runs every device's
// ExternalMessage/ToMessages/Send serially — the direct channel analogue of
// that single-threaded `device.pipe(filter, flat_map, map)` fan-out, and the
// only way to keep two devices from calling the same target's ToMessages
// concurrently.
package bus

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/message"
)

const shutdownWindow = 400 * time.Millisecond

// Device is the contract every bus participant implements (spec §4.B).
type Device interface {
	// Name identifies the device for logging; also used to skip
	// self-subscription when wiring the mesh.
	Name() string

	// ExternalMessage filters messages originating elsewhere that this
	// device wants to observe at all.
	ExternalMessage(msg message.Message) bool

	// SelectMessage filters raw inbound wire messages this device
	// handles, applied by the device's own poll loop (midiio.SelfLoop).
	// That loop runs no QueueMerge step, so bursts are not coalesced.
	SelectMessage(msg message.Message) bool

	// ToMessages dispatches msg to the matching receive_<type> transform
	// and returns zero or more outbound messages.
	ToMessages(msg message.Message) []message.Message

	// InitActions is the startup burst emitted once all devices are
	// registered (e.g. initial LED state).
	InitActions() []message.Message

	// Send emits msg either on the device's own publish stream or out
	// to the wire, depending on the concrete device.
	Send(msg message.Message)

	// Publish exposes the device's outbound stream for other devices to
	// subscribe to.
	Publish() <-chan message.Message
}

// Bus wires every registered device to every other and owns shutdown.
type Bus struct {
	logger      *log.Logger
	done        chan struct{}
	closeOnce   sync.Once
	doubleClick *doubleClickGate
	wg          sync.WaitGroup
}

// New returns a Bus that logs through logger.
func New(logger *log.Logger) *Bus {
	return &Bus{
		logger:      logger,
		done:        make(chan struct{}),
		doubleClick: newDoubleClickGate(shutdownWindow),
	}
}

// published pairs a message with the device that published it, so the
// single dispatcher goroutine can skip self-routing after the merge.
type published struct {
	from Device
	msg  message.Message
}

// Start connects every device's publish stream into one merged channel
// drained by a single dispatcher goroutine (spec §4.B), and fires each
// device's init actions. It returns immediately; the mesh runs on
// background goroutines until Shutdown fires or TriggerShutdown completes a
// double-click.
func (b *Bus) Start(devices ...Device) {
	merged := make(chan published, 64*len(devices)+1)
	for _, d := range devices {
		b.wg.Add(1)
		go b.collect(d, merged)
	}
	b.wg.Add(1)
	go b.dispatch(devices, merged)

	for _, d := range devices {
		for _, action := range d.InitActions() {
			d.Send(action)
		}
	}
	b.logger.Info("connected & started", "devices", len(devices))
}

// collect forwards one device's publish stream onto the merged channel.
func (b *Bus) collect(d Device, out chan<- published) {
	defer b.wg.Done()
	ch := d.Publish()
	for {
		select {
		case <-b.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case out <- published{from: d, msg: msg}:
			case <-b.done:
				return
			}
		}
	}
}

// dispatch is the mesh's single serializing consumer: every device's
// ExternalMessage/ToMessages/Send call for a given routed message happens
// here, on this one goroutine, so no device's ToMessages is ever entered
// concurrently from two different sources on the bus.
func (b *Bus) dispatch(devices []Device, in <-chan published) {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			for _, a := range devices {
				if a.Name() == item.from.Name() {
					continue
				}
				if !a.ExternalMessage(item.msg) {
					continue
				}
				b.logger.Debug("routing", "from", item.from.Name(), "to", a.Name(), "kind", item.msg.Kind())
				for _, out := range a.ToMessages(item.msg) {
					a.Send(out)
				}
			}
		}
	}
}

// TriggerShutdown registers one shutdown-control click; the bus only
// completes (spec: "a double-click within 400ms... completes the bus,
// which then dispatches on_completed") on the second click inside the
// window. Reports whether this call caused shutdown.
func (b *Bus) TriggerShutdown() bool {
	if !b.doubleClick.Trigger() {
		return false
	}
	b.Shutdown()
	return true
}

// Shutdown completes the bus unconditionally: every collect/dispatch
// goroutine stops and Done closes. Safe to call more than once.
func (b *Bus) Shutdown() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

// Done reports when the bus has completed.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until every collect/dispatch goroutine has exited (useful for
// tests and clean daemon teardown).
func (b *Bus) Wait() {
	b.wg.Wait()
}
