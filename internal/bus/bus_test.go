package bus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/logging"
	"github.com/octobridge/octobridge/internal/message"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	name     string
	publish  chan message.Message
	received chan message.Message
	accept   func(message.Message) bool
}

func newFakeDevice(name string) *fakeDevice {
	return &fakeDevice{
		name:     name,
		publish:  make(chan message.Message, 8),
		received: make(chan message.Message, 8),
		accept:   func(message.Message) bool { return true },
	}
}

func (f *fakeDevice) Name() string                             { return f.name }
func (f *fakeDevice) ExternalMessage(msg message.Message) bool { return f.accept(msg) }
func (f *fakeDevice) SelectMessage(message.Message) bool       { return true }
func (f *fakeDevice) ToMessages(msg message.Message) []message.Message {
	return []message.Message{msg}
}
func (f *fakeDevice) InitActions() []message.Message { return nil }
func (f *fakeDevice) Send(msg message.Message)        { f.received <- msg }
func (f *fakeDevice) Publish() <-chan message.Message { return f.publish }

func testLogger() *log.Logger {
	return logging.New("bus-test", log.ErrorLevel)
}

func TestBusRoutesBetweenDevices(t *testing.T) {
	a := newFakeDevice("a")
	b := newFakeDevice("b")

	bus := New(testLogger())
	bus.Start(a, b)

	b.publish <- message.NewInternal(message.TypeBeat, 1)

	select {
	case got := <-a.received:
		require.Equal(t, message.NewInternal(message.TypeBeat, 1), got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for routed message")
	}
}

func TestBusDoesNotRouteToSelf(t *testing.T) {
	a := newFakeDevice("a")
	bus := New(testLogger())
	bus.Start(a)

	a.publish <- message.NewInternal(message.TypeBeat, 1)

	select {
	case <-a.received:
		t.Fatal("device should not receive its own publication")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusShutdownStopsRouting(t *testing.T) {
	a := newFakeDevice("a")
	b := newFakeDevice("b")
	bus := New(testLogger())
	bus.Start(a, b)

	bus.Shutdown()
	bus.Wait()

	select {
	case <-bus.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestTriggerShutdownRequiresDoubleClick(t *testing.T) {
	bus := New(testLogger())
	bus.Start()

	require.False(t, bus.TriggerShutdown())
	require.True(t, bus.TriggerShutdown())

	select {
	case <-bus.Done():
	default:
		t.Fatal("expected shutdown to complete after second click")
	}
}

// countingDevice records how many calls to ToMessages overlap with another,
// so a concurrency regression in Start/dispatch shows up as a failure
// instead of a flaky race-detector-only symptom.
type countingDevice struct {
	*fakeDevice
	active  int32
	overlap bool
}

func newCountingDevice(name string) *countingDevice {
	return &countingDevice{fakeDevice: newFakeDevice(name)}
}

func (c *countingDevice) ToMessages(msg message.Message) []message.Message {
	if n := atomic.AddInt32(&c.active, 1); n > 1 {
		c.overlap = true
	}
	defer atomic.AddInt32(&c.active, -1)
	time.Sleep(time.Millisecond)
	return []message.Message{msg}
}

func TestBusSerializesToMessagesAcrossPublishers(t *testing.T) {
	target := newCountingDevice("target")
	p1 := newFakeDevice("p1")
	p2 := newFakeDevice("p2")

	bus := New(testLogger())
	bus.Start(target, p1, p2)

	for i := 0; i < 20; i++ {
		p1.publish <- message.NewInternal(message.TypeBeat, i)
		p2.publish <- message.NewInternal(message.TypeBeat, i)
	}

	deadline := time.After(2 * time.Second)
	for i := 0; i < 40; i++ {
		select {
		case <-target.received:
		case <-deadline:
			t.Fatal("timed out waiting for routed messages")
		}
	}
	require.False(t, target.overlap, "ToMessages must never run concurrently for one device")
}

func TestTriggerShutdownIgnoresSlowSecondClick(t *testing.T) {
	bus := New(testLogger())
	bus.doubleClick.window = 10 * time.Millisecond
	bus.Start()

	require.False(t, bus.TriggerShutdown())
	time.Sleep(20 * time.Millisecond)
	require.False(t, bus.TriggerShutdown())

	select {
	case <-bus.Done():
		t.Fatal("shutdown should not fire when clicks are spaced beyond the window")
	default:
	}
}
