package audioadapter

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/octobridge/octobridge/internal/clock"
	"github.com/octobridge/octobridge/internal/logging"
	"github.com/octobridge/octobridge/internal/looper"
	"github.com/octobridge/octobridge/internal/message"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger { return logging.New("audioadapter-test", log.ErrorLevel) }

func newDevice() *Device {
	return New(testLogger(), "audioadapter", clock.NewMetronome(), looper.New(48000, 2))
}

func TestExternalMessageAcceptsClockAndMixerVocabulary(t *testing.T) {
	d := newDevice()

	require.True(t, d.ExternalMessage(message.NewInternal(message.TypeClock)))
	require.True(t, d.ExternalMessage(message.NewInternal(message.TypeVolume, 0, 100)))
	require.True(t, d.ExternalMessage(message.NewInternal(message.TypePhrase, 1)))
	require.False(t, d.ExternalMessage(message.NoteOn{Channel: 0, Note: 60, Velocity: 100}))
}

func TestSelectMessageIsAlwaysFalse(t *testing.T) {
	d := newDevice()

	require.False(t, d.SelectMessage(message.NewInternal(message.TypeClock)))
	require.False(t, d.SelectMessage(message.Sysex{Bytes: []byte{1}}))
}

func TestRawWireStartForcesMetronomeAndLooperStart(t *testing.T) {
	d := newDevice()

	out := d.ToMessages(message.NewInternal(message.TypeStart))
	require.Equal(t, []message.Message{message.NewInternal(message.TypeStart, 2)}, out)
}

func TestDomainStartIsIgnored(t *testing.T) {
	d := newDevice()

	out := d.ToMessages(message.NewInternal(message.TypeStart, 4))
	require.Nil(t, out)
}

func TestStopQueuesLooperStopAndEmitsMetronomeStop(t *testing.T) {
	d := newDevice()

	out := d.ToMessages(message.NewInternal(message.TypeStop))
	require.Equal(t, []message.Message{message.NewInternal(message.TypeStop, 0)}, out)
}

func TestPulseEmitsStartOnFirstTickAndBeatOnTheBeat(t *testing.T) {
	d := newDevice()

	out := d.ToMessages(message.NewInternal(message.TypeClock))
	require.Equal(t, []message.Message{message.NewInternal(message.TypeStart, 2)}, out)

	for i := 0; i < 23; i++ {
		d.ToMessages(message.NewInternal(message.TypeClock))
	}
	out = d.ToMessages(message.NewInternal(message.TypeClock))
	require.Equal(t, []message.Message{message.NewInternal(message.TypeBeat, 2)}, out)
}

func TestBarsInSetsMetronomeAndLooperBars(t *testing.T) {
	d := newDevice()

	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeBars, 4)))
}

func TestMixerVocabularyDrivesLooperWithoutPanicking(t *testing.T) {
	d := newDevice()

	require.Nil(t, d.ToMessages(message.NewInternal(message.TypePlay)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeRec)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeToggle)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeOverdub)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeVolume, 0, 127)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeXfade, 0, 64)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypeXfader, 64)))
	require.Nil(t, d.ToMessages(message.NewInternal(message.TypePhrase, 1)))
}

func TestSendRepublishesOntoOwnChannel(t *testing.T) {
	d := newDevice()

	d.Send(message.NewInternal(message.TypeBeat, 1))
	select {
	case msg := <-d.Publish():
		require.Equal(t, message.NewInternal(message.TypeBeat, 1), msg)
	default:
		t.Fatal("expected republished message on Publish channel")
	}
}
