package looper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeBuffers(frames, tracks int) (in, out, scratch [][]float32) {
	mk := func() [][]float32 {
		b := make([][]float32, frames)
		for i := range b {
			b[i] = make([]float32, tracks)
		}
		return b
	}
	return mk(), mk(), mk()
}

func TestRecordThenPlayRoundTrips(t *testing.T) {
	l := New(8000, 8)
	l.SetPan(0, 0)
	l.SetMasterX(0)
	l.QueueRec()
	l.Start()

	frames := 64
	in, out, scratch := makeBuffers(frames, 8)
	for i := range in {
		in[i][0] = float32(i) / 1000
	}

	require.True(t, l.Callback(in, out, scratch, frames))

	l.QueuePlay()
	l.Start()

	in2, out2, scratch2 := makeBuffers(frames, 8)
	require.True(t, l.Callback(in2, out2, scratch2, frames))

	require.InDelta(t, in[0][0]*l.snapshot().Vol[0], out2[0][0], 1e-6)
}

func TestCallbackWrapsCursorAtMaxSize(t *testing.T) {
	l := New(8, 1) // maxsize = 8*2*6 = 96 samples
	l.QueuePlay()
	l.Start()

	frames := 50
	in, out, scratch := makeBuffers(frames, 1)

	require.True(t, l.Callback(in, out, scratch, frames))
	require.True(t, l.Callback(in, out, scratch, frames))
	// cursor should have wrapped to 0 by now (50+50=100 > 96)
	require.Equal(t, 0, l.cursor)
}

func TestQueueToggleRearmsRecordingWhenTurningOff(t *testing.T) {
	l := New(8000, 2)
	l.QueuePlay()
	l.Start()
	require.True(t, l.snapshot().Playing)

	l.QueueToggle()
	l.Start()
	s := l.snapshot()
	require.False(t, s.Playing)
	require.True(t, s.Recording)
}

func TestQueueBarsResizesMaxSizeAtStart(t *testing.T) {
	l := New(48000, 8)
	before := l.snapshot().MaxSize
	l.QueueBars(4)
	require.Equal(t, before, l.snapshot().MaxSize, "bars change must not apply before Start")

	l.Start()
	require.Equal(t, maxSize(48000, 4), l.snapshot().MaxSize)
}

func TestQueuePhraseWrapsModulo16(t *testing.T) {
	l := New(8000, 2)
	l.QueuePhrase(-1)
	l.Start()
	require.Equal(t, 15, l.snapshot().Phrase)
}

func TestToStereoToMonoIdentityAtZeroPan(t *testing.T) {
	left, right := tostereo(1.0, 0)
	require.Equal(t, float32(1.0), left)
	require.Equal(t, float32(0.0), right)
	require.Equal(t, float32(1.0), tomono(left, right, 0))
}
