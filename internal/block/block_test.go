package block

import (
	"testing"

	"github.com/octobridge/octobridge/internal/message"
	"github.com/stretchr/testify/require"
)

func TestBlockUpdateToggle(t *testing.T) {
	b := NewBlock("test", 48, 1, 8)
	require.Equal(t, 0, b.ValueAt(0, 2))
	b.Update(0, 2, -1)
	require.Equal(t, 127, b.ValueAt(0, 2))
	b.Update(0, 2, -1)
	require.Equal(t, 0, b.ValueAt(0, 2))
}

func TestBlockNextWraps(t *testing.T) {
	b := NewBlock("test", 48, 1, 16) // 2 pages of 8
	require.Equal(t, 0, b.ColIdx)
	b.Next()
	require.Equal(t, 1, b.ColIdx)
	b.Next()
	require.Equal(t, 0, b.ColIdx, "expected wraparound back to page 0")
	b.Previous()
	require.Equal(t, 1, b.ColIdx, "expected wraparound to the last page")
}

func TestBlockAddressIsRootToSelfPath(t *testing.T) {
	root := NewBlock("root", 0, 1, 1)
	root.RowIdx = 3
	child := NewBlock("child", 0, 1, 1)
	child.Parent = root
	child.RowIdx = 2
	grandchild := NewBlock("grandchild", 0, 1, 1)
	grandchild.Parent = child
	grandchild.RowIdx = 1

	require.Equal(t, []int{3, 2, 1}, grandchild.Address())
}

func TestNavEnforcesSingleSelectionPerColumn(t *testing.T) {
	n := NewNav("nav", 87, 4)
	n.Update(0, 0, 127)
	require.Equal(t, 127, n.ValueAt(0, 0))
	n.Update(2, 0, 127)
	require.Equal(t, 0, n.ValueAt(0, 0), "selecting row 2 should clear row 0 in the same column")
	require.Equal(t, 127, n.ValueAt(2, 0))
}

func TestNavNextPageClampsInsteadOfWrapping(t *testing.T) {
	n := NewNav("nav", 87, 3)
	n.NextPage(0)
	require.Equal(t, 0, n.RowIdx)
	n.NextPage(-1)
	require.Equal(t, 0, n.RowIdx, "row page should clamp at 0, not wrap")
	n.NextPage(10)
	require.Equal(t, 2, n.RowIdx, "row page should clamp at MaxRowPage")
}

func TestStackFillsFromLeft(t *testing.T) {
	s := NewStack("bars", 50, 8)
	s.Update(3)
	require.Equal(t, []int{127, 127, 127, 127, 0, 0, 0, 0}, s.Values[0])
	require.Equal(t, 4, s.Length())
}

func TestCCBlockMessageMapsXfadeVsSynthByRootPage(t *testing.T) {
	root := NewBlock("root", 0, 1, 1)
	c := NewCCBlock("cc", 48, 1, 8)
	c.Parent = root

	root.RowIdx = 0
	xfade := c.Message(50, 1, 64)
	require.Equal(t, "xfade", xfade.Type)

	root.RowIdx = 1
	synth := c.Message(50, 1, 64)
	require.Equal(t, "synth", synth.Type)
}

func TestStringBlockSingleChannelMultiMacroDoesNotAloneBroadcast(t *testing.T) {
	sb := NewStringBlock("strings", 16, 1, 8)
	out := sb.Message(19, 3, 100)
	require.Len(t, out, 1, "a single non-broadcast channel must not fan out across sibling controllers")
}

func TestStringBlockChannelEightAloneDoesNotBroadcastNonMultiMacroControl(t *testing.T) {
	sb := NewStringBlock("strings", 16, 1, 8)
	out := sb.Message(16, 8, 90)
	require.Len(t, out, 1, "channel 8 alone must not fan out when the controller has no sibling set")
}

func TestStringBlockDropsReservedChannels(t *testing.T) {
	sb := NewStringBlock("strings", 16, 1, 8)
	require.Nil(t, sb.Message(19, 6, 100))
	require.Nil(t, sb.Message(19, 7, 100))
}

func TestStringBlockChannelEightAndMultiMacroControlFullyBroadcasts(t *testing.T) {
	sb := NewStringBlock("strings", 16, 1, 8)
	out := sb.Message(19, 8, 100)
	// self + (6 non-self channels) x (3 sibling controllers)
	require.Len(t, out, 1+6*3)
	for _, m := range out[1:] {
		cc, ok := m.(message.ControlChange)
		require.True(t, ok)
		require.NotEqual(t, 8, cc.Channel)
		require.Contains(t, []int{16, 17, 18}, cc.Control)
	}
}
