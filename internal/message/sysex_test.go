package message

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeSysexRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		family := rapid.SampledFrom([]AddrFamily{AddrCommon, AddrPatch, AddrInout}).Draw(t, "family")
		suffix := [2]int{rapid.IntRange(0, 100).Draw(t, "s0"), rapid.IntRange(0, 100).Draw(t, "s1")}
		body := rapid.SliceOfN(rapid.IntRange(0, 100), 0, 12).Draw(t, "body")

		sysex, err := EncodeSysex(OpCommand, family, suffix, body)
		require.NoError(t, err)

		decoded, err := DecodeSysex(sysex)
		require.NoError(t, err)
		require.Equal(t, family, decoded.Family)
		require.Equal(t, suffix, decoded.Suffix)
		require.Equal(t, body, decoded.Body)

		sum := 0
		for _, b := range sysex.Bytes[7:] {
			sum += int(b)
		}
		require.Equal(t, 0, sum%128)
	})
}

func TestEncodeSysexOverflow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		family := rapid.SampledFrom([]AddrFamily{AddrCommon, AddrPatch, AddrInout}).Draw(t, "family")
		body := rapid.SliceOfN(rapid.IntRange(0, 127*128-1), 1, 6).Draw(t, "body")

		_, err := EncodeSysex(OpCommand, family, [2]int{0, 0}, body)

		prefix := family.Prefix()
		combined := []int{int(prefix[0]), int(prefix[1]), 0, 0}
		combined = append(combined, body...)
		_, flattenErr := flattenBytes(128, combined)

		if flattenErr != nil {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
	})
}

func TestChecksumEmptyBody(t *testing.T) {
	addr := []int{0, 1}
	got := Checksum(addr...)
	want := (128 - (0 + 1)%128) % 128
	require.Equal(t, want, got)
}

func TestDecodeSysexRejectsBadHeader(t *testing.T) {
	bad := Sysex{Bytes: []byte{0x40, 0, 0, 0, 0, 0x69, 0x12, 0, 1, 0, 0, 0}}
	_, err := DecodeSysex(bad)
	require.Error(t, err)
}

func TestDecodeSysexRejectsRequestOpcode(t *testing.T) {
	sysex, err := EncodeSysex(OpRequest, AddrCommon, [2]int{0, 0}, nil)
	require.NoError(t, err)
	_, err = DecodeSysex(sysex)
	require.Error(t, err)
}

func TestPatchIncrementShape(t *testing.T) {
	// spec §8 scenario 3: patch=0x007F, Internal(patch,+1) => 0x0080,
	// nibbles [0,0,8,0], address [0,1,0,0].
	nibbles := []int{0, 0, 8, 0}
	sysex, err := EncodeSysex(OpCommand, AddrCommon, [2]int{0, 0}, nibbles)
	require.NoError(t, err)

	decoded, err := DecodeSysex(sysex)
	require.NoError(t, err)
	require.Equal(t, AddrCommon, decoded.Family)
	require.Equal(t, [2]int{0, 0}, decoded.Suffix)
	require.Equal(t, nibbles, decoded.Body)

	sum := 0
	for _, b := range sysex.Bytes[7:] {
		sum += int(b)
	}
	require.Equal(t, 0, sum%128)
}
