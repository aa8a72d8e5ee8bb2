package message

import (
	"github.com/octobridge/octobridge/internal/octerr"
)

// SysexOp distinguishes a sysex request from a command (spec §3, §4.A).
type SysexOp byte

const (
	OpRequest SysexOp = 0x11
	OpCommand SysexOp = 0x12
)

// AddrFamily names one of the synth's three addressable regions.
type AddrFamily int

const (
	AddrCommon AddrFamily = iota
	AddrPatch
	AddrInout
)

// Prefix returns the family's 2-byte address prefix (spec §4.A).
func (f AddrFamily) Prefix() [2]byte {
	switch f {
	case AddrCommon:
		return [2]byte{0, 1}
	case AddrPatch:
		return [2]byte{16, 0}
	case AddrInout:
		return [2]byte{0, 4}
	default:
		return [2]byte{0, 0}
	}
}

// vendorHeader is the 6-byte vendor identification prefix every sysex
// payload carries (spec §4.A, §6).
var vendorHeader = [6]byte{0x41, 0x00, 0x00, 0x00, 0x00, 0x69}

// EncodeSysex builds a framed Sysex message: vendor header, opcode,
// 4-byte address (family prefix ++ suffix), flattened body, and checksum.
//
// Body bytes >= 128 are carried into the next-higher (lower index) byte of
// the combined address∥body sequence; an overflow out of the address's
// first byte is reported as *octerr.OverflowByte and aborts this message
// only (spec §4.A, §7).
func EncodeSysex(kind SysexOp, family AddrFamily, suffix [2]int, body []int) (Sysex, error) {
	prefix := family.Prefix()
	addr := []int{int(prefix[0]), int(prefix[1]), suffix[0], suffix[1]}

	combined := append(append([]int{}, addr...), body...)
	flattened, err := flattenBytes(128, combined)
	if err != nil {
		return Sysex{}, err
	}

	sum := 0
	for _, b := range flattened {
		sum += b
	}
	check := (128 - sum%128) % 128

	out := make([]byte, 0, 6+1+len(flattened)+1)
	out = append(out, vendorHeader[:]...)
	out = append(out, byte(kind))
	for _, b := range flattened {
		out = append(out, byte(b))
	}
	out = append(out, byte(check))

	return Sysex{Bytes: out}, nil
}

// flattenBytes ensures every element of values is < limit by carrying the
// overflow quotient into the preceding element (index-1), recursively.
// Carrying out of index 0 is an *octerr.OverflowByte.
func flattenBytes(limit int, values []int) ([]int, error) {
	out := append([]int{}, values...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < limit {
			continue
		}
		carry := out[i] / limit
		out[i] = out[i] % limit
		if i == 0 {
			return nil, &octerr.OverflowByte{Index: i, Value: out[i] + carry*limit}
		}
		out[i-1] += carry
	}
	return out, nil
}

// DecodedSysex is the result of decoding a framed Sysex payload.
type DecodedSysex struct {
	Family AddrFamily
	Suffix [2]int
	Body   []int
}

// DecodeSysex parses a Sysex message back into its address and body,
// requiring the vendor header and the command opcode (0x12) to match
// exactly (spec §4.A: "strict").
func DecodeSysex(s Sysex) (DecodedSysex, error) {
	if len(s.Bytes) < 6+1+4+1 {
		return DecodedSysex{}, &octerr.UnknownVendor{}
	}
	for i := 0; i < 6; i++ {
		if s.Bytes[i] != vendorHeader[i] {
			return DecodedSysex{}, &octerr.UnknownVendor{}
		}
	}
	if SysexOp(s.Bytes[6]) != OpCommand {
		return DecodedSysex{}, &octerr.UnknownVendor{}
	}

	payload := s.Bytes[7:]
	body := payload[:len(payload)-1]
	checkByte := int(payload[len(payload)-1])

	sum := 0
	for _, b := range body {
		sum += int(b)
	}
	want := (128 - sum%128) % 128
	if want != checkByte {
		return DecodedSysex{}, &octerr.BadChecksum{Want: want, Got: checkByte}
	}

	if len(body) < 4 {
		return DecodedSysex{}, &octerr.UnknownVendor{}
	}
	family := familyFromPrefix([2]byte{body[0], body[1]})
	suffix := [2]int{int(body[2]), int(body[3])}
	rest := make([]int, len(body)-4)
	for i, b := range body[4:] {
		rest[i] = int(b)
	}
	return DecodedSysex{Family: family, Suffix: suffix, Body: rest}, nil
}

func familyFromPrefix(p [2]byte) AddrFamily {
	switch p {
	case AddrCommon.Prefix():
		return AddrCommon
	case AddrPatch.Prefix():
		return AddrPatch
	case AddrInout.Prefix():
		return AddrInout
	default:
		return AddrCommon
	}
}

// Checksum computes the trailing checksum byte for a head∥body sequence,
// per spec §4.A: "checksum of the empty body is defined and equals
// (128 − Σ(addr) mod 128) mod 128".
func Checksum(values ...int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return (128 - sum%128) % 128
}
