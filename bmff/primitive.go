package bmff

import (
	"bytes"
	"encoding/binary"

	"github.com/quic-go/quic-go/quicvarint"

	"github.com/moqwire/cmafloc/internal/werr"
)

// parseVarint reads one QUIC-style varint from the front of b using
// quicvarint.Read, returning the value and the number of bytes consumed.
func parseVarint(b []byte) (uint64, int, error) {
	r := bytes.NewReader(b)
	v, err := quicvarint.Read(r)
	if err != nil {
		return 0, 0, err
	}
	return v, len(b) - r.Len(), nil
}

// FourCC is a 4-byte US-ASCII box or sample-entry type. It is compared
// and stored bytewise, never transcoded.
type FourCC [4]byte

func NewFourCC(s string) FourCC {
	var f FourCC
	copy(f[:], s)
	return f
}

func (f FourCC) String() string { return string(f[:]) }

// Fixed-point helpers. 16.16 is used for dimensions and sample rate;
// 8.8 is used for volume. Decoders must zero-extend (use a logical
// right shift) when recovering the integer part so large 16.16 sample
// rates are not corrupted by sign extension.

func Fixed16_16(intPart uint16) uint32 {
	return uint32(intPart) << 16
}

func IntPart16_16(v uint32) uint16 {
	return uint16(v >> 16)
}

func Fixed8_8(intPart uint8) uint16 {
	return uint16(intPart) << 8
}

func IntPart8_8(v uint16) uint8 {
	return uint8(v >> 8)
}

// Big-endian fixed-width read/write. 32-bit "unsigned long" fields are
// zero-extended into the 64-bit domain; callers must never sign-extend.

func GetUint8(b []byte) uint8   { return b[0] }
func GetUint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func GetUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func GetUint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func PutUint8(b []byte, v uint8)   { b[0] = v }
func PutUint16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }
func PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// EncodeVarint appends v in QUIC-style varint form (RFC 9000 §16),
// choosing the shortest of the 1/2/4/8-byte encodings.
func EncodeVarint(dst []byte, v uint64) []byte {
	return quicvarint.Append(dst, v)
}

// VarintLen returns the number of bytes EncodeVarint would emit for v.
func VarintLen(v uint64) int {
	return quicvarint.Len(v)
}

// DecodeVarint reads one QUIC-style varint from the front of b,
// returning the value and the number of bytes consumed.
func DecodeVarint(b []byte) (uint64, int, error) {
	v, n, err := parseVarint(b)
	if err != nil {
		return 0, 0, werr.Truncated(0, "varint: "+err.Error())
	}
	return v, n, nil
}

// LengthPrefixedBytes reads a varint length followed by that many raw
// bytes, returning the slice (a view into b) and bytes consumed.
func LengthPrefixedBytes(b []byte) ([]byte, int, error) {
	length, n, err := DecodeVarint(b)
	if err != nil {
		return nil, 0, err
	}
	end := n + int(length)
	if end > len(b) {
		return nil, 0, werr.Truncated(n, "length-prefixed byte string exceeds buffer")
	}
	return b[n:end], end, nil
}

// AppendLengthPrefixedBytes appends a varint length followed by data.
func AppendLengthPrefixedBytes(dst []byte, data []byte) []byte {
	dst = EncodeVarint(dst, uint64(len(data)))
	return append(dst, data...)
}
