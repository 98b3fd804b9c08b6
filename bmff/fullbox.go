package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// FullBoxHeader is the version+flags prefix shared by every "full box"
// (ISO/IEC 14496-12 §4.2): an 8-bit version and a 24-bit flag word.
type FullBoxHeader struct {
	Version uint8
	Flags   uint32 // low 24 bits significant
}

// DecodeFullBoxHeader reads the 4-byte version+flags word at the front
// of body. Unknown flag bits are preserved verbatim (spec §4.4).
func DecodeFullBoxHeader(body []byte) (FullBoxHeader, int, error) {
	if len(body) < 4 {
		return FullBoxHeader{}, 0, werr.Truncated(0, "full box header requires 4 bytes")
	}
	return FullBoxHeader{
		Version: body[0],
		Flags:   uint32(body[1])<<16 | uint32(body[2])<<8 | uint32(body[3]),
	}, 4, nil
}

// EncodeFullBoxHeader appends the version+flags word to dst.
func EncodeFullBoxHeader(dst []byte, h FullBoxHeader) []byte {
	return append(dst, h.Version, byte(h.Flags>>16), byte(h.Flags>>8), byte(h.Flags))
}
