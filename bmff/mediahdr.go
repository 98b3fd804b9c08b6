package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// VideoMediaHeaderBox ('vmhd', ISO/IEC 14496-12 §12.1.2). Flags is
// always 1 (the box is marked "required for presentation").
type VideoMediaHeaderBox struct {
	Graphicsmode uint16
	Opcolor      [3]uint16
}

func NewVmhd() *VideoMediaHeaderBox { return &VideoMediaHeaderBox{} }

func DecodeVmhd(body []byte) (*VideoMediaHeaderBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+8 {
		return nil, werr.Truncated(n, "vmhd requires 8 bytes")
	}
	return &VideoMediaHeaderBox{
		Graphicsmode: GetUint16(body[n:]),
		Opcolor:      [3]uint16{GetUint16(body[n+2:]), GetUint16(body[n+4:]), GetUint16(body[n+6:])},
	}, nil
}

func (b *VideoMediaHeaderBox) Encode() []byte {
	h := Header{Type: TypeVMHD, Size: uint64(fullBoxLen + 8)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Flags: 1})
	var buf [8]byte
	PutUint16(buf[0:], b.Graphicsmode)
	PutUint16(buf[2:], b.Opcolor[0])
	PutUint16(buf[4:], b.Opcolor[1])
	PutUint16(buf[6:], b.Opcolor[2])
	return append(dst, buf[:]...)
}

// SoundMediaHeaderBox ('smhd', ISO/IEC 14496-12 §12.2.2).
type SoundMediaHeaderBox struct {
	Balance int16
}

func NewSmhd() *SoundMediaHeaderBox { return &SoundMediaHeaderBox{} }

func DecodeSmhd(body []byte) (*SoundMediaHeaderBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "smhd requires 4 bytes")
	}
	return &SoundMediaHeaderBox{Balance: int16(GetUint16(body[n:]))}, nil
}

func (b *SoundMediaHeaderBox) Encode() []byte {
	h := Header{Type: TypeSMHD, Size: uint64(fullBoxLen + 4)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	var buf [4]byte
	PutUint16(buf[0:], uint16(b.Balance))
	return append(dst, buf[:]...)
}
