package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// HandlerBox ('hdlr', ISO/IEC 14496-12 §8.4.3). HandlerType is one of
// "vide", "soun", or another media handler FourCC; Name is a
// null-terminated UTF-8 string on the wire.
type HandlerBox struct {
	HandlerType FourCC
	Name        string
}

func NewHdlr(handlerType FourCC, name string) *HandlerBox {
	return &HandlerBox{HandlerType: handlerType, Name: name}
}

func DecodeHdlr(body []byte) (*HandlerBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+20 {
		return nil, werr.Truncated(n, "hdlr requires 20 bytes before name")
	}
	b := &HandlerBox{}
	copy(b.HandlerType[:], body[n+4:n+8])
	name := body[n+20:]
	if i := indexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	b.Name = string(name)
	return b, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func (b *HandlerBox) Encode() []byte {
	size := fullBoxLen + 20 + len(b.Name) + 1
	h := Header{Type: TypeHDLR, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	dst = append(dst, 0, 0, 0, 0) // pre_defined
	dst = append(dst, b.HandlerType[:]...)
	dst = append(dst, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0) // reserved[3]
	dst = append(dst, []byte(b.Name)...)
	dst = append(dst, 0)
	return dst
}
