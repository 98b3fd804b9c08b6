package bmff

// MediaDataBox ('mdat', ISO/IEC 14496-12 §8.1.1) carries an opaque
// payload of size-8 (or size-16, extended form) bytes. Data is a
// zero-copy view into the decoded input buffer; callers that need to
// retain it past the buffer's lifetime must copy it themselves.
type MediaDataBox struct {
	Data []byte
}

func NewMdat(data []byte) *MediaDataBox { return &MediaDataBox{Data: data} }

// DecodeMdat borrows body as Data without copying.
func DecodeMdat(body []byte) (*MediaDataBox, error) {
	return &MediaDataBox{Data: body}, nil
}

func (b *MediaDataBox) Encode() []byte {
	h := Header{Type: TypeMDAT, Size: uint64(basicBoxLen + len(b.Data))}
	dst := EncodeHeader(make([]byte, 0, basicBoxLen+len(b.Data)), h)
	return append(dst, b.Data...)
}
