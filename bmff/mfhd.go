package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MovieFragmentHeaderBox ('mfhd', ISO/IEC 14496-12 §8.8.5). Version and
// flags are always 0.
type MovieFragmentHeaderBox struct {
	SequenceNumber uint32
}

func NewMfhd(sequenceNumber uint32) *MovieFragmentHeaderBox {
	return &MovieFragmentHeaderBox{SequenceNumber: sequenceNumber}
}

func DecodeMfhd(body []byte) (*MovieFragmentHeaderBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "mfhd requires a 4-byte sequence_number")
	}
	_ = fbh
	return &MovieFragmentHeaderBox{SequenceNumber: GetUint32(body[n : n+4])}, nil
}

func (b *MovieFragmentHeaderBox) Encode() []byte {
	h := Header{Type: TypeMFHD, Size: uint64(fullBoxLen + 4)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	var seq [4]byte
	PutUint32(seq[:], b.SequenceNumber)
	return append(dst, seq[:]...)
}
