package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// TrackFragmentBaseMediaDecodeTimeBox ('tfdt', ISO/IEC 14496-12 §8.8.12).
// version 0 carries a 32-bit time, version 1 a 64-bit time. Per
// spec.md §9's documented source behavior, the encoder always emits
// version 1 regardless of value magnitude; decode accepts both.
type TrackFragmentBaseMediaDecodeTimeBox struct {
	BaseMediaDecodeTime uint64
}

func NewTfdt(baseMediaDecodeTime uint64) *TrackFragmentBaseMediaDecodeTimeBox {
	return &TrackFragmentBaseMediaDecodeTimeBox{BaseMediaDecodeTime: baseMediaDecodeTime}
}

func DecodeTfdt(body []byte) (*TrackFragmentBaseMediaDecodeTimeBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if fbh.Version == 1 {
		if len(body) < n+8 {
			return nil, werr.Truncated(n, "tfdt v1 requires 8 bytes")
		}
		return &TrackFragmentBaseMediaDecodeTimeBox{BaseMediaDecodeTime: GetUint64(body[n : n+8])}, nil
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "tfdt v0 requires 4 bytes")
	}
	return &TrackFragmentBaseMediaDecodeTimeBox{BaseMediaDecodeTime: uint64(GetUint32(body[n : n+4]))}, nil
}

func (b *TrackFragmentBaseMediaDecodeTimeBox) Encode() []byte {
	h := Header{Type: TypeTFDT, Size: uint64(fullBoxLen + 8)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Version: 1})
	var v [8]byte
	PutUint64(v[:], b.BaseMediaDecodeTime)
	return append(dst, v[:]...)
}
