package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// SampleTableBox ('stbl'): stsd followed by the empty stts/stsc/stsz/stco
// quartet required by the fragmented profile (spec §4.3, §4.5).
type SampleTableBox struct {
	Stsd *SampleDescriptionBox
	Stts *TimeToSampleBox
	Stsc *SampleToChunkBox
	Stsz *SampleSizeBox
	Stco *ChunkOffsetBox
}

func NewStbl(stsd *SampleDescriptionBox) *SampleTableBox {
	return &SampleTableBox{Stsd: stsd, Stts: NewStts(), Stsc: NewStsc(), Stsz: NewStsz(), Stco: NewStco()}
}

func DecodeStbl(body []byte, offset int) (*SampleTableBox, []werr.Warning, error) {
	b := &SampleTableBox{}
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeSTSD:
			v, err := DecodeStsd(child)
			if err != nil {
				return true, err
			}
			b.Stsd = v
		case TypeSTTS:
			v, err := DecodeStts(child)
			if err != nil {
				return true, err
			}
			b.Stts = v
		case TypeSTSC:
			v, err := DecodeStsc(child)
			if err != nil {
				return true, err
			}
			b.Stsc = v
		case TypeSTSZ:
			v, err := DecodeStsz(child)
			if err != nil {
				return true, err
			}
			b.Stsz = v
		case TypeSTCO:
			v, err := DecodeStco(child)
			if err != nil {
				return true, err
			}
			b.Stco = v
		default:
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, warnings, err
	}
	if b.Stsd == nil {
		return nil, warnings, werr.Invariant("stbl missing required stsd")
	}
	if b.Stts == nil {
		b.Stts = NewStts()
	}
	if b.Stsc == nil {
		b.Stsc = NewStsc()
	}
	if b.Stsz == nil {
		b.Stsz = NewStsz()
	}
	if b.Stco == nil {
		b.Stco = NewStco()
	}
	return b, warnings, nil
}

func (b *SampleTableBox) Encode() []byte {
	parts := [][]byte{b.Stsd.Encode(), b.Stts.Encode(), b.Stsc.Encode(), b.Stsz.Encode(), b.Stco.Encode()}
	size := basicBoxLen
	for _, p := range parts {
		size += len(p)
	}
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeSTBL, Size: uint64(size)})
	for _, p := range parts {
		dst = append(dst, p...)
	}
	return dst
}
