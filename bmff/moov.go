package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MovieBox ('moov'): one mvhd, one or more trak (spec §4.5). The
// initialization segment carries this box inside an ftyp/moov pair,
// distinct from the fragmented styp/moof/mdat CMAF fragment.
type MovieBox struct {
	Mvhd *MovieHeaderBox
	Trak []*TrackBox
}

func NewMoov(mvhd *MovieHeaderBox, trak ...*TrackBox) *MovieBox {
	return &MovieBox{Mvhd: mvhd, Trak: trak}
}

func DecodeMoov(body []byte, offset int) (*MovieBox, []werr.Warning, error) {
	b := &MovieBox{}
	var trakWarnings []werr.Warning
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeMVHD:
			v, err := DecodeMvhd(child)
			if err != nil {
				return true, err
			}
			b.Mvhd = v
		case TypeTRAK:
			v, w, err := DecodeTrak(child, 0)
			trakWarnings = append(trakWarnings, w...)
			if err != nil {
				return true, err
			}
			b.Trak = append(b.Trak, v)
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, trakWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if b.Mvhd == nil {
		return nil, warnings, werr.Invariant("moov missing required mvhd")
	}
	if len(b.Trak) == 0 {
		return nil, warnings, werr.Invariant("moov requires at least one trak")
	}
	return b, warnings, nil
}

func (b *MovieBox) Encode() []byte {
	mvhd := b.Mvhd.Encode()
	size := basicBoxLen + len(mvhd)
	var trakBytes [][]byte
	for _, t := range b.Trak {
		tb := t.Encode()
		trakBytes = append(trakBytes, tb)
		size += len(tb)
	}
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeMOOV, Size: uint64(size)})
	dst = append(dst, mvhd...)
	for _, tb := range trakBytes {
		dst = append(dst, tb...)
	}
	return dst
}
