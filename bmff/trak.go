package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// TrackBox ('trak'): tkhd, mdia (spec §4.5).
type TrackBox struct {
	Tkhd *TrackHeaderBox
	Mdia *MediaBox
}

func NewTrak(tkhd *TrackHeaderBox, mdia *MediaBox) *TrackBox {
	return &TrackBox{Tkhd: tkhd, Mdia: mdia}
}

func DecodeTrak(body []byte, offset int) (*TrackBox, []werr.Warning, error) {
	b := &TrackBox{}
	var mdiaWarnings []werr.Warning
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeTKHD:
			v, err := DecodeTkhd(child)
			if err != nil {
				return true, err
			}
			b.Tkhd = v
		case TypeMDIA:
			v, w, err := DecodeMdia(child, 0)
			mdiaWarnings = append(mdiaWarnings, w...)
			if err != nil {
				return true, err
			}
			b.Mdia = v
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, mdiaWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if b.Tkhd == nil {
		return nil, warnings, werr.Invariant("trak missing required tkhd")
	}
	if b.Mdia == nil {
		return nil, warnings, werr.Invariant("trak missing required mdia")
	}
	return b, warnings, nil
}

func (b *TrackBox) Encode() []byte {
	tkhd, mdia := b.Tkhd.Encode(), b.Mdia.Encode()
	size := basicBoxLen + len(tkhd) + len(mdia)
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeTRAK, Size: uint64(size)})
	dst = append(dst, tkhd...)
	return append(dst, mdia...)
}
