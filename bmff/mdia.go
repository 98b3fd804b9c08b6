package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MediaBox ('mdia'): mdhd, hdlr, minf (spec §4.5).
type MediaBox struct {
	Mdhd *MediaHeaderBox
	Hdlr *HandlerBox
	Minf *MediaInformationBox
}

func NewMdia(mdhd *MediaHeaderBox, hdlr *HandlerBox, minf *MediaInformationBox) *MediaBox {
	return &MediaBox{Mdhd: mdhd, Hdlr: hdlr, Minf: minf}
}

func DecodeMdia(body []byte, offset int) (*MediaBox, []werr.Warning, error) {
	b := &MediaBox{}
	var minfWarnings []werr.Warning
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeMDHD:
			v, err := DecodeMdhd(child)
			if err != nil {
				return true, err
			}
			b.Mdhd = v
		case TypeHDLR:
			v, err := DecodeHdlr(child)
			if err != nil {
				return true, err
			}
			b.Hdlr = v
		case TypeMINF:
			v, w, err := DecodeMinf(child, 0)
			minfWarnings = append(minfWarnings, w...)
			if err != nil {
				return true, err
			}
			b.Minf = v
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, minfWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if b.Mdhd == nil {
		return nil, warnings, werr.Invariant("mdia missing required mdhd")
	}
	if b.Hdlr == nil {
		return nil, warnings, werr.Invariant("mdia missing required hdlr")
	}
	if b.Minf == nil {
		return nil, warnings, werr.Invariant("mdia missing required minf")
	}
	return b, warnings, nil
}

func (b *MediaBox) Encode() []byte {
	mdhd, hdlr, minf := b.Mdhd.Encode(), b.Hdlr.Encode(), b.Minf.Encode()
	size := basicBoxLen + len(mdhd) + len(hdlr) + len(minf)
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeMDIA, Size: uint64(size)})
	dst = append(dst, mdhd...)
	dst = append(dst, hdlr...)
	return append(dst, minf...)
}
