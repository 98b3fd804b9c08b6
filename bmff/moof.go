package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MovieFragmentBox ('moof'): mfhd followed by one or more traf (spec
// §4.5). A CMAF fragment carries exactly one moof.
type MovieFragmentBox struct {
	Mfhd *MovieFragmentHeaderBox
	Traf []*TrackFragmentBox
}

func NewMoof(mfhd *MovieFragmentHeaderBox) *MovieFragmentBox {
	return &MovieFragmentBox{Mfhd: mfhd}
}

func DecodeMoof(body []byte, offset int) (*MovieFragmentBox, []werr.Warning, error) {
	b := &MovieFragmentBox{}
	var allWarnings []werr.Warning
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeMFHD:
			mfhd, err := DecodeMfhd(child)
			if err != nil {
				return true, err
			}
			b.Mfhd = mfhd
			return true, nil
		case TypeTRAF:
			traf, w, err := DecodeTraf(child, 0)
			allWarnings = append(allWarnings, w...)
			if err != nil {
				return true, err
			}
			b.Traf = append(b.Traf, traf)
			return true, nil
		default:
			return false, nil
		}
	})
	allWarnings = append(allWarnings, warnings...)
	if err != nil {
		return nil, allWarnings, err
	}
	if b.Mfhd == nil {
		return nil, allWarnings, werr.Invariant("moof missing required mfhd")
	}
	if len(b.Traf) == 0 {
		return nil, allWarnings, werr.Invariant("moof requires at least one traf")
	}
	return b, allWarnings, nil
}

func (b *MovieFragmentBox) Encode() []byte {
	mfhd := b.Mfhd.Encode()
	size := basicBoxLen + len(mfhd)
	var trafBytes [][]byte
	for _, t := range b.Traf {
		tb := t.Encode()
		trafBytes = append(trafBytes, tb)
		size += len(tb)
	}
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeMOOF, Size: uint64(size)})
	dst = append(dst, mfhd...)
	for _, tb := range trafBytes {
		dst = append(dst, tb...)
	}
	return dst
}
