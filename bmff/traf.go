package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// TrackFragmentBox ('traf'): tfhd, an optional tfdt, then zero or more
// trun (spec §4.5 "Composite boxes"). Child order on the wire is
// preserved on encode but not required on decode — WalkChildren
// dispatches by FourCC regardless of position.
type TrackFragmentBox struct {
	Tfhd *TrackFragmentHeaderBox
	Tfdt *TrackFragmentBaseMediaDecodeTimeBox
	Trun []*TrackRunBox
}

func NewTraf(tfhd *TrackFragmentHeaderBox) *TrackFragmentBox {
	return &TrackFragmentBox{Tfhd: tfhd}
}

func DecodeTraf(body []byte, offset int) (*TrackFragmentBox, []werr.Warning, error) {
	b := &TrackFragmentBox{}
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeTFHD:
			tfhd, err := DecodeTfhd(child)
			if err != nil {
				return true, err
			}
			b.Tfhd = tfhd
			return true, nil
		case TypeTFDT:
			tfdt, err := DecodeTfdt(child)
			if err != nil {
				return true, err
			}
			b.Tfdt = tfdt
			return true, nil
		case TypeTRUN:
			trun, err := DecodeTrun(child)
			if err != nil {
				return true, err
			}
			b.Trun = append(b.Trun, trun)
			return true, nil
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, warnings, err
	}
	if b.Tfhd == nil {
		return nil, warnings, werr.Invariant("traf missing required tfhd")
	}
	return b, warnings, nil
}

func (b *TrackFragmentBox) Encode() []byte {
	tfhd := b.Tfhd.Encode()
	var tfdt []byte
	if b.Tfdt != nil {
		tfdt = b.Tfdt.Encode()
	}
	size := basicBoxLen + len(tfhd) + len(tfdt)
	for _, t := range b.Trun {
		size += len(t.Encode())
	}
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeTRAF, Size: uint64(size)})
	dst = append(dst, tfhd...)
	if tfdt != nil {
		dst = append(dst, tfdt...)
	}
	for _, t := range b.Trun {
		dst = append(dst, t.Encode()...)
	}
	return dst
}
