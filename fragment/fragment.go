// Package fragment assembles bmff boxes into the two top-level wire
// forms a MoQ publisher actually sends: a CMAF fragment
// (styp+moof+mdat) and an initialization segment (ftyp+moov). It also
// provides the stream scanner that re-synchronises to fragment
// boundaries inside a concatenated blob.
package fragment

import (
	"github.com/moqwire/cmafloc/bmff"
	"github.com/moqwire/cmafloc/internal/werr"
)

var cmafBrands = []bmff.FourCC{bmff.NewFourCC("cmfc"), bmff.NewFourCC("iso6")}

// NewStyp returns the CMAF-profile segment-type box every fragment
// carries: major brand "cmf2", minor version 0, compatible brands
// ["cmfc", "iso6"].
func NewStyp() *bmff.FileTypeBox {
	return bmff.NewStyp(bmff.NewFourCC("cmf2"), 0, cmafBrands...)
}

// Fragment is the decoded triad of one styp, one moof and one mdat —
// the unit a MoQ publisher sends as a single media chunk.
type Fragment struct {
	Styp *bmff.FileTypeBox
	Moof *bmff.MovieFragmentBox
	Mdat *bmff.MediaDataBox
}

// SequenceNumber returns moof.mfhd.sequence_number.
func (f *Fragment) SequenceNumber() uint32 {
	return f.Moof.Mfhd.SequenceNumber
}

// BaseMediaDecodeTime returns the first traf's tfdt value, or -1 if
// no traf carries one.
func (f *Fragment) BaseMediaDecodeTime() int64 {
	for _, traf := range f.Moof.Traf {
		if traf.Tfdt != nil {
			return int64(traf.Tfdt.BaseMediaDecodeTime)
		}
	}
	return -1
}

// Validate reports whether f is semantically complete: styp, moof,
// moof.mfhd and mdat all present, and moof.traf non-empty. Decode
// already enforces most of this structurally; Validate exists for
// trees assembled directly by a caller.
func (f *Fragment) Validate() error {
	if f.Styp == nil {
		return werr.Invariant("fragment missing styp")
	}
	if f.Moof == nil {
		return werr.Invariant("fragment missing moof")
	}
	if f.Mdat == nil {
		return werr.Invariant("fragment missing mdat")
	}
	if f.Moof.Mfhd == nil {
		return werr.Invariant("fragment moof missing mfhd")
	}
	if len(f.Moof.Traf) == 0 {
		return werr.Invariant("fragment moof has no traf")
	}
	return nil
}

// EncodeFragment serializes f as styp ‖ moof ‖ mdat.
func EncodeFragment(f *Fragment) []byte {
	styp, moof, mdat := f.Styp.Encode(), f.Moof.Encode(), f.Mdat.Encode()
	dst := make([]byte, 0, len(styp)+len(moof)+len(mdat))
	dst = append(dst, styp...)
	dst = append(dst, moof...)
	return append(dst, mdat...)
}

// DecodeFragment box-walks buf. The top level must contain exactly one
// of each of styp, moof and mdat; unknown top-level boxes are skipped
// (and reported as warnings). The order of styp, moof and mdat is not
// checked, here or by Validate: the decoded tree does not record it.
func DecodeFragment(buf []byte) (*Fragment, []werr.Warning, error) {
	f := &Fragment{}
	var childWarnings []werr.Warning
	warnings, err := bmff.WalkChildren(buf, 0, func(h bmff.Header, child []byte) (bool, error) {
		switch h.Type {
		case bmff.TypeSTYP:
			if f.Styp != nil {
				return true, werr.Invariant("fragment has more than one styp")
			}
			v, err := bmff.DecodeFileTypeBox(bmff.TypeSTYP, child)
			if err != nil {
				return true, err
			}
			f.Styp = v
		case bmff.TypeMOOF:
			if f.Moof != nil {
				return true, werr.Invariant("fragment has more than one moof")
			}
			v, w, err := bmff.DecodeMoof(child, 0)
			childWarnings = append(childWarnings, w...)
			if err != nil {
				return true, err
			}
			f.Moof = v
		case bmff.TypeMDAT:
			if f.Mdat != nil {
				return true, werr.Invariant("fragment has more than one mdat")
			}
			v, err := bmff.DecodeMdat(child)
			if err != nil {
				return true, err
			}
			f.Mdat = v
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, childWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if err := f.Validate(); err != nil {
		return nil, warnings, err
	}
	return f, warnings, nil
}

// InitSegment is the decoded ftyp+moov pair describing tracks before
// any media fragment is sent.
type InitSegment struct {
	Ftyp *bmff.FileTypeBox
	Moov *bmff.MovieBox
}

// EncodeInitSegment serializes s as ftyp ‖ moov.
func EncodeInitSegment(s *InitSegment) []byte {
	ftyp, moov := s.Ftyp.Encode(), s.Moov.Encode()
	dst := make([]byte, 0, len(ftyp)+len(moov))
	dst = append(dst, ftyp...)
	return append(dst, moov...)
}

// DecodeInitSegment box-walks buf for its required ftyp and moov.
func DecodeInitSegment(buf []byte) (*InitSegment, []werr.Warning, error) {
	s := &InitSegment{}
	var moovWarnings []werr.Warning
	warnings, err := bmff.WalkChildren(buf, 0, func(h bmff.Header, child []byte) (bool, error) {
		switch h.Type {
		case bmff.TypeFTYP:
			v, err := bmff.DecodeFileTypeBox(bmff.TypeFTYP, child)
			if err != nil {
				return true, err
			}
			s.Ftyp = v
		case bmff.TypeMOOV:
			v, w, err := bmff.DecodeMoov(child, 0)
			moovWarnings = append(moovWarnings, w...)
			if err != nil {
				return true, err
			}
			s.Moov = v
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, moovWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if s.Ftyp == nil {
		return nil, warnings, werr.Invariant("initialization segment missing ftyp")
	}
	if s.Moov == nil {
		return nil, warnings, werr.Invariant("initialization segment missing moov")
	}
	return s, warnings, nil
}
