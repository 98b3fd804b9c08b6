package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MediaInformationBox ('minf'): exactly one of vmhd/smhd depending on
// the track's media handler, then dinf and stbl (spec §4.5).
type MediaInformationBox struct {
	Vmhd *VideoMediaHeaderBox
	Smhd *SoundMediaHeaderBox
	Dinf *DataInformationBox
	Stbl *SampleTableBox
}

func NewVideoMinf(stbl *SampleTableBox) *MediaInformationBox {
	return &MediaInformationBox{Vmhd: NewVmhd(), Dinf: NewDinf(), Stbl: stbl}
}

func NewAudioMinf(stbl *SampleTableBox) *MediaInformationBox {
	return &MediaInformationBox{Smhd: NewSmhd(), Dinf: NewDinf(), Stbl: stbl}
}

func DecodeMinf(body []byte, offset int) (*MediaInformationBox, []werr.Warning, error) {
	b := &MediaInformationBox{}
	var stblWarnings []werr.Warning
	warnings, err := WalkChildren(body, offset, func(h Header, child []byte) (bool, error) {
		switch h.Type {
		case TypeVMHD:
			v, err := DecodeVmhd(child)
			if err != nil {
				return true, err
			}
			b.Vmhd = v
		case TypeSMHD:
			v, err := DecodeSmhd(child)
			if err != nil {
				return true, err
			}
			b.Smhd = v
		case TypeDINF:
			v, err := DecodeDinf(child)
			if err != nil {
				return true, err
			}
			b.Dinf = v
		case TypeSTBL:
			v, w, err := DecodeStbl(child, 0)
			stblWarnings = append(stblWarnings, w...)
			if err != nil {
				return true, err
			}
			b.Stbl = v
		default:
			return false, nil
		}
		return true, nil
	})
	warnings = append(warnings, stblWarnings...)
	if err != nil {
		return nil, warnings, err
	}
	if b.Dinf == nil {
		return nil, warnings, werr.Invariant("minf missing required dinf")
	}
	if b.Stbl == nil {
		return nil, warnings, werr.Invariant("minf missing required stbl")
	}
	if b.Vmhd == nil && b.Smhd == nil {
		return nil, warnings, werr.Invariant("minf requires a vmhd or smhd media header")
	}
	return b, warnings, nil
}

func (b *MediaInformationBox) Encode() []byte {
	var parts [][]byte
	if b.Vmhd != nil {
		parts = append(parts, b.Vmhd.Encode())
	}
	if b.Smhd != nil {
		parts = append(parts, b.Smhd.Encode())
	}
	parts = append(parts, b.Dinf.Encode(), b.Stbl.Encode())
	size := basicBoxLen
	for _, p := range parts {
		size += len(p)
	}
	dst := EncodeHeader(make([]byte, 0, size), Header{Type: TypeMINF, Size: uint64(size)})
	for _, p := range parts {
		dst = append(dst, p...)
	}
	return dst
}
