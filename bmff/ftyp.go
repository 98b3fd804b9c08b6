package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// FileTypeBox models both 'ftyp' (initialization segment) and 'styp'
// (segment type, used at the head of a CMAF fragment) — ISO/IEC
// 14496-12 §4.3. BoxType selects which FourCC is emitted.
type FileTypeBox struct {
	BoxType          FourCC
	MajorBrand       FourCC
	MinorVersion     uint32
	CompatibleBrands []FourCC
}

func NewFtyp(major FourCC, minor uint32, compatible ...FourCC) *FileTypeBox {
	return &FileTypeBox{BoxType: TypeFTYP, MajorBrand: major, MinorVersion: minor, CompatibleBrands: compatible}
}

func NewStyp(major FourCC, minor uint32, compatible ...FourCC) *FileTypeBox {
	return &FileTypeBox{BoxType: TypeSTYP, MajorBrand: major, MinorVersion: minor, CompatibleBrands: compatible}
}

// DecodeFileTypeBox decodes an ftyp/styp body (everything after the
// generic 8-byte header). The number of compatible brands is derived
// from the remaining body length, per spec §4.3.
func DecodeFileTypeBox(boxType FourCC, body []byte) (*FileTypeBox, error) {
	if len(body) < 8 {
		return nil, werr.Truncated(0, "ftyp/styp body requires at least 8 bytes")
	}
	if (len(body)-8)%4 != 0 {
		return nil, werr.Malformed(0, "ftyp/styp compatible_brands region is not a multiple of 4 bytes")
	}
	b := &FileTypeBox{BoxType: boxType}
	copy(b.MajorBrand[:], body[0:4])
	b.MinorVersion = GetUint32(body[4:8])
	for i := 8; i < len(body); i += 4 {
		var brand FourCC
		copy(brand[:], body[i:i+4])
		b.CompatibleBrands = append(b.CompatibleBrands, brand)
	}
	return b, nil
}

func (b *FileTypeBox) bodyLen() int { return 8 + 4*len(b.CompatibleBrands) }

func (b *FileTypeBox) Encode() []byte {
	h := Header{Type: b.BoxType, Size: uint64(basicBoxLen + b.bodyLen())}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	dst = append(dst, b.MajorBrand[:]...)
	var minor [4]byte
	PutUint32(minor[:], b.MinorVersion)
	dst = append(dst, minor[:]...)
	for _, brand := range b.CompatibleBrands {
		dst = append(dst, brand[:]...)
	}
	return dst
}
