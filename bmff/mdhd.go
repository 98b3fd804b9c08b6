package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// MediaHeaderBox ('mdhd', ISO/IEC 14496-12 §8.4.2). Language is packed
// as three 5-bit characters, each biased by 0x60 per ISO 639-2/T.
type MediaHeaderBox struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	Language         [3]byte // e.g. "und"
}

func NewMdhd(timescale uint32, duration uint64) *MediaHeaderBox {
	return &MediaHeaderBox{Timescale: timescale, Duration: duration, Language: [3]byte{'u', 'n', 'd'}}
}

func packLanguage(lang [3]byte) uint16 {
	var v uint16
	for _, c := range lang {
		v = v<<5 | uint16(c-0x60)
	}
	return v
}

func unpackLanguage(v uint16) [3]byte {
	var lang [3]byte
	lang[2] = byte(v&0x1F) + 0x60
	lang[1] = byte((v>>5)&0x1F) + 0x60
	lang[0] = byte((v>>10)&0x1F) + 0x60
	return lang
}

func DecodeMdhd(body []byte) (*MediaHeaderBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	b := &MediaHeaderBox{}
	if fbh.Version == 1 {
		if len(body) < n+28 {
			return nil, werr.Truncated(n, "mdhd v1 requires 28 bytes")
		}
		b.CreationTime = GetUint64(body[n:])
		b.ModificationTime = GetUint64(body[n+8:])
		b.Timescale = GetUint32(body[n+16:])
		b.Duration = GetUint64(body[n+20:])
		n += 28
	} else {
		if len(body) < n+16 {
			return nil, werr.Truncated(n, "mdhd v0 requires 16 bytes")
		}
		b.CreationTime = uint64(GetUint32(body[n:]))
		b.ModificationTime = uint64(GetUint32(body[n+4:]))
		b.Timescale = GetUint32(body[n+8:])
		b.Duration = uint64(GetUint32(body[n+12:]))
		n += 16
	}
	if len(body) < n+2 {
		return nil, werr.Truncated(n, "mdhd requires a 2-byte packed language field")
	}
	b.Language = unpackLanguage(GetUint16(body[n:]))
	return b, nil
}

func (b *MediaHeaderBox) usesVersion1() bool {
	return b.CreationTime > 0xFFFFFFFF || b.ModificationTime > 0xFFFFFFFF || b.Duration > 0xFFFFFFFF
}

func (b *MediaHeaderBox) Encode() []byte {
	v1 := b.usesVersion1()
	size := fullBoxLen + 4
	if v1 {
		size += 28
	} else {
		size += 16
	}
	h := Header{Type: TypeMDHD, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	version := uint8(0)
	if v1 {
		version = 1
	}
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Version: version})
	if v1 {
		var buf [28]byte
		PutUint64(buf[0:], b.CreationTime)
		PutUint64(buf[8:], b.ModificationTime)
		PutUint32(buf[16:], b.Timescale)
		PutUint64(buf[20:], b.Duration)
		dst = append(dst, buf[:]...)
	} else {
		var buf [16]byte
		PutUint32(buf[0:], uint32(b.CreationTime))
		PutUint32(buf[4:], uint32(b.ModificationTime))
		PutUint32(buf[8:], b.Timescale)
		PutUint32(buf[12:], uint32(b.Duration))
		dst = append(dst, buf[:]...)
	}
	var lang [2]byte
	PutUint16(lang[:], packLanguage(b.Language))
	dst = append(dst, lang[:]...)
	dst = append(dst, 0, 0) // pre_defined
	return dst
}
