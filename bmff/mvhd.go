package bmff

import "github.com/moqwire/cmafloc/internal/werr"

var unityMatrix = [9]int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// MovieHeaderBox ('mvhd', ISO/IEC 14496-12 §8.2.2). Structurally
// complete but minimally populated per spec.md's Non-goals: rate,
// volume and matrix are fixed at their identity values.
type MovieHeaderBox struct {
	CreationTime     uint64
	ModificationTime uint64
	Timescale        uint32
	Duration         uint64
	NextTrackID      uint32
}

func NewMvhd(timescale uint32, duration uint64, nextTrackID uint32) *MovieHeaderBox {
	return &MovieHeaderBox{Timescale: timescale, Duration: duration, NextTrackID: nextTrackID}
}

func (b *MovieHeaderBox) usesVersion1() bool {
	return b.CreationTime > 0xFFFFFFFF || b.ModificationTime > 0xFFFFFFFF || b.Duration > 0xFFFFFFFF
}

func DecodeMvhd(body []byte) (*MovieHeaderBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	b := &MovieHeaderBox{}
	if fbh.Version == 1 {
		if len(body) < n+28 {
			return nil, werr.Truncated(n, "mvhd v1 requires 28 bytes")
		}
		b.CreationTime = GetUint64(body[n:])
		b.ModificationTime = GetUint64(body[n+8:])
		b.Timescale = GetUint32(body[n+16:])
		b.Duration = GetUint64(body[n+20:])
		n += 28
	} else {
		if len(body) < n+16 {
			return nil, werr.Truncated(n, "mvhd v0 requires 16 bytes")
		}
		b.CreationTime = uint64(GetUint32(body[n:]))
		b.ModificationTime = uint64(GetUint32(body[n+4:]))
		b.Timescale = GetUint32(body[n+8:])
		b.Duration = uint64(GetUint32(body[n+12:]))
		n += 16
	}
	// rate(4) + volume(2) + reserved(2) + reserved(8) + matrix(36) + pre_defined(24)
	if len(body) < n+4+2+2+8+36+24+4 {
		return nil, werr.Truncated(n, "mvhd trailer truncated")
	}
	n += 4 + 2 + 2 + 8 + 36 + 24
	b.NextTrackID = GetUint32(body[n:])
	return b, nil
}

func (b *MovieHeaderBox) Encode() []byte {
	v1 := b.usesVersion1()
	size := fullBoxLen
	if v1 {
		size += 28
	} else {
		size += 16
	}
	size += 4 + 2 + 2 + 8 + 36 + 24 + 4
	h := Header{Type: TypeMVHD, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
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
	var rate [4]byte
	PutUint32(rate[:], Fixed16_16(1))
	dst = append(dst, rate[:]...)
	var volume [2]byte
	PutUint16(volume[:], Fixed8_8(1))
	dst = append(dst, volume[:]...)
	dst = append(dst, 0, 0) // reserved
	dst = append(dst, make([]byte, 8)...)
	for _, m := range unityMatrix {
		var buf [4]byte
		PutUint32(buf[:], uint32(m))
		dst = append(dst, buf[:]...)
	}
	dst = append(dst, make([]byte, 24)...) // pre_defined
	var nextID [4]byte
	PutUint32(nextID[:], b.NextTrackID)
	return append(dst, nextID[:]...)
}
