package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// tkhd flags (ISO/IEC 14496-12 §8.3.2).
const (
	TkhdTrackEnabled  uint32 = 0x000001
	TkhdTrackInMovie  uint32 = 0x000002
	TkhdTrackInPreview uint32 = 0x000004
)

// TrackHeaderBox ('tkhd'). Width/Height carry a 16.16 fixed-point pixel
// dimension per the ISO box definition; Volume is 8.8 fixed-point and
// is only meaningful for audio tracks.
type TrackHeaderBox struct {
	Flags            uint32
	CreationTime     uint64
	ModificationTime uint64
	TrackID          uint32
	Duration         uint64
	Layer            int16
	AlternateGroup   int16
	Volume           uint16 // 8.8 fixed point
	Width            uint32 // 16.16 fixed point
	Height           uint32 // 16.16 fixed point
}

func NewTkhd(trackID uint32) *TrackHeaderBox {
	return &TrackHeaderBox{TrackID: trackID, Flags: TkhdTrackEnabled | TkhdTrackInMovie}
}

func (b *TrackHeaderBox) usesVersion1() bool {
	return b.CreationTime > 0xFFFFFFFF || b.ModificationTime > 0xFFFFFFFF || b.Duration > 0xFFFFFFFF
}

func DecodeTkhd(body []byte) (*TrackHeaderBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	b := &TrackHeaderBox{Flags: fbh.Flags}
	if fbh.Version == 1 {
		if len(body) < n+32 {
			return nil, werr.Truncated(n, "tkhd v1 requires 32 bytes")
		}
		b.CreationTime = GetUint64(body[n:])
		b.ModificationTime = GetUint64(body[n+8:])
		b.TrackID = GetUint32(body[n+16:])
		// reserved u32 at n+20
		b.Duration = GetUint64(body[n+24:])
		n += 32
	} else {
		if len(body) < n+20 {
			return nil, werr.Truncated(n, "tkhd v0 requires 20 bytes")
		}
		b.CreationTime = uint64(GetUint32(body[n:]))
		b.ModificationTime = uint64(GetUint32(body[n+4:]))
		b.TrackID = GetUint32(body[n+8:])
		// reserved u32 at n+12
		b.Duration = uint64(GetUint32(body[n+16:]))
		n += 20
	}
	// reserved(8) + layer(2) + alternate_group(2) + volume(2) + reserved(2) + matrix(36) + width(4) + height(4)
	if len(body) < n+8+2+2+2+2+36+4+4 {
		return nil, werr.Truncated(n, "tkhd trailer truncated")
	}
	n += 8
	b.Layer = int16(GetUint16(body[n:]))
	n += 2
	b.AlternateGroup = int16(GetUint16(body[n:]))
	n += 2
	b.Volume = GetUint16(body[n:])
	n += 2 + 2 + 36
	b.Width = GetUint32(body[n:])
	n += 4
	b.Height = GetUint32(body[n:])
	return b, nil
}

func (b *TrackHeaderBox) Encode() []byte {
	v1 := b.usesVersion1()
	size := fullBoxLen
	if v1 {
		size += 32
	} else {
		size += 20
	}
	size += 8 + 2 + 2 + 2 + 2 + 36 + 4 + 4
	h := Header{Type: TypeTKHD, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	version := uint8(0)
	if v1 {
		version = 1
	}
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Version: version, Flags: b.Flags})
	if v1 {
		var buf [32]byte
		PutUint64(buf[0:], b.CreationTime)
		PutUint64(buf[8:], b.ModificationTime)
		PutUint32(buf[16:], b.TrackID)
		PutUint64(buf[24:], b.Duration)
		dst = append(dst, buf[:]...)
	} else {
		var buf [20]byte
		PutUint32(buf[0:], uint32(b.CreationTime))
		PutUint32(buf[4:], uint32(b.ModificationTime))
		PutUint32(buf[8:], b.TrackID)
		PutUint32(buf[16:], uint32(b.Duration))
		dst = append(dst, buf[:]...)
	}
	dst = append(dst, make([]byte, 8)...) // reserved
	var u16 [2]byte
	PutUint16(u16[:], uint16(b.Layer))
	dst = append(dst, u16[:]...)
	PutUint16(u16[:], uint16(b.AlternateGroup))
	dst = append(dst, u16[:]...)
	PutUint16(u16[:], b.Volume)
	dst = append(dst, u16[:]...)
	dst = append(dst, 0, 0) // reserved
	for _, m := range unityMatrix {
		var buf [4]byte
		PutUint32(buf[:], uint32(m))
		dst = append(dst, buf[:]...)
	}
	var wh [4]byte
	PutUint32(wh[:], b.Width)
	dst = append(dst, wh[:]...)
	PutUint32(wh[:], b.Height)
	return append(dst, wh[:]...)
}
