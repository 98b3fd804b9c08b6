package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// tfhd flag bits (ISO/IEC 14496-12 §8.8.7, spec §4.4).
const (
	TfhdBaseDataOffsetPresent         uint32 = 0x000001
	TfhdSampleDescriptionIndexPresent uint32 = 0x000002
	TfhdDefaultSampleDurationPresent  uint32 = 0x000008
	TfhdDefaultSampleSizePresent      uint32 = 0x000010
	TfhdDefaultSampleFlagsPresent     uint32 = 0x000020
	TfhdDurationIsEmpty               uint32 = 0x010000
	TfhdDefaultBaseIsMoof              uint32 = 0x020000
)

// TrackFragmentHeaderBox ('tfhd'). Every optional field is modeled as
// an explicit pointer: nil means absent. The Set* methods set the
// field and its flag bit together (spec §4.4, §9 "Flag-driven optional
// fields"); Encode writes Flags as stored, so a field assigned directly
// must have its flag bit set by the caller as well.
type TrackFragmentHeaderBox struct {
	TrackID                uint32
	Flags                  uint32 // unknown bits preserved verbatim
	BaseDataOffset         *uint64
	SampleDescriptionIndex *uint32
	DefaultSampleDuration  *uint32
	DefaultSampleSize      *uint32
	DefaultSampleFlags     *SampleFlags
}

func NewTfhd(trackID uint32) *TrackFragmentHeaderBox {
	return &TrackFragmentHeaderBox{TrackID: trackID}
}

func (b *TrackFragmentHeaderBox) SetBaseDataOffset(v uint64) {
	b.BaseDataOffset = &v
	b.Flags |= TfhdBaseDataOffsetPresent
}

func (b *TrackFragmentHeaderBox) SetSampleDescriptionIndex(v uint32) {
	b.SampleDescriptionIndex = &v
	b.Flags |= TfhdSampleDescriptionIndexPresent
}

func (b *TrackFragmentHeaderBox) SetDefaultSampleDuration(v uint32) {
	b.DefaultSampleDuration = &v
	b.Flags |= TfhdDefaultSampleDurationPresent
}

func (b *TrackFragmentHeaderBox) SetDefaultSampleSize(v uint32) {
	b.DefaultSampleSize = &v
	b.Flags |= TfhdDefaultSampleSizePresent
}

func (b *TrackFragmentHeaderBox) SetDefaultSampleFlags(v SampleFlags) {
	b.DefaultSampleFlags = &v
	b.Flags |= TfhdDefaultSampleFlagsPresent
}

func DecodeTfhd(body []byte) (*TrackFragmentHeaderBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "tfhd requires a 4-byte track_ID")
	}
	b := &TrackFragmentHeaderBox{TrackID: GetUint32(body[n : n+4]), Flags: fbh.Flags}
	n += 4
	if b.Flags&TfhdBaseDataOffsetPresent != 0 {
		if len(body) < n+8 {
			return nil, werr.Truncated(n, "tfhd base_data_offset truncated")
		}
		v := GetUint64(body[n:])
		b.BaseDataOffset = &v
		n += 8
	}
	if b.Flags&TfhdSampleDescriptionIndexPresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "tfhd sample_description_index truncated")
		}
		v := GetUint32(body[n:])
		b.SampleDescriptionIndex = &v
		n += 4
	}
	if b.Flags&TfhdDefaultSampleDurationPresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "tfhd default_sample_duration truncated")
		}
		v := GetUint32(body[n:])
		b.DefaultSampleDuration = &v
		n += 4
	}
	if b.Flags&TfhdDefaultSampleSizePresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "tfhd default_sample_size truncated")
		}
		v := GetUint32(body[n:])
		b.DefaultSampleSize = &v
		n += 4
	}
	if b.Flags&TfhdDefaultSampleFlagsPresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "tfhd default_sample_flags truncated")
		}
		v := SampleFlags(GetUint32(body[n:]))
		b.DefaultSampleFlags = &v
		n += 4
	}
	return b, nil
}

func (b *TrackFragmentHeaderBox) bodyLen() int {
	n := 4
	if b.BaseDataOffset != nil {
		n += 8
	}
	if b.SampleDescriptionIndex != nil {
		n += 4
	}
	if b.DefaultSampleDuration != nil {
		n += 4
	}
	if b.DefaultSampleSize != nil {
		n += 4
	}
	if b.DefaultSampleFlags != nil {
		n += 4
	}
	return n
}

func (b *TrackFragmentHeaderBox) Encode() []byte {
	size := fullBoxLen + b.bodyLen()
	h := Header{Type: TypeTFHD, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Flags: b.Flags})
	var u32 [4]byte
	PutUint32(u32[:], b.TrackID)
	dst = append(dst, u32[:]...)
	if b.BaseDataOffset != nil {
		var u64 [8]byte
		PutUint64(u64[:], *b.BaseDataOffset)
		dst = append(dst, u64[:]...)
	}
	if b.SampleDescriptionIndex != nil {
		PutUint32(u32[:], *b.SampleDescriptionIndex)
		dst = append(dst, u32[:]...)
	}
	if b.DefaultSampleDuration != nil {
		PutUint32(u32[:], *b.DefaultSampleDuration)
		dst = append(dst, u32[:]...)
	}
	if b.DefaultSampleSize != nil {
		PutUint32(u32[:], *b.DefaultSampleSize)
		dst = append(dst, u32[:]...)
	}
	if b.DefaultSampleFlags != nil {
		PutUint32(u32[:], b.DefaultSampleFlags.Bits())
		dst = append(dst, u32[:]...)
	}
	return dst
}
