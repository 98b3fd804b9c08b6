package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// trun flag bits (ISO/IEC 14496-12 §8.8.8, spec §4.4).
const (
	TrunDataOffsetPresent             uint32 = 0x000001
	TrunFirstSampleFlagsPresent        uint32 = 0x000004
	TrunSampleDurationPresent          uint32 = 0x000100
	TrunSampleSizePresent              uint32 = 0x000200
	TrunSampleFlagsPresent             uint32 = 0x000400
	TrunSampleCompositionTimeOffsetPresent uint32 = 0x000800
)

// Sample is one per-sample record inside a trun. Which fields are
// populated is driven entirely by the parent TrackRunBox's Flags (spec
// §3 "Sample"); fields absent on the wire are left at their zero value.
type Sample struct {
	Duration                *uint32
	Size                    *uint32
	Flags                   *SampleFlags
	CompositionTimeOffset   *int32 // the 32-bit wire word as int32, for either version
}

// TrackRunBox ('trun'). CompositionTimeOffset is held as an int32 for
// both versions and its 32-bit word round-trips unchanged. A version-0
// offset (unsigned on the wire) of 2^31 or more reads back as a
// negative int32; version 1 offsets are signed on the wire and read as
// such.
type TrackRunBox struct {
	Version          uint8
	Flags            uint32
	DataOffset       *int32
	FirstSampleFlags *SampleFlags
	Samples          []Sample
}

func NewTrun(version uint8) *TrackRunBox { return &TrackRunBox{Version: version} }

func (b *TrackRunBox) SetDataOffset(v int32) {
	b.DataOffset = &v
	b.Flags |= TrunDataOffsetPresent
}

func (b *TrackRunBox) SetFirstSampleFlags(v SampleFlags) {
	b.FirstSampleFlags = &v
	b.Flags |= TrunFirstSampleFlagsPresent
}

// SetSamples installs the per-sample list and derives the sample-level
// flag bits (duration/size/flags/composition-time-offset present) from
// which fields are non-nil on the first sample; every sample must then
// populate the same fields (spec §3 "Sample" invariant).
func (b *TrackRunBox) SetSamples(samples []Sample) {
	b.Samples = samples
	if len(samples) == 0 {
		return
	}
	first := samples[0]
	if first.Duration != nil {
		b.Flags |= TrunSampleDurationPresent
	}
	if first.Size != nil {
		b.Flags |= TrunSampleSizePresent
	}
	if first.Flags != nil {
		b.Flags |= TrunSampleFlagsPresent
	}
	if first.CompositionTimeOffset != nil {
		b.Flags |= TrunSampleCompositionTimeOffsetPresent
	}
}

func DecodeTrun(body []byte) (*TrackRunBox, error) {
	fbh, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "trun requires a 4-byte sample_count")
	}
	b := &TrackRunBox{Version: fbh.Version, Flags: fbh.Flags}
	sampleCount := GetUint32(body[n : n+4])
	n += 4
	if b.Flags&TrunDataOffsetPresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "trun data_offset truncated")
		}
		v := int32(GetUint32(body[n:]))
		b.DataOffset = &v
		n += 4
	}
	if b.Flags&TrunFirstSampleFlagsPresent != 0 {
		if len(body) < n+4 {
			return nil, werr.Truncated(n, "trun first_sample_flags truncated")
		}
		v := SampleFlags(GetUint32(body[n:]))
		b.FirstSampleFlags = &v
		n += 4
	}
	b.Samples = make([]Sample, sampleCount)
	for i := 0; i < int(sampleCount); i++ {
		var s Sample
		if b.Flags&TrunSampleDurationPresent != 0 {
			if len(body) < n+4 {
				return nil, werr.Truncated(n, "trun sample duration truncated")
			}
			v := GetUint32(body[n:])
			s.Duration = &v
			n += 4
		}
		if b.Flags&TrunSampleSizePresent != 0 {
			if len(body) < n+4 {
				return nil, werr.Truncated(n, "trun sample size truncated")
			}
			v := GetUint32(body[n:])
			s.Size = &v
			n += 4
		}
		if b.Flags&TrunSampleFlagsPresent != 0 {
			if len(body) < n+4 {
				return nil, werr.Truncated(n, "trun sample flags truncated")
			}
			v := SampleFlags(GetUint32(body[n:]))
			s.Flags = &v
			n += 4
		} else if i == 0 && b.FirstSampleFlags != nil {
			v := *b.FirstSampleFlags
			s.Flags = &v
		}
		if b.Flags&TrunSampleCompositionTimeOffsetPresent != 0 {
			if len(body) < n+4 {
				return nil, werr.Truncated(n, "trun sample composition_time_offset truncated")
			}
			raw := GetUint32(body[n:])
			var v int32
			if b.Version == 1 {
				v = int32(raw)
			} else {
				v = int32(uint32(raw)) // same bits as version 1; a value of 2^31 or more reads as negative
			}
			s.CompositionTimeOffset = &v
			n += 4
		}
		b.Samples[i] = s
	}
	return b, nil
}

func (b *TrackRunBox) bodyLen() int {
	n := 4
	if b.DataOffset != nil {
		n += 4
	}
	if b.FirstSampleFlags != nil {
		n += 4
	}
	perSample := 0
	if b.Flags&TrunSampleDurationPresent != 0 {
		perSample += 4
	}
	if b.Flags&TrunSampleSizePresent != 0 {
		perSample += 4
	}
	if b.Flags&TrunSampleFlagsPresent != 0 {
		perSample += 4
	}
	if b.Flags&TrunSampleCompositionTimeOffsetPresent != 0 {
		perSample += 4
	}
	n += perSample * len(b.Samples)
	return n
}

func (b *TrackRunBox) Encode() []byte {
	size := fullBoxLen + b.bodyLen()
	h := Header{Type: TypeTRUN, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Version: b.Version, Flags: b.Flags})
	var u32 [4]byte
	PutUint32(u32[:], uint32(len(b.Samples)))
	dst = append(dst, u32[:]...)
	if b.DataOffset != nil {
		PutUint32(u32[:], uint32(*b.DataOffset))
		dst = append(dst, u32[:]...)
	}
	if b.FirstSampleFlags != nil {
		PutUint32(u32[:], b.FirstSampleFlags.Bits())
		dst = append(dst, u32[:]...)
	}
	for _, s := range b.Samples {
		if b.Flags&TrunSampleDurationPresent != 0 {
			PutUint32(u32[:], valueOr(s.Duration, 0))
			dst = append(dst, u32[:]...)
		}
		if b.Flags&TrunSampleSizePresent != 0 {
			PutUint32(u32[:], valueOr(s.Size, 0))
			dst = append(dst, u32[:]...)
		}
		if b.Flags&TrunSampleFlagsPresent != 0 {
			var flags SampleFlags
			if s.Flags != nil {
				flags = *s.Flags
			}
			PutUint32(u32[:], flags.Bits())
			dst = append(dst, u32[:]...)
		}
		if b.Flags&TrunSampleCompositionTimeOffsetPresent != 0 {
			var cto int32
			if s.CompositionTimeOffset != nil {
				cto = *s.CompositionTimeOffset
			}
			PutUint32(u32[:], uint32(cto))
			dst = append(dst, u32[:]...)
		}
	}
	return dst
}

func valueOr(p *uint32, def uint32) uint32 {
	if p == nil {
		return def
	}
	return *p
}
