package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// Sample-entry FourCC families (spec §4.6).
var (
	visualEntryTypes = map[FourCC]bool{
		NewFourCC("avc1"): true, NewFourCC("avc3"): true,
		NewFourCC("hev1"): true, NewFourCC("hvc1"): true,
		NewFourCC("vp09"): true, NewFourCC("av01"): true,
	}
	audioEntryTypes = map[FourCC]bool{
		NewFourCC("mp4a"): true, NewFourCC("opus"): true,
		NewFourCC("Opus"): true, NewFourCC("ac-3"): true,
		NewFourCC("ec-3"): true,
	}
)

// SampleEntry is implemented by VisualSampleEntry, AudioSampleEntry and
// GenericSampleEntry; dispatch in stsd peeks the entry's FourCC before
// delegating (spec §9 "Polymorphism over sample entries").
type SampleEntry interface {
	EntryType() FourCC
	Encode() []byte
}

// sampleEntryPrefix is the 6-byte reserved + 2-byte data_reference_index
// common header shared by every SampleEntry subtype.
type sampleEntryPrefix struct {
	DataReferenceIndex uint16
}

func encodeSampleEntryPrefix(dst []byte, p sampleEntryPrefix) []byte {
	dst = append(dst, 0, 0, 0, 0, 0, 0)
	var idx [2]byte
	PutUint16(idx[:], p.DataReferenceIndex)
	return append(dst, idx[:]...)
}

func decodeSampleEntryPrefix(body []byte) (sampleEntryPrefix, int, error) {
	if len(body) < 8 {
		return sampleEntryPrefix{}, 0, werr.Truncated(0, "sample entry prefix requires 8 bytes")
	}
	return sampleEntryPrefix{DataReferenceIndex: GetUint16(body[6:8])}, 8, nil
}

// VisualSampleEntry (ISO/IEC 14496-12 §12.1.3). CodecConfig is the
// opaque trailing box (e.g. avcC/hvcC/vpcC/av1C), preserved verbatim.
type VisualSampleEntry struct {
	Type                FourCC
	DataReferenceIndex  uint16
	Width, Height       uint16
	CompressorName      [32]byte
	CodecConfig         []byte
}

func (e *VisualSampleEntry) EntryType() FourCC { return e.Type }

func DecodeVisualSampleEntry(entryType FourCC, body []byte) (*VisualSampleEntry, error) {
	prefix, n, err := decodeSampleEntryPrefix(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+70 {
		return nil, werr.Truncated(n, "VisualSampleEntry requires 70 bytes")
	}
	e := &VisualSampleEntry{Type: entryType, DataReferenceIndex: prefix.DataReferenceIndex}
	fixed := body[n : n+70]
	e.Width = GetUint16(fixed[16:18])
	e.Height = GetUint16(fixed[18:20])
	copy(e.CompressorName[:], fixed[34:66])
	e.CodecConfig = body[n+70:]
	return e, nil
}

func (e *VisualSampleEntry) Encode() []byte {
	size := basicBoxLen + 8 + 70 + len(e.CodecConfig)
	h := Header{Type: e.Type, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = encodeSampleEntryPrefix(dst, sampleEntryPrefix{DataReferenceIndex: orOne(e.DataReferenceIndex)})
	dst = append(dst, 0, 0) // pre_defined
	dst = append(dst, 0, 0) // reserved
	dst = append(dst, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0) // pre_defined[3]
	var wh [4]byte
	PutUint16(wh[0:2], e.Width)
	PutUint16(wh[2:4], e.Height)
	dst = append(dst, wh[:]...)
	var res [4]byte
	PutUint32(res[:], Fixed16_16(72))
	dst = append(dst, res[:]...) // horizresolution 72dpi
	dst = append(dst, res[:]...) // vertresolution 72dpi
	dst = append(dst, 0, 0, 0, 0) // reserved
	var frameCount [2]byte
	PutUint16(frameCount[:], 1)
	dst = append(dst, frameCount[:]...)
	dst = append(dst, e.CompressorName[:]...)
	var depth [2]byte
	PutUint16(depth[:], 0x0018)
	dst = append(dst, depth[:]...)
	var predefined [2]byte
	PutUint16(predefined[:], 0xFFFF) // -1
	dst = append(dst, predefined[:]...)
	return append(dst, e.CodecConfig...)
}

func orOne(v uint16) uint16 {
	if v == 0 {
		return 1
	}
	return v
}

// AudioSampleEntry (ISO/IEC 14496-12 §12.2.3). CodecConfig is the
// opaque trailing box (e.g. esds), preserved verbatim.
type AudioSampleEntry struct {
	Type               FourCC
	DataReferenceIndex uint16
	ChannelCount       uint16
	SampleSize         uint16
	SampleRateHz       uint32 // integer Hz; wire form is 16.16
	CodecConfig        []byte
}

func (e *AudioSampleEntry) EntryType() FourCC { return e.Type }

func DecodeAudioSampleEntry(entryType FourCC, body []byte) (*AudioSampleEntry, error) {
	prefix, n, err := decodeSampleEntryPrefix(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+20 {
		return nil, werr.Truncated(n, "AudioSampleEntry requires 20 bytes")
	}
	fixed := body[n : n+20]
	e := &AudioSampleEntry{
		Type:               entryType,
		DataReferenceIndex: prefix.DataReferenceIndex,
		ChannelCount:       GetUint16(fixed[8:10]),
		SampleSize:         GetUint16(fixed[10:12]),
		SampleRateHz:        uint32(IntPart16_16(GetUint32(fixed[16:20]))),
	}
	e.CodecConfig = body[n+20:]
	return e, nil
}

func (e *AudioSampleEntry) Encode() []byte {
	size := basicBoxLen + 8 + 20 + len(e.CodecConfig)
	h := Header{Type: e.Type, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = encodeSampleEntryPrefix(dst, sampleEntryPrefix{DataReferenceIndex: orOne(e.DataReferenceIndex)})
	dst = append(dst, 0, 0, 0, 0, 0, 0, 0, 0) // two reserved u32s
	var u16 [2]byte
	PutUint16(u16[:], e.ChannelCount)
	dst = append(dst, u16[:]...)
	PutUint16(u16[:], e.SampleSize)
	dst = append(dst, u16[:]...)
	dst = append(dst, 0, 0) // pre_defined
	dst = append(dst, 0, 0) // reserved
	var rate [4]byte
	PutUint32(rate[:], Fixed16_16(uint16(e.SampleRateHz)))
	dst = append(dst, rate[:]...)
	return append(dst, e.CodecConfig...)
}

// GenericSampleEntry preserves anything outside the visual/audio
// families opaquely (spec §4.6 "Anything else").
type GenericSampleEntry struct {
	Type FourCC
	Body []byte
}

func (e *GenericSampleEntry) EntryType() FourCC { return e.Type }

func DecodeGenericSampleEntry(entryType FourCC, body []byte) (*GenericSampleEntry, error) {
	return &GenericSampleEntry{Type: entryType, Body: body}, nil
}

func (e *GenericSampleEntry) Encode() []byte {
	h := Header{Type: e.Type, Size: uint64(basicBoxLen + len(e.Body))}
	dst := EncodeHeader(make([]byte, 0, basicBoxLen+len(e.Body)), h)
	return append(dst, e.Body...)
}

// dispatchSampleEntry picks VisualSampleEntry/AudioSampleEntry/GenericSampleEntry by FourCC family.
func dispatchSampleEntry(entryType FourCC, body []byte) (SampleEntry, error) {
	switch {
	case visualEntryTypes[entryType]:
		return DecodeVisualSampleEntry(entryType, body)
	case audioEntryTypes[entryType]:
		return DecodeAudioSampleEntry(entryType, body)
	default:
		return DecodeGenericSampleEntry(entryType, body)
	}
}

// SampleDescriptionBox ('stsd', ISO/IEC 14496-12 §8.5.2).
type SampleDescriptionBox struct {
	Entries []SampleEntry
}

func NewStsd(entries ...SampleEntry) *SampleDescriptionBox {
	return &SampleDescriptionBox{Entries: entries}
}

func DecodeStsd(body []byte) (*SampleDescriptionBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "stsd requires a 4-byte entry_count")
	}
	entryCount := GetUint32(body[n : n+4])
	n += 4
	b := &SampleDescriptionBox{}
	for i := 0; i < int(entryCount); i++ {
		hdr, hlen, err := DecodeHeader(body[n:], n)
		if err != nil {
			return nil, err
		}
		end := n + int(hdr.Size)
		if end > len(body) {
			return nil, werr.Truncated(n, "stsd entry exceeds buffer")
		}
		entry, err := dispatchSampleEntry(hdr.Type, body[n+hlen:end])
		if err != nil {
			return nil, err
		}
		b.Entries = append(b.Entries, entry)
		n = end
	}
	if len(b.Entries) != int(entryCount) {
		return nil, werr.Invariant("stsd entry_count does not match number of entries decoded")
	}
	return b, nil
}

func (b *SampleDescriptionBox) Encode() []byte {
	var entryBytes [][]byte
	total := 0
	for _, e := range b.Entries {
		eb := e.Encode()
		entryBytes = append(entryBytes, eb)
		total += len(eb)
	}
	size := fullBoxLen + 4 + total
	h := Header{Type: TypeSTSD, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	var count [4]byte
	PutUint32(count[:], uint32(len(b.Entries)))
	dst = append(dst, count[:]...)
	for _, eb := range entryBytes {
		dst = append(dst, eb...)
	}
	return dst
}
