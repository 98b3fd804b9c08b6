package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// The fragmented (CMAF) profile carries no sample-table data in the
// initialization segment — timing and size live in trun (spec §4.3) —
// so stts/stsc/stsz/stco are emitted as empty full boxes with
// entry_count (and, for stsz, sample_size) set to 0.

type emptyTableBox struct {
	Type    FourCC
	Entries int // always 0; kept for clarity at call sites
}

func decodeEmptyTable(boxType FourCC, body []byte, extraHeaderFields int) (*emptyTableBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	n += extraHeaderFields * 4
	if len(body) < n+4 {
		return nil, werr.Truncated(n, boxType.String()+" requires a 4-byte entry_count")
	}
	count := GetUint32(body[n : n+4])
	if count != 0 {
		return nil, werr.Malformed(n, boxType.String()+": non-empty sample tables are not supported in the fragmented profile")
	}
	return &emptyTableBox{Type: boxType}, nil
}

func encodeEmptyTable(boxType FourCC, extraHeaderFieldValues ...uint32) []byte {
	size := fullBoxLen + 4*(1+len(extraHeaderFieldValues))
	h := Header{Type: boxType, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	for _, v := range extraHeaderFieldValues {
		var buf [4]byte
		PutUint32(buf[:], v)
		dst = append(dst, buf[:]...)
	}
	var zero [4]byte
	return append(dst, zero[:]...)
}

type TimeToSampleBox struct{}

func NewStts() *TimeToSampleBox { return &TimeToSampleBox{} }
func DecodeStts(body []byte) (*TimeToSampleBox, error) {
	if _, err := decodeEmptyTable(TypeSTTS, body, 0); err != nil {
		return nil, err
	}
	return &TimeToSampleBox{}, nil
}
func (b *TimeToSampleBox) Encode() []byte { return encodeEmptyTable(TypeSTTS) }

type SampleToChunkBox struct{}

func NewStsc() *SampleToChunkBox { return &SampleToChunkBox{} }
func DecodeStsc(body []byte) (*SampleToChunkBox, error) {
	if _, err := decodeEmptyTable(TypeSTSC, body, 0); err != nil {
		return nil, err
	}
	return &SampleToChunkBox{}, nil
}
func (b *SampleToChunkBox) Encode() []byte { return encodeEmptyTable(TypeSTSC) }

// SampleSizeBox ('stsz') has sample_size then sample_count; both 0.
type SampleSizeBox struct{}

func NewStsz() *SampleSizeBox { return &SampleSizeBox{} }
func DecodeStsz(body []byte) (*SampleSizeBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+8 {
		return nil, werr.Truncated(n, "stsz requires 8 bytes")
	}
	if GetUint32(body[n:n+4]) != 0 || GetUint32(body[n+4:n+8]) != 0 {
		return nil, werr.Malformed(n, "stsz: non-empty sample tables are not supported in the fragmented profile")
	}
	return &SampleSizeBox{}, nil
}
func (b *SampleSizeBox) Encode() []byte { return encodeEmptyTable(TypeSTSZ, 0) }

type ChunkOffsetBox struct{}

func NewStco() *ChunkOffsetBox { return &ChunkOffsetBox{} }
func DecodeStco(body []byte) (*ChunkOffsetBox, error) {
	if _, err := decodeEmptyTable(TypeSTCO, body, 0); err != nil {
		return nil, err
	}
	return &ChunkOffsetBox{}, nil
}
func (b *ChunkOffsetBox) Encode() []byte { return encodeEmptyTable(TypeSTCO) }
