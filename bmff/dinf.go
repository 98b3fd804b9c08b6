package bmff

import "github.com/moqwire/cmafloc/internal/werr"

// DataReferenceBox ('dref', ISO/IEC 14496-12 §8.7.2). Always carries
// exactly one self-contained 'url ' entry with flag 0x000001 set,
// meaning "the media data is in the same file" (spec §4.3).
type DataReferenceBox struct{}

func NewDref() *DataReferenceBox { return &DataReferenceBox{} }

func DecodeDref(body []byte) (*DataReferenceBox, error) {
	_, n, err := DecodeFullBoxHeader(body)
	if err != nil {
		return nil, err
	}
	if len(body) < n+4 {
		return nil, werr.Truncated(n, "dref requires a 4-byte entry_count")
	}
	count := GetUint32(body[n : n+4])
	if count != 1 {
		return nil, werr.Malformed(n, "dref: only a single self-contained url entry is supported")
	}
	return &DataReferenceBox{}, nil
}

func (b *DataReferenceBox) Encode() []byte {
	urlEntrySize := basicBoxLen + 4 // FullBox(url, flags=1), no body
	size := fullBoxLen + 4 + urlEntrySize
	h := Header{Type: TypeDREF, Size: uint64(size)}
	dst := EncodeHeader(make([]byte, 0, size), h)
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{})
	var count [4]byte
	PutUint32(count[:], 1)
	dst = append(dst, count[:]...)
	dst = EncodeHeader(dst, Header{Type: TypeURL, Size: uint64(urlEntrySize)})
	dst = EncodeFullBoxHeader(dst, FullBoxHeader{Flags: 0x000001})
	return dst
}

// DataInformationBox ('dinf') always wraps exactly one DataReferenceBox.
type DataInformationBox struct {
	Dref *DataReferenceBox
}

func NewDinf() *DataInformationBox { return &DataInformationBox{Dref: NewDref()} }

func DecodeDinf(body []byte) (*DataInformationBox, error) {
	b := &DataInformationBox{}
	_, err := WalkChildren(body, 0, func(h Header, childBody []byte) (bool, error) {
		if h.Type != TypeDREF {
			return false, nil
		}
		dref, err := DecodeDref(childBody)
		if err != nil {
			return true, err
		}
		b.Dref = dref
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if b.Dref == nil {
		return nil, werr.Invariant("dinf missing required dref child")
	}
	return b, nil
}

func (b *DataInformationBox) Encode() []byte {
	drefBytes := b.Dref.Encode()
	h := Header{Type: TypeDINF, Size: uint64(basicBoxLen + len(drefBytes))}
	dst := EncodeHeader(make([]byte, 0, h.Size), h)
	return append(dst, drefBytes...)
}
