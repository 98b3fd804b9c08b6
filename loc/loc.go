// Package loc implements the draft-ietf-moq-loc header-extension
// codec: a varint-tagged list of extensions sitting in front of an
// opaque WebCodecs-style encoded media chunk. It shares no framing
// with bmff — LOC objects are carried as MoQ objects, not ISO BMFF
// boxes — but reuses the same quicvarint-backed primitives.
package loc

import (
	"bytes"

	"github.com/quic-go/quic-go/quicvarint"

	"github.com/moqwire/cmafloc/internal/werr"
)

// parseVarint reads one QUIC-style varint from the front of b using
// quicvarint.Read, returning the value and the number of bytes consumed.
func parseVarint(b []byte) (uint64, int, error) {
	r := bytes.NewReader(b)
	v, err := quicvarint.Read(r)
	if err != nil {
		return 0, 0, err
	}
	return v, len(b) - r.Len(), nil
}

// MediaKind distinguishes an audio LOC object from a video one.
type MediaKind uint8

const (
	Audio MediaKind = iota
	Video
)

// Header-extension IDs (draft-ietf-moq-loc-01). Parity is semantic:
// even IDs carry a bare varint value, odd IDs carry a length-prefixed
// byte string.
const (
	ExtCaptureTimestamp  uint64 = 2
	ExtVideoFrameMarking uint64 = 4
	ExtAudioLevel        uint64 = 6
	ExtVideoConfig       uint64 = 13
)

func isOdd(id uint64) bool { return id&1 == 1 }

// LocObject is a decoded media envelope: a payload byte string plus an
// ordered list of header extensions and the MoQ transport identifiers
// it travelled with. Group/Object/Subgroup are transport metadata —
// they never appear in the LOC wire format itself.
type LocObject struct {
	Kind     MediaKind
	Payload  []byte
	Ext      []HeaderExtension
	Group    uint64
	Object   uint64
	Subgroup uint64

	// Warnings records unknown extension IDs encountered while
	// decoding; decoding such an object is not an error.
	Warnings []werr.Warning
}

// HeaderExtension is implemented by every known extension variant plus
// Unknown, which preserves unrecognized IDs for round-tripping.
type HeaderExtension interface {
	ExtID() uint64
	encodeValue(dst []byte) []byte
}

// CaptureTimestamp (ID 2, even): wall-clock microseconds since the
// Unix epoch at the moment the frame was captured.
type CaptureTimestamp struct {
	Microseconds uint64
}

func (e CaptureTimestamp) ExtID() uint64 { return ExtCaptureTimestamp }
func (e CaptureTimestamp) encodeValue(dst []byte) []byte {
	return quicvarint.Append(dst, e.Microseconds)
}

// VideoFrameMarking (ID 4, even) packs RFC 9626-style frame-marking
// bits into the low bits of a varint: bit0 independent, bit1
// discardable, bit2 base-layer sync, bits3-5 TID (0-7), bits6-7 SID (0-3).
type VideoFrameMarking struct {
	Independent     bool
	Discardable     bool
	BaseLayerSync   bool
	TemporalID      uint8 // 0-7
	SpatialID       uint8 // 0-3
}

func (e VideoFrameMarking) ExtID() uint64 { return ExtVideoFrameMarking }

func (e VideoFrameMarking) bits() uint64 {
	var v uint64
	if e.Independent {
		v |= 1 << 0
	}
	if e.Discardable {
		v |= 1 << 1
	}
	if e.BaseLayerSync {
		v |= 1 << 2
	}
	v |= uint64(e.TemporalID&0x7) << 3
	v |= uint64(e.SpatialID&0x3) << 6
	return v
}

func (e VideoFrameMarking) encodeValue(dst []byte) []byte {
	return quicvarint.Append(dst, e.bits())
}

func decodeVideoFrameMarking(v uint64) VideoFrameMarking {
	return VideoFrameMarking{
		Independent:   v&(1<<0) != 0,
		Discardable:   v&(1<<1) != 0,
		BaseLayerSync: v&(1<<2) != 0,
		TemporalID:    uint8(v>>3) & 0x7,
		SpatialID:     uint8(v>>6) & 0x3,
	}
}

// IsIndependentFrame reports whether the first VideoFrameMarking
// extension on the object marks the frame as independently decodable;
// later VideoFrameMarking extensions are not consulted.
func (o *LocObject) IsIndependentFrame() bool {
	for _, e := range o.Ext {
		if vfm, ok := e.(VideoFrameMarking); ok {
			return vfm.Independent
		}
	}
	return false
}

// AudioLevel (ID 6, even): bit0 voice-activity, bits1-7 audio level
// 0-127 (0 loudest).
type AudioLevel struct {
	VoiceActivity bool
	Level         uint8 // 0-127
}

func (e AudioLevel) ExtID() uint64 { return ExtAudioLevel }

func (e AudioLevel) encodeValue(dst []byte) []byte {
	v := uint64(e.Level&0x7F) << 1
	if e.VoiceActivity {
		v |= 1
	}
	return quicvarint.Append(dst, v)
}

func decodeAudioLevel(v uint64) AudioLevel {
	return AudioLevel{VoiceActivity: v&1 != 0, Level: uint8(v>>1) & 0x7F}
}

// VideoConfig (ID 13, odd): opaque codec extradata, e.g. an avcC body.
type VideoConfig struct {
	Bytes []byte
}

func (e VideoConfig) ExtID() uint64 { return ExtVideoConfig }
func (e VideoConfig) encodeValue(dst []byte) []byte {
	return append(dst, e.Bytes...)
}

// Unknown preserves an unrecognized extension ID for round-tripping.
// RawValue holds the decoded varint for an even (unknown) ID, or the
// raw bytes for an odd (unknown) ID — exactly one of the two is set,
// selected by the parity of ID.
type Unknown struct {
	ID       uint64
	RawValue uint64
	RawBytes []byte
}

func (e Unknown) ExtID() uint64 { return e.ID }
func (e Unknown) encodeValue(dst []byte) []byte {
	if isOdd(e.ID) {
		return append(dst, e.RawBytes...)
	}
	return quicvarint.Append(dst, e.RawValue)
}

// EncodeHeaders serializes the extension list to the LOC
// header-extension wire format: a flat concatenation of
// [varint id][varint length (odd id only)][value].
func EncodeHeaders(exts []HeaderExtension) []byte {
	var dst []byte
	for _, e := range exts {
		dst = quicvarint.Append(dst, e.ExtID())
		if isOdd(e.ExtID()) {
			var valBuf []byte
			valBuf = e.encodeValue(valBuf)
			dst = quicvarint.Append(dst, uint64(len(valBuf)))
			dst = append(dst, valBuf...)
		} else {
			dst = e.encodeValue(dst)
		}
	}
	return dst
}

// DecodeHeaders parses a LOC header-extension block. Unknown
// extension IDs are preserved as Unknown and reported in warnings
// rather than treated as fatal (spec's Unknown-is-not-fatal policy).
// Per the source's documented assumption, an unknown even ID is
// assumed to carry exactly one varint value.
func DecodeHeaders(buf []byte) ([]HeaderExtension, []werr.Warning, error) {
	var exts []HeaderExtension
	var warnings []werr.Warning
	pos := 0
	for pos < len(buf) {
		id, n, err := parseVarint(buf[pos:])
		if err != nil {
			return exts, warnings, werr.Truncated(pos, "extension id: "+err.Error())
		}
		pos += n
		if isOdd(id) {
			value, consumed, err := readLengthPrefixed(buf[pos:], pos)
			if err != nil {
				return exts, warnings, err
			}
			pos += consumed
			ext, known := decodeOddExtension(id, value)
			if !known {
				warnings = append(warnings, werr.Warning{Offset: pos, Reason: "unknown LOC extension id"})
			}
			exts = append(exts, ext)
		} else {
			v, n, err := parseVarint(buf[pos:])
			if err != nil {
				return exts, warnings, werr.Truncated(pos, "extension value: "+err.Error())
			}
			pos += n
			ext, known := decodeEvenExtension(id, v)
			if !known {
				warnings = append(warnings, werr.Warning{Offset: pos, Reason: "unknown LOC extension id"})
			}
			exts = append(exts, ext)
		}
	}
	return exts, warnings, nil
}

func readLengthPrefixed(buf []byte, offset int) ([]byte, int, error) {
	length, n, err := parseVarint(buf)
	if err != nil {
		return nil, 0, werr.Truncated(offset, "extension length: "+err.Error())
	}
	end := n + int(length)
	if end > len(buf) {
		return nil, 0, werr.Truncated(offset, "extension value exceeds buffer")
	}
	return buf[n:end], end, nil
}

func decodeEvenExtension(id, v uint64) (HeaderExtension, bool) {
	switch id {
	case ExtCaptureTimestamp:
		return CaptureTimestamp{Microseconds: v}, true
	case ExtVideoFrameMarking:
		return decodeVideoFrameMarking(v), true
	case ExtAudioLevel:
		return decodeAudioLevel(v), true
	default:
		return Unknown{ID: id, RawValue: v}, false
	}
}

func decodeOddExtension(id uint64, value []byte) (HeaderExtension, bool) {
	switch id {
	case ExtVideoConfig:
		return VideoConfig{Bytes: value}, true
	default:
		return Unknown{ID: id, RawBytes: value}, false
	}
}

// Encode serializes o to its split wire representation: the
// header-extension block and the opaque payload, transported
// separately by MoQ.
func Encode(o *LocObject) (headers, payload []byte) {
	return EncodeHeaders(o.Ext), o.Payload
}

// EncodeConcat serializes o to the concatenated form: headers
// immediately followed by payload, with no length prefix between
// them (the caller must already know where the payload begins, e.g.
// by tracking the header block's length separately).
func EncodeConcat(o *LocObject) []byte {
	headers, payload := Encode(o)
	return append(headers, payload...)
}

// Decode reconstructs a LocObject from its split (headers, payload)
// wire representation.
func Decode(headers, payload []byte, kind MediaKind) (*LocObject, error) {
	exts, warnings, err := DecodeHeaders(headers)
	if err != nil {
		return nil, err
	}
	return &LocObject{Kind: kind, Payload: payload, Ext: exts, Warnings: warnings}, nil
}
