// Package bmff implements the ISO Base Media File Format (ISO/IEC
// 14496-12) box framing and the CMAF-profile box set needed to
// construct and parse a CMAF fragment or initialization segment:
// generic box headers (including 64-bit extended size and uuid
// extended type), leaf boxes, flag-gated tfhd/trun, the moof/traf and
// moov/trak/mdia/minf/stbl composite hierarchies, and stsd sample
// entries. The codec is byte-slice in, typed tree out and back; no
// I/O, no shared state.
package bmff

import (
	"github.com/google/uuid"

	"github.com/moqwire/cmafloc/internal/werr"
)

const (
	basicBoxLen    = 8
	extendedSizeLen = 8
	uuidLen        = 16
	fullBoxLen     = basicBoxLen + 4

	// maxChildBoxes bounds the amount of work a single composite decode
	// performs against hostile input: a per-parent cap on the number of
	// children walked, independent of their declared sizes.
	maxChildBoxes = 1024
)

var (
	TypeFTYP = NewFourCC("ftyp")
	TypeSTYP = NewFourCC("styp")
	TypeMOOV = NewFourCC("moov")
	TypeMVHD = NewFourCC("mvhd")
	TypeTRAK = NewFourCC("trak")
	TypeTKHD = NewFourCC("tkhd")
	TypeMDIA = NewFourCC("mdia")
	TypeMDHD = NewFourCC("mdhd")
	TypeHDLR = NewFourCC("hdlr")
	TypeMINF = NewFourCC("minf")
	TypeSTBL = NewFourCC("stbl")
	TypeSTSD = NewFourCC("stsd")
	TypeSTTS = NewFourCC("stts")
	TypeSTSC = NewFourCC("stsc")
	TypeSTSZ = NewFourCC("stsz")
	TypeSTCO = NewFourCC("stco")
	TypeMDAT = NewFourCC("mdat")
	TypeFREE = NewFourCC("free")
	TypeUUID = NewFourCC("uuid")
	TypeVMHD = NewFourCC("vmhd")
	TypeSMHD = NewFourCC("smhd")
	TypeDINF = NewFourCC("dinf")
	TypeDREF = NewFourCC("dref")
	TypeURL  = NewFourCC("url ")
	TypeMOOF = NewFourCC("moof")
	TypeMFHD = NewFourCC("mfhd")
	TypeTRAF = NewFourCC("traf")
	TypeTFHD = NewFourCC("tfhd")
	TypeTFDT = NewFourCC("tfdt")
	TypeTRUN = NewFourCC("trun")
	TypeVIDE = NewFourCC("vide")
	TypeSOUN = NewFourCC("soun")
)

// Header is a decoded generic box header: type plus declared size
// (always the full box length, header included) plus, for uuid boxes,
// the 16-byte extended type.
type Header struct {
	Type     FourCC
	Size     uint64
	UserType uuid.UUID
}

// HeaderLen returns the number of bytes this header occupies on the
// wire: 8, 16 (extended size), 24 (uuid), or 32 (extended size +
// uuid). This
// matches EncodeHeader's own choice of form, which always picks the
// narrowest encoding that fits Size — a decoded Header that used the
// size==1 extended form purely because the source chose to does not
// round-trip byte-for-byte, only value-for-value.
func (h Header) HeaderLen() int {
	n := basicBoxLen
	if h.Size > 0xFFFFFFFF {
		n += extendedSizeLen
	}
	if h.Type == TypeUUID {
		n += uuidLen
	}
	return n
}

// DecodeHeader reads a generic box header at the front of buf. It
// returns the header and the number of bytes consumed (HeaderLen(),
// except for an input that used the size==1 extended form for a size
// that fits in 32 bits, where the 8 extended-size bytes are counted too).
// size==0 ("to end of enclosing container") is only legal when buf is
// the entire remaining top-level input; the caller passes the correct
// buf slice to make that the case.
func DecodeHeader(buf []byte, offset int) (Header, int, error) {
	if len(buf) < basicBoxLen {
		return Header{}, 0, werr.Truncated(offset, "box header requires 8 bytes")
	}
	declSize := uint64(GetUint32(buf[0:4]))
	var h Header
	copy(h.Type[:], buf[4:8])
	n := basicBoxLen
	extended := false
	if declSize == 1 {
		if len(buf) < basicBoxLen+extendedSizeLen {
			return Header{}, 0, werr.Truncated(offset, "extended size requires 8 more bytes")
		}
		declSize = GetUint64(buf[8:16])
		n += extendedSizeLen
		extended = true
	} else if declSize == 0 {
		declSize = uint64(len(buf))
	}
	if h.Type == TypeUUID {
		if len(buf) < n+uuidLen {
			return Header{}, 0, werr.Truncated(offset, "uuid type requires 16 more bytes")
		}
		copy(h.UserType[:], buf[n:n+uuidLen])
		n += uuidLen
	}
	minHeader := basicBoxLen
	if extended {
		minHeader += extendedSizeLen
	}
	if h.Type == TypeUUID {
		minHeader += uuidLen
	}
	if declSize < uint64(minHeader) {
		return Header{}, 0, werr.Malformed(offset, "declared size smaller than header")
	}
	if declSize > uint64(len(buf)) {
		return Header{}, 0, werr.Truncated(offset, "declared size exceeds buffer")
	}
	h.Size = declSize
	return h, n, nil
}

// EncodeHeader appends the wire form of h (and its body, which the
// caller writes immediately after) to dst. h.Size must already be the
// final declared size.
func EncodeHeader(dst []byte, h Header) []byte {
	if h.Size > 0xFFFFFFFF {
		dst = append(dst, 0, 0, 0, 1)
		dst = append(dst, h.Type[:]...)
		var buf [8]byte
		PutUint64(buf[:], h.Size)
		dst = append(dst, buf[:]...)
	} else {
		var buf [4]byte
		PutUint32(buf[:], uint32(h.Size))
		dst = append(dst, buf[:]...)
		dst = append(dst, h.Type[:]...)
	}
	if h.Type == TypeUUID {
		dst = append(dst, h.UserType[:]...)
	}
	return dst
}

// WalkChildren iterates the children of a composite box whose body is
// body (offset is body's absolute position, used only for error/warning
// reporting). visit is called once per child with the child's header
// and body slice; it returns handled=false to mean "not a box I know",
// which WalkChildren records as an Unknown warning and otherwise
// ignores (unknown boxes are never fatal, spec §7).
//
// WalkChildren enforces: each iteration strictly advances the cursor,
// a declared child size >= 8, child end <= len(body), and a hard cap
// of maxChildBoxes iterations.
func WalkChildren(body []byte, offset int, visit func(h Header, childBody []byte) (handled bool, err error)) ([]werr.Warning, error) {
	var warnings []werr.Warning
	pos := 0
	for i := 0; i < maxChildBoxes; i++ {
		if pos >= len(body) {
			return warnings, nil
		}
		hdr, hlen, err := DecodeHeader(body[pos:], offset+pos)
		if err != nil {
			return warnings, err
		}
		if hdr.Size < basicBoxLen {
			return warnings, werr.Malformed(offset+pos, "child box size below minimum header length")
		}
		childEnd := pos + int(hdr.Size)
		if childEnd > len(body) {
			return warnings, werr.Truncated(offset+pos, "child box end exceeds parent body")
		}
		childBody := body[pos+hlen : childEnd]
		handled, err := visit(hdr, childBody)
		if err != nil {
			return warnings, err
		}
		if !handled {
			warnings = append(warnings, werr.Warning{Offset: offset + pos, Reason: "unknown box type " + hdr.Type.String()})
		}
		if childEnd <= pos {
			return warnings, werr.Malformed(offset+pos, "cursor failed to advance")
		}
		pos = childEnd
	}
	if pos >= len(body) {
		return warnings, nil
	}
	return warnings, werr.Malformed(offset+pos, "exceeded max child boxes per parent")
}
