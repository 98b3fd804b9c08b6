package fragment

import (
	"github.com/moqwire/cmafloc/bmff"
	"github.com/moqwire/cmafloc/internal/werr"
)

// ScanFragments demultiplexes a concatenated blob into raw fragment
// byte slices (each the span [styp_start, fragment_end)). It does not
// decode the fragments; pair it with DecodeFragment to get trees.
//
// A fragment ends at the end of its mdat, or — if no mdat is found
// before the next styp — the scan restarts at that next styp (spec's
// "prefer the mdat end-of-fragment rule" resolution of the source's
// ambiguous multi-fragment reader). If mdat never appears before the
// buffer ends, the trailing bytes are not a complete fragment and are
// not yielded.
func ScanFragments(buf []byte) ([][]byte, error) {
	var out [][]byte
	pos := 0
	for pos < len(buf) {
		start, err := findNextStyp(buf, pos)
		if err != nil {
			return out, err
		}
		if start < 0 {
			return out, nil
		}
		end, ok, err := findMdatEnd(buf, start)
		if err != nil {
			return out, err
		}
		if !ok {
			// No mdat before the next styp (or the end of buf): resume
			// the search for a styp just past this one.
			hdr, _, err := bmff.DecodeHeader(buf[start:], start)
			if err != nil {
				return out, err
			}
			pos = start + int(hdr.Size)
			continue
		}
		out = append(out, buf[start:end])
		pos = end
	}
	return out, nil
}

// findNextStyp scans forward from pos using the box-size rule, looking
// for the next styp header; returns -1 if none is found before the
// buffer ends.
func findNextStyp(buf []byte, pos int) (int, error) {
	for pos < len(buf) {
		hdr, _, err := bmff.DecodeHeader(buf[pos:], pos)
		if err != nil {
			return -1, err
		}
		if hdr.Type == bmff.TypeSTYP {
			return pos, nil
		}
		if hdr.Size < 8 {
			return -1, werr.Malformed(pos, "box size below minimum header length while scanning")
		}
		pos += int(hdr.Size)
	}
	return -1, nil
}

// findMdatEnd scans forward from a styp at fragStart looking for the
// first mdat; returns its end offset and true, or false if the buffer
// ends (or a second styp is hit) before one is found.
func findMdatEnd(buf []byte, fragStart int) (int, bool, error) {
	pos := fragStart
	first := true
	for pos < len(buf) {
		hdr, _, err := bmff.DecodeHeader(buf[pos:], pos)
		if err != nil {
			return 0, false, err
		}
		if hdr.Size < 8 {
			return 0, false, werr.Malformed(pos, "box size below minimum header length while scanning")
		}
		if hdr.Type == bmff.TypeSTYP && !first {
			return 0, false, nil
		}
		first = false
		end := pos + int(hdr.Size)
		if hdr.Type == bmff.TypeMDAT {
			return end, true, nil
		}
		pos = end
	}
	return 0, false, nil
}
