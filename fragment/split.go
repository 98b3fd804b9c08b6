package fragment

import "github.com/moqwire/cmafloc/internal/werr"

// Split scans buf for back-to-back fragments and decodes each one,
// returning the decoded trees in order. Byte ranges that are not a
// complete fragment are passed over without error, as ScanFragments
// passes over them; the first span that fails to decode ends the split
// with that error.
func Split(buf []byte) ([]*Fragment, []werr.Warning, error) {
	spans, err := ScanFragments(buf)
	if err != nil {
		return nil, nil, err
	}
	fragments := make([]*Fragment, 0, len(spans))
	var allWarnings []werr.Warning
	for _, span := range spans {
		f, warnings, err := DecodeFragment(span)
		allWarnings = append(allWarnings, warnings...)
		if err != nil {
			return fragments, allWarnings, err
		}
		fragments = append(fragments, f)
	}
	return fragments, allWarnings, nil
}
