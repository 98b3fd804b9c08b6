package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTwoBackToBackFragments(t *testing.T) {
	f1 := buildFragment(t, 1, 1000, []byte{1, 2, 3})
	f2 := buildFragment(t, 2, 2000, []byte{4, 5, 6, 7})
	buf := append(EncodeFragment(f1), EncodeFragment(f2)...)

	spans, err := ScanFragments(buf)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	got1, _, err := DecodeFragment(spans[0])
	require.NoError(t, err)
	got2, _, err := DecodeFragment(spans[1])
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got1.SequenceNumber())
	assert.Equal(t, uint32(2), got2.SequenceNumber())
	require.NoError(t, got1.Validate())
	require.NoError(t, got2.Validate())
}

func TestSplitMultiFragmentScenario(t *testing.T) {
	f1 := buildFragment(t, 1, 1000, []byte{1})
	f2 := buildFragment(t, 2, 2000, []byte{2})
	buf := append(EncodeFragment(f1), EncodeFragment(f2)...)

	fragments, warnings, err := Split(buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, fragments, 2)
	assert.Equal(t, uint32(1), fragments[0].SequenceNumber())
	assert.Equal(t, uint32(2), fragments[1].SequenceNumber())
}

func TestScanSkipsJunkBetweenFragments(t *testing.T) {
	f1 := buildFragment(t, 1, 1000, []byte{1})
	f2 := buildFragment(t, 2, 2000, []byte{2})
	junk := []byte{0, 0, 0, 8, 'f', 'r', 'e', 'e'}

	var buf []byte
	buf = append(buf, EncodeFragment(f1)...)
	buf = append(buf, junk...)
	buf = append(buf, EncodeFragment(f2)...)

	spans, err := ScanFragments(buf)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	got2, _, err := DecodeFragment(spans[1])
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got2.SequenceNumber())
}

func TestScanYieldsNoFragmentWithoutMdat(t *testing.T) {
	f := buildFragment(t, 1, 1000, []byte{1})
	buf := EncodeFragment(f)
	stypAndMoof := buf[:len(buf)-len(f.Mdat.Encode())]

	spans, err := ScanFragments(stypAndMoof)
	require.NoError(t, err)
	assert.Empty(t, spans)
}
