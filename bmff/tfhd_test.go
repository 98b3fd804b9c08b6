package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTfhdSettersReconcileFlags(t *testing.T) {
	tfhd := NewTfhd(1)
	tfhd.SetDefaultSampleDuration(3000)
	tfhd.SetDefaultSampleSize(1024)
	assert.NotZero(t, tfhd.Flags&TfhdDefaultSampleDurationPresent)
	assert.NotZero(t, tfhd.Flags&TfhdDefaultSampleSizePresent)
	assert.Zero(t, tfhd.Flags&TfhdBaseDataOffsetPresent)
}

func TestTfhdRoundTrip(t *testing.T) {
	tfhd := NewTfhd(7)
	tfhd.SetBaseDataOffset(0x1000)
	tfhd.SetDefaultSampleFlags(NewSampleFlags(0, 2, 0, 0, 0, false, 0))

	buf := tfhd.Encode()
	got, err := DecodeTfhd(buf[basicBoxLen:])
	require.NoError(t, err)
	assert.Equal(t, uint32(7), got.TrackID)
	require.NotNil(t, got.BaseDataOffset)
	assert.Equal(t, uint64(0x1000), *got.BaseDataOffset)
	require.NotNil(t, got.DefaultSampleFlags)
	assert.Nil(t, got.SampleDescriptionIndex)
}

func TestTfhdPreservesUnknownFlagBits(t *testing.T) {
	tfhd := NewTfhd(1)
	tfhd.Flags |= 0x040000 // an unallocated bit

	buf := tfhd.Encode()
	got, err := DecodeTfhd(buf[basicBoxLen:])
	require.NoError(t, err)
	assert.NotZero(t, got.Flags&0x040000)
}
