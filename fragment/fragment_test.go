package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moqwire/cmafloc/bmff"
)

func buildFragment(t *testing.T, seq uint32, baseMediaDecodeTime uint64, payload []byte) *Fragment {
	t.Helper()
	tfhd := bmff.NewTfhd(1)
	tfdt := bmff.NewTfdt(baseMediaDecodeTime)
	trun := bmff.NewTrun(0)
	size := uint32(len(payload))
	trun.SetSamples([]bmff.Sample{{Size: &size}})

	traf := bmff.NewTraf(tfhd)
	traf.Tfdt = tfdt
	traf.Trun = []*bmff.TrackRunBox{trun}

	moof := bmff.NewMoof(bmff.NewMfhd(seq))
	moof.Traf = []*bmff.TrackFragmentBox{traf}

	return &Fragment{Styp: NewStyp(), Moof: moof, Mdat: bmff.NewMdat(payload)}
}

func TestMinimalVideoFragmentScenario(t *testing.T) {
	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	f := buildFragment(t, 42, 42000, payload)
	require.NoError(t, f.Validate())

	buf := EncodeFragment(f)
	got, warnings, err := DecodeFragment(buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, uint32(42), got.SequenceNumber())
	assert.Equal(t, int64(42000), got.BaseMediaDecodeTime())
	assert.Len(t, got.Mdat.Data, 1024)
	assert.Equal(t, payload, got.Mdat.Data)
}

func TestFragmentEncodedLengthEqualsSumOfBoxSizes(t *testing.T) {
	f := buildFragment(t, 1, 1000, []byte{1, 2, 3})
	buf := EncodeFragment(f)
	stypLen := len(f.Styp.Encode())
	moofLen := len(f.Moof.Encode())
	mdatLen := len(f.Mdat.Encode())
	assert.Equal(t, stypLen+moofLen+mdatLen, len(buf))
}

func TestEmptyMdatRoundTrips(t *testing.T) {
	f := buildFragment(t, 1, 0, []byte{})
	buf := EncodeFragment(f)
	got, _, err := DecodeFragment(buf)
	require.NoError(t, err)
	assert.Empty(t, got.Mdat.Data)
}

func TestLargeMdatRoundTrips(t *testing.T) {
	payload := make([]byte, 1<<20) // 1 MiB
	for i := range payload {
		payload[i] = byte(i)
	}
	f := buildFragment(t, 1, 0, payload)
	buf := EncodeFragment(f)
	got, _, err := DecodeFragment(buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got.Mdat.Data)
}

func TestBaseMediaDecodeTimeSentinelWhenAbsent(t *testing.T) {
	tfhd := bmff.NewTfhd(1)
	trun := bmff.NewTrun(0)
	size := uint32(1)
	trun.SetSamples([]bmff.Sample{{Size: &size}})
	traf := bmff.NewTraf(tfhd)
	traf.Trun = []*bmff.TrackRunBox{trun}
	moof := bmff.NewMoof(bmff.NewMfhd(1))
	moof.Traf = []*bmff.TrackFragmentBox{traf}
	f := &Fragment{Styp: NewStyp(), Moof: moof, Mdat: bmff.NewMdat([]byte{1})}

	assert.Equal(t, int64(-1), f.BaseMediaDecodeTime())
}

func TestValidateRejectsMissingMdat(t *testing.T) {
	f := buildFragment(t, 1, 0, []byte{1})
	f.Mdat = nil
	assert.Error(t, f.Validate())
}
