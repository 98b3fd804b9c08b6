package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrunGOPRoundTrip(t *testing.T) {
	durations := []uint32{3000, 3000, 3000, 3000, 3000}
	sizes := []uint32{50000, 5000, 5000, 10000, 10000}
	flags := []SampleFlags{
		NewSampleFlags(0, 2, 0, 0, 0, false, 0), // I: sync, independent
		NewSampleFlags(0, 1, 0, 0, 0, true, 0),  // B
		NewSampleFlags(0, 1, 0, 0, 0, true, 0),  // B
		NewSampleFlags(0, 1, 1, 0, 0, true, 0),  // P: depended upon
		NewSampleFlags(0, 1, 1, 0, 0, true, 0),  // P: depended upon
	}

	trun := NewTrun(0)
	trun.SetDataOffset(64)
	samples := make([]Sample, 5)
	for i := range samples {
		d, s, f := durations[i], sizes[i], flags[i]
		samples[i] = Sample{Duration: &d, Size: &s, Flags: &f}
	}
	trun.SetSamples(samples)
	assert.Equal(t, uint32(0x000701), trun.Flags)

	buf := trun.Encode()
	got, err := DecodeTrun(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Samples, 5)

	assert.True(t, got.Samples[0].Flags.IsSync())
	assert.True(t, got.Samples[0].Flags.IsIndependent())
	assert.True(t, got.Samples[3].Flags.IsDependedUpon())
	assert.True(t, got.Samples[4].Flags.IsDependedUpon())
	for i, s := range got.Samples {
		assert.Equal(t, sizes[i], *s.Size)
		assert.Equal(t, durations[i], *s.Duration)
	}
}

func TestTrunVersion1NegativeCompositionOffsetRoundTrip(t *testing.T) {
	trun := NewTrun(1)
	var cto int32 = -500
	var size uint32 = 100
	trun.SetSamples([]Sample{{Size: &size, CompositionTimeOffset: &cto}})

	buf := trun.Encode()
	got, err := DecodeTrun(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Samples, 1)
	assert.Equal(t, int32(-500), *got.Samples[0].CompositionTimeOffset)
}

func TestTrunFirstSampleFlagsFallback(t *testing.T) {
	trun := NewTrun(0)
	flags := NewSampleFlags(0, 2, 0, 0, 0, false, 0)
	trun.SetFirstSampleFlags(flags)
	var size1, size2 uint32 = 10, 20
	trun.Samples = []Sample{{Size: &size1}, {Size: &size2}}
	trun.Flags |= TrunSampleSizePresent

	buf := trun.Encode()
	got, err := DecodeTrun(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Samples, 2)
	require.NotNil(t, got.Samples[0].Flags)
	assert.Equal(t, flags.Bits(), got.Samples[0].Flags.Bits())
	assert.Nil(t, got.Samples[1].Flags)
}
