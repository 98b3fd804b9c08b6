package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleFlagsBitsRoundTrip(t *testing.T) {
	f := NewSampleFlags(0, 2, 0, 0, 0, false, 0)
	assert.Equal(t, SampleFlags(f.Bits()).Bits(), f.Bits())
}

func TestSampleFlagsKeyFrame(t *testing.T) {
	// sample_depends_on=2, sample_is_non_sync=false -> raw word 0x02000000.
	f := NewSampleFlags(0, 2, 0, 0, 0, false, 0)
	assert.Equal(t, uint32(0x02000000), f.Bits())
	assert.True(t, f.IsSync())
	assert.True(t, f.IsIndependent())
	assert.False(t, f.IsDependedUpon())
}

func TestSampleFlagsDependedUpon(t *testing.T) {
	f := NewSampleFlags(0, 0, 1, 0, 0, true, 0)
	assert.False(t, f.IsSync())
	assert.False(t, f.IsIndependent())
	assert.True(t, f.IsDependedUpon())
}
