package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintRoundTripMinimalWidth(t *testing.T) {
	cases := []struct {
		v        uint64
		wantLen  int
	}{
		{0, 1},
		{63, 1},
		{64, 2},
		{16383, 2},
		{16384, 4},
		{1073741823, 4},
		{1073741824, 8},
		{1<<62 - 1, 8},
	}
	for _, c := range cases {
		buf := EncodeVarint(nil, c.v)
		assert.Equal(t, c.wantLen, len(buf), "value %d", c.v)
		assert.Equal(t, c.wantLen, VarintLen(c.v))
		got, n, err := DecodeVarint(buf)
		require.NoError(t, err)
		assert.Equal(t, c.v, got)
		assert.Equal(t, c.wantLen, n)
	}
}

func TestFixed16_16IntPartUsesLogicalShift(t *testing.T) {
	// A large 16.16 value whose top bit is set must not be sign-extended
	// when recovering the integer part.
	v := Fixed16_16(0x8000)
	assert.Equal(t, uint16(0x8000), IntPart16_16(v))
}

func TestFixed8_8RoundTrip(t *testing.T) {
	v := Fixed8_8(1)
	assert.Equal(t, uint8(1), IntPart8_8(v))
}

func TestLengthPrefixedBytesRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	dst := AppendLengthPrefixedBytes(nil, data)
	got, n, err := LengthPrefixedBytes(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, len(dst), n)
}
