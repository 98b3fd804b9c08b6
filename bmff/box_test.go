package bmff

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{Type: TypeFREE, Size: 8},
		{Type: TypeFREE, Size: 1<<32 + 16},
		{Type: TypeUUID, Size: 24, UserType: mustUUID(t)},
	}
	for _, h := range cases {
		buf := EncodeHeader(nil, h)
		got, n, err := DecodeHeader(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, h.Type, got.Type)
		assert.Equal(t, h.Size, got.Size)
	}
}

func mustUUID(t *testing.T) (u uuid.UUID) {
	t.Helper()
	for i := range u {
		u[i] = byte(i)
	}
	return u
}

func TestDecodeHeaderSizeEqualsFirstFourBytes(t *testing.T) {
	h := Header{Type: TypeFREE, Size: 123}
	buf := EncodeHeader(nil, h)
	assert.Equal(t, uint32(123), GetUint32(buf[0:4]))
}

func TestWalkChildrenSkipsUnknownBoxes(t *testing.T) {
	var body []byte
	body = EncodeHeader(body, Header{Type: NewFourCC("xxxx"), Size: 8})
	var sawKnown bool
	warnings, err := WalkChildren(body, 0, func(h Header, child []byte) (bool, error) {
		if h.Type == TypeFREE {
			sawKnown = true
			return true, nil
		}
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, sawKnown)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Offset)
}

func TestWalkChildrenRequiresCursorAdvance(t *testing.T) {
	// size below minimum header length must be rejected, not looped on.
	body := []byte{0, 0, 0, 4, 'f', 'r', 'e', 'e'}
	_, err := WalkChildren(body, 0, func(h Header, child []byte) (bool, error) {
		return true, nil
	})
	assert.Error(t, err)
}

func TestWalkChildrenEnforcesMaxIterations(t *testing.T) {
	var body []byte
	for i := 0; i < maxChildBoxes+1; i++ {
		body = EncodeHeader(body, Header{Type: TypeFREE, Size: 8})
	}
	_, err := WalkChildren(body, 0, func(h Header, child []byte) (bool, error) {
		return true, nil
	})
	assert.Error(t, err)
}

func TestDecodeHeaderTruncated(t *testing.T) {
	_, _, err := DecodeHeader([]byte{0, 0, 0}, 0)
	assert.Error(t, err)
}

func TestDecodeHeaderChildEndExceedsParent(t *testing.T) {
	// Declares a size far larger than what's actually in the buffer.
	body := []byte{0, 0, 0, 40, 'f', 'r', 'e', 'e'}
	_, err := WalkChildren(body, 0, func(h Header, child []byte) (bool, error) {
		return true, nil
	})
	assert.Error(t, err)
}
