package loc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentVideoFrameScenario(t *testing.T) {
	o := &LocObject{
		Kind:    Video,
		Payload: make([]byte, 8192),
		Ext: []HeaderExtension{
			CaptureTimestamp{Microseconds: 1_234_567_890_000},
			VideoFrameMarking{Independent: true, Discardable: false, BaseLayerSync: true},
			VideoConfig{Bytes: []byte{0x01, 0x42, 0xC0, 0x1E}},
		},
	}

	headers, payload := Encode(o)
	got, err := Decode(headers, payload, Video)
	require.NoError(t, err)

	assert.True(t, got.IsIndependentFrame())
	vc, ok := findExt[VideoConfig](got.Ext)
	require.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x42, 0xC0, 0x1E}, vc.Bytes)
	assert.Equal(t, o.Payload, got.Payload)
}

func TestAudioLevelExactBytes(t *testing.T) {
	ext := AudioLevel{VoiceActivity: true, Level: 45}
	buf := EncodeHeaders([]HeaderExtension{ext})
	assert.Equal(t, []byte{0x06, 0x5B}, buf)
}

func TestAudioLevelRoundTrip(t *testing.T) {
	o := &LocObject{Kind: Audio, Payload: []byte{1, 2, 3}, Ext: []HeaderExtension{
		AudioLevel{VoiceActivity: true, Level: 45},
	}}
	headers, payload := Encode(o)
	got, err := Decode(headers, payload, Audio)
	require.NoError(t, err)
	al, ok := findExt[AudioLevel](got.Ext)
	require.True(t, ok)
	assert.True(t, al.VoiceActivity)
	assert.Equal(t, uint8(45), al.Level)
}

func TestEvenIDHasNoLengthPrefix(t *testing.T) {
	buf := EncodeHeaders([]HeaderExtension{CaptureTimestamp{Microseconds: 500}})
	// id(2)=0x02 varint, value(500) varint = 0x41 0xf4 (2-byte quic varint);
	// no length byte between id and value.
	assert.Equal(t, byte(2), buf[0])
	assert.Equal(t, []byte{0x02, 0x41, 0xF4}, buf)
}

func TestOddIDHasLengthPrefix(t *testing.T) {
	buf := EncodeHeaders([]HeaderExtension{VideoConfig{Bytes: []byte{0xAA, 0xBB, 0xCC}}})
	assert.Equal(t, byte(13), buf[0])
	assert.Equal(t, byte(3), buf[1]) // 1-byte varint length == 3
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, buf[2:])
}

func TestUnknownEvenExtensionPreservedAndWarned(t *testing.T) {
	buf := EncodeHeaders([]HeaderExtension{Unknown{ID: 100, RawValue: 7}})
	exts, warnings, err := DecodeHeaders(buf)
	require.NoError(t, err)
	require.Len(t, exts, 1)
	require.Len(t, warnings, 1)
	u, ok := exts[0].(Unknown)
	require.True(t, ok)
	assert.Equal(t, uint64(100), u.ID)
	assert.Equal(t, uint64(7), u.RawValue)
}

func TestUnknownOddExtensionPreservedAndWarned(t *testing.T) {
	buf := EncodeHeaders([]HeaderExtension{Unknown{ID: 101, RawBytes: []byte{9, 9}}})
	exts, warnings, err := DecodeHeaders(buf)
	require.NoError(t, err)
	require.Len(t, exts, 1)
	require.Len(t, warnings, 1)
	u, ok := exts[0].(Unknown)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9}, u.RawBytes)
}

func TestVideoFrameMarkingBitLayout(t *testing.T) {
	vfm := VideoFrameMarking{Independent: true, Discardable: true, BaseLayerSync: true, TemporalID: 5, SpatialID: 3}
	buf := EncodeHeaders([]HeaderExtension{vfm})
	exts, _, err := DecodeHeaders(buf)
	require.NoError(t, err)
	got, ok := findExt[VideoFrameMarking](exts)
	require.True(t, ok)
	assert.Equal(t, vfm, got)
}

func TestConcatenatedFormRoundTrip(t *testing.T) {
	o := &LocObject{Kind: Audio, Payload: []byte{0xDE, 0xAD}, Ext: []HeaderExtension{
		CaptureTimestamp{Microseconds: 42},
	}}
	concat := EncodeConcat(o)
	headerLen := len(EncodeHeaders(o.Ext))
	got, err := Decode(concat[:headerLen], concat[headerLen:], Audio)
	require.NoError(t, err)
	assert.Equal(t, o.Payload, got.Payload)
}

// findExt returns the first extension of type T in exts.
func findExt[T HeaderExtension](exts []HeaderExtension) (T, bool) {
	for _, e := range exts {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
