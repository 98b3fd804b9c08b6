package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStsdVisualEntryRoundTrip(t *testing.T) {
	avcC := []byte{0x01, 0x42, 0xC0, 0x1E}
	entry := &VisualSampleEntry{
		Type: NewFourCC("avc1"), DataReferenceIndex: 1,
		Width: 1920, Height: 1080, CodecConfig: avcC,
	}
	stsd := NewStsd(entry)

	buf := stsd.Encode()
	got, err := DecodeStsd(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)

	ve, ok := got.Entries[0].(*VisualSampleEntry)
	require.True(t, ok)
	assert.Equal(t, uint16(1920), ve.Width)
	assert.Equal(t, uint16(1080), ve.Height)
	assert.Equal(t, avcC, ve.CodecConfig)
}

func TestStsdAudioEntryRoundTrip(t *testing.T) {
	esds := []byte{0xAA, 0xBB}
	entry := &AudioSampleEntry{
		Type: NewFourCC("mp4a"), ChannelCount: 2, SampleSize: 16,
		SampleRateHz: 48000, CodecConfig: esds,
	}
	stsd := NewStsd(entry)

	buf := stsd.Encode()
	got, err := DecodeStsd(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)

	ae, ok := got.Entries[0].(*AudioSampleEntry)
	require.True(t, ok)
	assert.Equal(t, uint16(2), ae.ChannelCount)
	assert.Equal(t, uint32(48000), ae.SampleRateHz)
	assert.Equal(t, esds, ae.CodecConfig)
}

func TestStsdDispatchesGenericForUnknownFamily(t *testing.T) {
	entry := &GenericSampleEntry{Type: NewFourCC("text"), Body: []byte{1, 2, 3}}
	stsd := NewStsd(entry)

	buf := stsd.Encode()
	got, err := DecodeStsd(buf[basicBoxLen:])
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	ge, ok := got.Entries[0].(*GenericSampleEntry)
	require.True(t, ok)
	assert.Equal(t, NewFourCC("text"), ge.Type)
}
