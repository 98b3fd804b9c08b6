package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVideoTrack(t *testing.T, trackID uint32) *TrackBox {
	t.Helper()
	entry := &VisualSampleEntry{Type: NewFourCC("avc1"), Width: 1280, Height: 720, CodecConfig: []byte{1, 2, 3}}
	stbl := NewStbl(NewStsd(entry))
	minf := NewVideoMinf(stbl)
	mdia := NewMdia(NewMdhd(90000, 0), NewHdlr(TypeVIDE, "VideoHandler"), minf)
	tkhd := NewTkhd(trackID)
	tkhd.Width = Fixed16_16(1280)
	tkhd.Height = Fixed16_16(720)
	return NewTrak(tkhd, mdia)
}

func TestMoovRoundTrip(t *testing.T) {
	track := buildVideoTrack(t, 1)
	moov := NewMoov(NewMvhd(90000, 0, 2), track)

	buf := moov.Encode()
	got, warnings, err := DecodeMoov(buf[basicBoxLen:], 0)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, uint32(2), got.Mvhd.NextTrackID)
	require.Len(t, got.Trak, 1)
	assert.Equal(t, uint32(1), got.Trak[0].Tkhd.TrackID)
	assert.Equal(t, TypeVIDE, got.Trak[0].Mdia.Hdlr.HandlerType)
	require.NotNil(t, got.Trak[0].Mdia.Minf.Vmhd)
	require.Len(t, got.Trak[0].Mdia.Minf.Stbl.Stsd.Entries, 1)
}

func TestInitSegmentEncodeIncludesFtypAndMoov(t *testing.T) {
	track := buildVideoTrack(t, 1)
	moov := NewMoov(NewMvhd(90000, 0, 2), track)
	ftyp := NewFtyp(NewFourCC("isom"), 0, NewFourCC("iso6"))

	ftypBytes, moovBytes := ftyp.Encode(), moov.Encode()
	total := append(append([]byte{}, ftypBytes...), moovBytes...)
	assert.Equal(t, len(ftypBytes)+len(moovBytes), len(total))
	assert.Equal(t, TypeFTYP[:], total[4:8])
	assert.Equal(t, TypeMOOV[:], total[len(ftypBytes)+4:len(ftypBytes)+8])
}
