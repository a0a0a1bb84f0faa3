package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestFitShrinksLargeImage(t *testing.T) {
	p := NewProcessor(0)

	res, err := p.Fit(pngImage(t, 2048, 1024), AvatarMaxSide)
	require.NoError(t, err)

	assert.Equal(t, 512, res.Width)
	assert.Equal(t, 256, res.Height)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, int64(res.Data.Len()), res.Size)
}

func TestFitKeepsSmallImage(t *testing.T) {
	res, err := NewProcessor(90).Fit(pngImage(t, 100, 80), AvatarMaxSide)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 80, res.Height)
}

func TestFitRejectsNonImage(t *testing.T) {
	_, err := NewProcessor(85).Fit(strings.NewReader("not an image"), AvatarMaxSide)
	assert.Error(t, err)
	assert.False(t, IsValidImage(strings.NewReader("nope")))
	assert.True(t, IsValidImage(pngImage(t, 2, 2)))
}
