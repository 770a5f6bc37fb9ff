package storage

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return bytes.NewReader(buf.Bytes())
}

func TestImageProcessor_Fit(t *testing.T) {
	p := NewImageProcessor()

	t.Run("Large image is scaled down keeping aspect ratio", func(t *testing.T) {
		out, err := p.Fit(encodePNG(t, 400, 200), 100, 100)
		require.NoError(t, err)
		img, format, err := image.Decode(out)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())
	})

	t.Run("Small image is not enlarged", func(t *testing.T) {
		out, err := p.Fit(encodePNG(t, 40, 20), 100, 100)
		require.NoError(t, err)
		img, _, err := image.Decode(out)
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
	})

	t.Run("Garbage fails", func(t *testing.T) {
		_, err := p.Fit(strings.NewReader("not an image"), 100, 100)
		assert.Error(t, err)
	})
}

func TestImageProcessor_Thumbnail(t *testing.T) {
	out, err := NewImageProcessor().Thumbnail(encodePNG(t, 300, 120), 64)
	require.NoError(t, err)
	img, _, err := image.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
}
