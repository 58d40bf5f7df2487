package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeKeepsSmallImage(t *testing.T) {
	res, err := Normalize(bytes.NewReader(pngBytes(t, 40, 20)), 1<<20)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", res.MIME)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 20, res.Height)
	assert.NotEmpty(t, res.Data)
}

func TestNormalizeDownscalesLargeImage(t *testing.T) {
	res, err := Normalize(bytes.NewReader(pngBytes(t, 2048, 512)), 10<<20)
	require.NoError(t, err)

	assert.Equal(t, MaxDimension, res.Width)
	assert.Equal(t, 256, res.Height)
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	_, err := Normalize(strings.NewReader("definitely not an image"), 1<<20)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeRejectsOversizedUpload(t *testing.T) {
	data := pngBytes(t, 64, 64)
	_, err := Normalize(bytes.NewReader(data), int64(len(data)-1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

// pngHeader is a PNG signature plus an IHDR chunk announcing w x h RGBA pixels, with no pixel data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNormalizeRejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	_, err := Normalize(bytes.NewReader(pngHeader(20000, 20000)), 1<<20)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}
