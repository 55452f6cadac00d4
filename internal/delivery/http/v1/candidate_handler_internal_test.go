package v1

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func encodeTestScan(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressScan(t *testing.T) {
	t.Run("Should downscale an oversized scan preserving aspect ratio", func(t *testing.T) {
		data := encodeTestScan(t, 2400, 1600)

		out, err := compressScan(data, 1200, 80)
		assert.NoError(t, err)

		decoded, format, err := image.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 1200, decoded.Bounds().Dx())
		assert.Equal(t, 800, decoded.Bounds().Dy())
	})

	t.Run("Should keep small scans at their original size", func(t *testing.T) {
		data := encodeTestScan(t, 600, 900)

		out, err := compressScan(data, 1200, 80)
		assert.NoError(t, err)

		decoded, _, err := image.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
		assert.Equal(t, 600, decoded.Bounds().Dx())
		assert.Equal(t, 900, decoded.Bounds().Dy())
	})

	t.Run("Should reject bytes that are not an image", func(t *testing.T) {
		_, err := compressScan([]byte("%PDF-1.7 not an image"), 1200, 80)
		assert.Error(t, err)
	})
}

func TestAllowedResumeType(t *testing.T) {
	t.Run("Should accept documents and scans", func(t *testing.T) {
		assert.True(t, allowedResumeType("cv.pdf", "application/pdf"))
		assert.True(t, allowedResumeType("cv.docx", ""))
		assert.True(t, allowedResumeType("scan.jpg", "image/jpeg"))
		assert.True(t, allowedResumeType("scan.PNG", ""))
	})

	t.Run("Should reject other file types", func(t *testing.T) {
		assert.False(t, allowedResumeType("cv.exe", "application/octet-stream"))
		assert.False(t, allowedResumeType("cv.csv", "text/csv"))
	})

	t.Run("Should classify scans separately from documents", func(t *testing.T) {
		assert.True(t, isScanUpload("scan.jpeg", ""))
		assert.True(t, isScanUpload("scan", "image/png"))
		assert.False(t, isScanUpload("cv.pdf", "application/pdf"))
	})
}
