package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// TinyPNG renders a w×h PNG.
func TinyPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// TinyJPEG renders a w×h JPEG filled with a single colour.
func TinyJPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// PaddedJPEG returns a valid JPEG followed by padding up to size bytes.
// Decoders stop at the end-of-image marker, so the result still decodes.
func PaddedJPEG(t testing.TB, size int) []byte {
	t.Helper()
	head := TinyJPEG(t, 8, 8)
	if len(head) >= size {
		return head
	}
	out := make([]byte, size)
	copy(out, head)
	return out
}
