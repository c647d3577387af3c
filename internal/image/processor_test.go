package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// makeJPEG creates a JPEG-encoded image of the given dimensions.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test jpeg: %v", err)
	}
	return buf.Bytes()
}

// opaqueSource returns an opaque gradient image of the given dimensions whose
// pixels are never pure black.
func opaqueSource(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x%255) + 1, G: uint8(y%255) + 1, B: 200, A: 255})
		}
	}
	return img
}

// makePNG encodes img as PNG.
func makePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat_JPEG(t *testing.T) {
	data := makeJPEG(t, 10, 10)
	format, replay, err := DetectFormat(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatJPEG {
		t.Errorf("got format %q, want %q", format, FormatJPEG)
	}
	if _, err := jpeg.Decode(replay); err != nil {
		t.Errorf("replay reader should still decode: %v", err)
	}
}

func TestDetectFormat_PNG(t *testing.T) {
	data := makePNG(t, opaqueSource(10, 10))
	format, replay, err := DetectFormat(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatPNG {
		t.Errorf("got format %q, want %q", format, FormatPNG)
	}
	if _, err := png.Decode(replay); err != nil {
		t.Errorf("replay reader should still decode: %v", err)
	}
}

func TestDetectFormat_WebPHeader(t *testing.T) {
	header := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	format, _, err := DetectFormat(bytes.NewReader(header))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatWebP {
		t.Errorf("got format %q, want %q", format, FormatWebP)
	}
}

func TestDetectFormat_Unknown(t *testing.T) {
	if _, _, err := DetectFormat(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDetectFormat_Empty(t *testing.T) {
	if _, _, err := DetectFormat(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestContentTypeAndExtension(t *testing.T) {
	tests := []struct {
		format   string
		wantType string
		wantExt  string
	}{
		{FormatJPEG, "image/jpeg", ".jpg"},
		{FormatPNG, "image/png", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := ContentType(tt.format); got != tt.wantType {
				t.Errorf("ContentType = %q, want %q", got, tt.wantType)
			}
			if got := Extension(tt.format); got != tt.wantExt {
				t.Errorf("Extension = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	if _, err := encode(opaqueSource(2, 2), FormatWebP, 0); err == nil {
		t.Error("expected error encoding webp")
	}
}
