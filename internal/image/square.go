package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/draw"
)

// MaxCanvasPixels bounds the square canvas a source may require. Sources
// whose declared size would exceed it are rejected before decoding.
const MaxCanvasPixels = 50_000_000

// SquareOptions controls how Square encodes its result.
type SquareOptions struct {
	// Format is the output encoding, FormatJPEG or FormatPNG. Empty means JPEG.
	Format string
	// Quality is the JPEG quality (1-100). Ignored for PNG.
	Quality int
	// MaxSize caps the side of the finished square. Zero leaves it unscaled.
	MaxSize int
}

// Squared is an encoded square image ready for upload.
type Squared struct {
	Data   []byte
	Format string
	Side   int
	// SourceWidth and SourceHeight are the decoded input dimensions.
	SourceWidth  int
	SourceHeight int
}

// ContentType returns the MIME type of the encoded data.
func (s *Squared) ContentType() string { return ContentType(s.Format) }

// Square decodes the source image and places it, unscaled and centered, on an
// opaque black canvas whose side is the longer source dimension. Transparent
// source pixels are composited over the black fill.
func Square(src io.Reader, opts SquareOptions) (*Squared, error) {
	format := opts.Format
	if format == "" {
		format = FormatJPEG
	}
	if !ValidOutputFormat(format) {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	_, replay, err := DetectFormat(src)
	if err != nil {
		return nil, fmt.Errorf("detecting format: %w", err)
	}

	data, err := io.ReadAll(replay)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if err := checkCanvasSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	canvas := padToSquare(img)
	side := canvas.Bounds().Dx()

	var out image.Image = canvas
	if opts.MaxSize > 0 && side > opts.MaxSize {
		scaled := image.NewRGBA(image.Rect(0, 0, opts.MaxSize, opts.MaxSize))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
		out = scaled
		side = opts.MaxSize
	}

	data, err = encode(out, format, opts.Quality)
	if err != nil {
		return nil, err
	}

	return &Squared{
		Data:         data,
		Format:       format,
		Side:         side,
		SourceWidth:  w,
		SourceHeight: h,
	}, nil
}

// padToSquare returns a new max(w,h) square RGBA canvas filled with opaque
// black and the source drawn over it at ((S-w)/2, (S-h)/2).
func padToSquare(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	side := max(w, h)

	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	offset := image.Pt((side-w)/2, (side-h)/2)
	dst := image.Rectangle{Min: offset, Max: offset.Add(bounds.Size())}
	draw.Draw(canvas, dst, img, bounds.Min, draw.Over)

	return canvas
}

func checkCanvasSize(w, h int) error {
	side := int64(max(w, h))
	if side*side > MaxCanvasPixels {
		return fmt.Errorf("image %dx%d too large: %d pixel canvas exceeds %d", w, h, side*side, MaxCanvasPixels)
	}
	return nil
}
