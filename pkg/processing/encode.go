package processing

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
)

// DefaultJPEGQuality matches the 0.92 quality browsers use for canvas exports
const DefaultJPEGQuality = 92

// Format is an output encoding
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// ParseFormat parses png, jpeg/jpg or webp
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// EncodeOptions controls how an image is serialized
type EncodeOptions struct {
	Format   Format
	Quality  int
	Lossless bool
}

func (o EncodeOptions) quality() int {
	if o.Quality < 1 || o.Quality > 100 {
		return DefaultJPEGQuality
	}
	return o.Quality
}

// Encode writes img to w in the requested format
func (p *Processor) Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	switch opts.Format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: opts.quality()})
	case WebP:
		return webp.Encode(w, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.quality())})
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// SaveImage encodes img into the file at path
func (p *Processor) SaveImage(img image.Image, path string, opts EncodeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := p.Encode(bw, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
