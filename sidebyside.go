// Package sidebyside combines two images into one, either side by side or
// stacked vertically.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/sidebyside"
//		"github.com/menta2k/sidebyside/pkg/layout"
//	)
//
//	func main() {
//		cfg := layout.DefaultConfig()
//		cfg.Policy = layout.MatchHeight
//
//		s := sidebyside.NewWithConfig(cfg, sidebyside.DefaultEncodeOptions())
//		if _, err := s.ComposeFiles("before.jpg", "after.jpg", "compare.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four components:
//
// 1. Layout (pkg/layout): computes the canvas size and where each image goes
// 2. Compositor (pkg/compositor): scales and draws the images onto a canvas
// 3. Processing (pkg/processing): loads, decodes and encodes images
// 4. Workspace (pkg/workspace): holds the state of an interactive session
//
// The layout engine is a pure function of the two image sizes and the
// options. Images can keep their original size, be scaled to a common width
// or height, or be fitted into a fixed output size. With a fixed output size
// the pair is centered and may be cropped at the canvas edges.
package sidebyside

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/menta2k/sidebyside/pkg/compositor"
	"github.com/menta2k/sidebyside/pkg/layout"
	"github.com/menta2k/sidebyside/pkg/processing"
)

// Version of the sidebyside library
const Version = "1.0.0"

// SideBySide provides a high-level interface for composing image pairs
type SideBySide struct {
	processor  *processing.Processor
	compositor *compositor.Compositor
	config     layout.Config
	encode     processing.EncodeOptions
}

// Result is a composed image and the layout it was drawn with
type Result struct {
	Image  *image.NRGBA  `json:"-"`
	Layout layout.Layout `json:"layout"`
}

// DefaultEncodeOptions returns PNG output
func DefaultEncodeOptions() processing.EncodeOptions {
	return processing.EncodeOptions{Format: processing.PNG, Quality: processing.DefaultJPEGQuality}
}

// New creates a SideBySide with default configuration
func New() *SideBySide {
	return NewWithConfig(layout.DefaultConfig(), DefaultEncodeOptions())
}

// NewWithConfig creates a SideBySide with custom layout and output options
func NewWithConfig(cfg layout.Config, encode processing.EncodeOptions) *SideBySide {
	return &SideBySide{
		processor:  processing.NewProcessor(),
		compositor: compositor.New(),
		config:     cfg,
		encode:     encode,
	}
}

// Config returns the layout options
func (s *SideBySide) Config() layout.Config {
	return s.config
}

// LoadImage loads an image from a file path or http(s) URL
func (s *SideBySide) LoadImage(source string) (image.Image, error) {
	return s.processor.LoadImageSmart(source)
}

// SaveImage encodes img to path with the configured output options
func (s *SideBySide) SaveImage(img image.Image, path string) error {
	return s.processor.SaveImage(img, path, s.encode)
}

// GetImageInfo returns basic information about an image
func (s *SideBySide) GetImageInfo(img image.Image) processing.ImageInfo {
	return s.processor.GetImageInfo(img)
}

// ComputeLayout returns the placement of a and b without drawing anything
func (s *SideBySide) ComputeLayout(a, b image.Image) (layout.Layout, error) {
	if a == nil || b == nil {
		return layout.Layout{}, fmt.Errorf("%w: both images are required", layout.ErrInvalidInput)
	}
	return layout.Compute(layout.SizeOf(a), layout.SizeOf(b), s.config)
}

// Compose draws a and b onto a new canvas
func (s *SideBySide) Compose(a, b image.Image) (Result, error) {
	l, err := s.ComputeLayout(a, b)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Image:  s.compositor.Compose(l, a, b, s.config.Background),
		Layout: l,
	}, nil
}

// ComposeFiles is a convenience function that loads two images, composes them
// and saves the result. A known extension on outputPath selects the format.
func (s *SideBySide) ComposeFiles(path1, path2, outputPath string) (layout.Layout, error) {
	var imgs [2]image.Image
	for i, path := range []string{path1, path2} {
		img, err := s.LoadImage(path)
		if err != nil {
			return layout.Layout{}, fmt.Errorf("failed to load image %d: %w", i+1, err)
		}
		imgs[i] = img
	}

	result, err := s.Compose(imgs[0], imgs[1])
	if err != nil {
		return layout.Layout{}, err
	}

	opts := s.encode
	if format, err := processing.ParseFormat(filepath.Ext(outputPath)); err == nil {
		opts.Format = format
	}
	if err := s.processor.SaveImage(result.Image, outputPath, opts); err != nil {
		return layout.Layout{}, fmt.Errorf("failed to save %s: %w", outputPath, err)
	}

	return result.Layout, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
