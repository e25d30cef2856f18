// Package layout computes the geometry of a two-image composition.
//
// Given the natural sizes of two images and a Config, Compute derives the
// render size and top-left offset of each image and the size of the output
// canvas. It performs no I/O and keeps no state, so it may be called from any
// goroutine.
package layout

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// ImageSize is the natural pixel size of an image
type ImageSize struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// SizeOf returns the size of a decoded image
func SizeOf(img image.Image) ImageSize {
	b := img.Bounds()
	return ImageSize{Width: b.Dx(), Height: b.Dy()}
}

// String formats the size as WxH
func (s ImageSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses a WxH string such as "400x300"
func ParseSize(s string) (ImageSize, error) {
	var size ImageSize
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return size, fmt.Errorf("%w: size %q is not WxH", ErrInvalidImageSize, s)
	}
	if _, err := fmt.Sscanf(w+" "+h, "%d %d", &size.Width, &size.Height); err != nil {
		return size, fmt.Errorf("%w: size %q is not WxH", ErrInvalidImageSize, s)
	}
	return size, nil
}

// primary returns the extent along the concatenation axis
func (s ImageSize) primary(o Orientation) int {
	if o == Vertical {
		return s.Height
	}
	return s.Width
}

// secondary returns the extent along the centering axis
func (s ImageSize) secondary(o Orientation) int {
	if o == Vertical {
		return s.Width
	}
	return s.Height
}

// fromAxes builds a size from primary and secondary extents
func fromAxes(o Orientation, primary, secondary int) ImageSize {
	if o == Vertical {
		return ImageSize{Width: secondary, Height: primary}
	}
	return ImageSize{Width: primary, Height: secondary}
}

// Orientation selects the axis along which the two images are concatenated
type Orientation int

const (
	// Horizontal places the images side by side
	Horizontal Orientation = iota
	// Vertical stacks the first image above the second
	Vertical
)

// String returns the text form of the orientation
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation parses "horizontal" or "vertical"
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "side-by-side":
		return Horizontal, nil
	case "vertical", "v", "stacked":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

// MarshalText implements encoding.TextMarshaler
func (o Orientation) MarshalText() ([]byte, error) {
	if o != Horizontal && o != Vertical {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOrientation, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ResizePolicy governs how the two natural sizes are reconciled before placement
type ResizePolicy int

const (
	// Original keeps both images at their natural size
	Original ResizePolicy = iota
	// MatchWidth scales the narrower image up to the wider one's width
	MatchWidth
	// MatchHeight scales the shorter image up to the taller one's height
	MatchHeight
	// Custom fits both images into a fixed canvas size
	Custom
)

var policyNames = map[ResizePolicy]string{
	Original:    "original",
	MatchWidth:  "match-width",
	MatchHeight: "match-height",
	Custom:      "custom",
}

// String returns the text form of the policy
func (p ResizePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses original, match-width, match-height or custom
func ParsePolicy(s string) (ResizePolicy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return Original, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MarshalText implements encoding.TextMarshaler
func (p ResizePolicy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ResizePolicy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Config holds the composition options
type Config struct {
	Orientation Orientation
	// Spacing is the gap in pixels between the two images
	Spacing int
	Policy  ResizePolicy
	// CustomWidth and CustomHeight are only read when Policy is Custom
	CustomWidth  int
	CustomHeight int
	// Background is not used by Compute; it travels with the config to the compositor
	Background color.Color
}

// DefaultConfig returns the default composition options
func DefaultConfig() Config {
	return Config{
		Orientation:  Horizontal,
		Spacing:      10,
		Policy:       Original,
		CustomWidth:  1200,
		CustomHeight: 800,
		Background:   color.White,
	}
}

// PlacedImage is the render size and top-left canvas offset of one image
type PlacedImage struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// Rect returns the destination rectangle on the canvas
func (p PlacedImage) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Size returns the render size
func (p PlacedImage) Size() ImageSize {
	return ImageSize{Width: p.Width, Height: p.Height}
}

// Layout fully determines how a composition is rendered
type Layout struct {
	CanvasWidth  int         `json:"canvas_width"`
	CanvasHeight int         `json:"canvas_height"`
	A            PlacedImage `json:"a"`
	B            PlacedImage `json:"b"`
}

// Bounds returns the canvas rectangle
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.CanvasWidth, l.CanvasHeight)
}
