package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every precondition failure of Compute
var ErrInvalidInput = errors.New("invalid layout input")

var (
	// ErrInvalidImageSize reports an image with a non-positive dimension
	ErrInvalidImageSize = fmt.Errorf("%w: invalid image size", ErrInvalidInput)
	// ErrInvalidSpacing reports a negative spacing
	ErrInvalidSpacing = fmt.Errorf("%w: invalid spacing", ErrInvalidInput)
	// ErrInvalidCustomDimension reports unusable custom output dimensions
	ErrInvalidCustomDimension = fmt.Errorf("%w: invalid custom dimension", ErrInvalidInput)
	// ErrUnknownOrientation reports an orientation outside the enum
	ErrUnknownOrientation = fmt.Errorf("%w: unknown orientation", ErrInvalidInput)
	// ErrUnknownPolicy reports a resize policy outside the enum
	ErrUnknownPolicy = fmt.Errorf("%w: unknown resize policy", ErrInvalidInput)
)

// Validate checks the inputs of Compute without computing anything
func Validate(a, b ImageSize, cfg Config) error {
	for i, s := range []ImageSize{a, b} {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: image %d is %s", ErrInvalidImageSize, i+1, s)
		}
	}
	if cfg.Spacing < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSpacing, cfg.Spacing)
	}
	if cfg.Orientation != Horizontal && cfg.Orientation != Vertical {
		return fmt.Errorf("%w: %d", ErrUnknownOrientation, int(cfg.Orientation))
	}
	if _, ok := sizers[cfg.Policy]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPolicy, int(cfg.Policy))
	}
	if cfg.Policy != Custom {
		return nil
	}
	if cfg.CustomWidth <= 0 || cfg.CustomHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCustomDimension, cfg.CustomWidth, cfg.CustomHeight)
	}
	bound := ImageSize{Width: cfg.CustomWidth, Height: cfg.CustomHeight}.primary(cfg.Orientation)
	if bound-cfg.Spacing < 2 {
		return fmt.Errorf("%w: %s extent %d leaves no room after spacing %d",
			ErrInvalidCustomDimension, cfg.Orientation, bound, cfg.Spacing)
	}
	return nil
}
