package layout

// Compute derives the canvas size and the placement of both images.
//
// Sizes are reconciled by cfg.Policy, then the images are concatenated along
// the orientation's primary axis and centered on the other one. Under the
// Custom policy the canvas is fixed to CustomWidth x CustomHeight and the
// natural composite is centered inside it; offsets may become negative, in
// which case the compositor clips.
//
// All derived extents and offsets are floored. Identical inputs always produce
// an identical Layout.
func Compute(a, b ImageSize, cfg Config) (Layout, error) {
	if err := Validate(a, b, cfg); err != nil {
		return Layout{}, err
	}

	ra, rb := sizers[cfg.Policy](a, b, cfg)
	l := place(ra, rb, cfg.Orientation, cfg.Spacing)

	if cfg.Policy == Custom {
		l = center(l, cfg.CustomWidth, cfg.CustomHeight)
	}
	return l, nil
}

// place concatenates a and b along o's primary axis and centers each on the secondary axis
func place(a, b ImageSize, o Orientation, spacing int) Layout {
	canvasP := a.primary(o) + spacing + b.primary(o)
	canvasS := max(a.secondary(o), b.secondary(o))

	at := func(s ImageSize, p int) PlacedImage {
		offset := fromAxes(o, p, (canvasS-s.secondary(o))/2)
		return PlacedImage{Width: s.Width, Height: s.Height, X: offset.Width, Y: offset.Height}
	}

	canvas := fromAxes(o, canvasP, canvasS)
	return Layout{
		CanvasWidth:  canvas.Width,
		CanvasHeight: canvas.Height,
		A:            at(a, 0),
		B:            at(b, a.primary(o)+spacing),
	}
}

// center replaces the natural canvas with a fixed one and shifts both images to keep the composite centered
func center(l Layout, width, height int) Layout {
	dx := floorDiv(width-l.CanvasWidth, 2)
	dy := floorDiv(height-l.CanvasHeight, 2)
	l.A.X += dx
	l.A.Y += dy
	l.B.X += dx
	l.B.Y += dy
	l.CanvasWidth, l.CanvasHeight = width, height
	return l
}

// floorDiv divides rounding toward negative infinity
func floorDiv(n, d int) int {
	q := n / d
	if (n%d != 0) && ((n < 0) != (d < 0)) {
		q--
	}
	return q
}
