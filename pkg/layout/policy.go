package layout

// sizer maps two natural sizes to two render sizes under one resize policy
type sizer func(a, b ImageSize, cfg Config) (ImageSize, ImageSize)

var sizers = map[ResizePolicy]sizer{
	Original:    sizeOriginal,
	MatchWidth:  sizeMatchWidth,
	MatchHeight: sizeMatchHeight,
	Custom:      sizeCustom,
}

func sizeOriginal(a, b ImageSize, _ Config) (ImageSize, ImageSize) {
	return a, b
}

func sizeMatchWidth(a, b ImageSize, _ Config) (ImageSize, ImageSize) {
	maxW := max(a.Width, b.Width)
	return matchPrimary(a, maxW, Horizontal), matchPrimary(b, maxW, Horizontal)
}

func sizeMatchHeight(a, b ImageSize, _ Config) (ImageSize, ImageSize) {
	maxH := max(a.Height, b.Height)
	return matchPrimary(a, maxH, Vertical), matchPrimary(b, maxH, Vertical)
}

// matchPrimary scales s uniformly so that its extent on o's primary axis becomes target.
func matchPrimary(s ImageSize, target int, o Orientation) ImageSize {
	p := s.primary(o)
	if p == target {
		return s
	}
	return fromAxes(o, target, s.secondary(o)*target/p)
}

// sizeCustom splits the primary budget between both images in proportion to
// their natural primary extents, then shrinks both uniformly if either
// secondary extent overflows the output bound.
func sizeCustom(a, b ImageSize, cfg Config) (ImageSize, ImageSize) {
	o := cfg.Orientation
	out := ImageSize{Width: cfg.CustomWidth, Height: cfg.CustomHeight}
	total := out.primary(o) - cfg.Spacing
	bound := out.secondary(o)

	pa, pb := a.primary(o), b.primary(o)
	ap := total * pa / (pa + pb)
	bp := total - ap
	as := ap * a.secondary(o) / pa
	bs := bp * b.secondary(o) / pb

	if as > bound || bs > bound {
		// min(bound/as, bound/bs) == bound/max(as, bs)
		over := max(as, bs)
		ap, as = ap*bound/over, as*bound/over
		bp, bs = bp*bound/over, bs*bound/over
	}
	return fromAxes(o, ap, as), fromAxes(o, bp, bs)
}
