package layout

import (
	"errors"
	"testing"
)

func config(o Orientation, p ResizePolicy, spacing int) Config {
	cfg := DefaultConfig()
	cfg.Orientation = o
	cfg.Policy = p
	cfg.Spacing = spacing
	return cfg
}

// sampleSizes returns a deterministic spread of image sizes for property checks
func sampleSizes() []ImageSize {
	var sizes []ImageSize
	dims := []int{1, 3, 17, 100, 333, 640, 1080, 4001}
	for _, w := range dims {
		for _, h := range dims {
			sizes = append(sizes, ImageSize{w, h})
		}
	}
	return sizes
}

func TestScenarioHorizontalOriginal(t *testing.T) {
	l, err := Compute(ImageSize{400, 300}, ImageSize{200, 600}, config(Horizontal, Original, 10))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	want := Layout{
		CanvasWidth:  610,
		CanvasHeight: 600,
		A:            PlacedImage{Width: 400, Height: 300, X: 0, Y: 150},
		B:            PlacedImage{Width: 200, Height: 600, X: 410, Y: 0},
	}
	if l != want {
		t.Errorf("Expected %+v, got %+v", want, l)
	}
}

func TestScenarioHorizontalMatchWidth(t *testing.T) {
	l, err := Compute(ImageSize{100, 200}, ImageSize{300, 300}, config(Horizontal, MatchWidth, 0))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if l.A.Width != 300 || l.B.Width != 300 {
		t.Errorf("Expected both widths 300, got %d and %d", l.A.Width, l.B.Width)
	}
	if l.A.Height != 600 {
		t.Errorf("Expected A height 600, got %d", l.A.Height)
	}
	if l.B.Height != 300 {
		t.Errorf("Expected B height 300, got %d", l.B.Height)
	}
	if l.CanvasHeight != 600 {
		t.Errorf("Expected canvas height 600, got %d", l.CanvasHeight)
	}
	if l.CanvasWidth != 600 {
		t.Errorf("Expected canvas width 600, got %d", l.CanvasWidth)
	}
	if l.B.Y != 150 {
		t.Errorf("Expected B centered at y=150, got %d", l.B.Y)
	}
}

func TestScenarioVerticalCustom(t *testing.T) {
	cfg := config(Vertical, Custom, 20)
	cfg.CustomWidth = 500
	cfg.CustomHeight = 400

	l, err := Compute(ImageSize{300, 300}, ImageSize{300, 100}, cfg)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if l.CanvasWidth != 500 || l.CanvasHeight != 400 {
		t.Errorf("Expected canvas 500x400, got %dx%d", l.CanvasWidth, l.CanvasHeight)
	}
	if l.A.Height != 285 || l.B.Height != 95 {
		t.Errorf("Expected primary split 285/95, got %d/%d", l.A.Height, l.B.Height)
	}
	if l.A.Height+l.B.Height != 380 {
		t.Errorf("Expected primary extents to sum to 380, got %d", l.A.Height+l.B.Height)
	}
	// both keep their aspect ratio: 285*300/300 and 95*300/100
	if l.A.Width != 285 || l.B.Width != 285 {
		t.Errorf("Expected widths 285/285, got %d/%d", l.A.Width, l.B.Width)
	}

	wantA := PlacedImage{Width: 285, Height: 285, X: 107, Y: 0}
	wantB := PlacedImage{Width: 285, Height: 95, X: 107, Y: 305}
	if l.A != wantA {
		t.Errorf("Expected A %+v, got %+v", wantA, l.A)
	}
	if l.B != wantB {
		t.Errorf("Expected B %+v, got %+v", wantB, l.B)
	}
}

func TestCustomOverflowCorrection(t *testing.T) {
	tests := []struct {
		name  string
		a, b  ImageSize
		cfg   Config
		wantA PlacedImage
		wantB PlacedImage
	}{
		{
			name:  "horizontal squares too tall",
			a:     ImageSize{100, 100},
			b:     ImageSize{100, 100},
			cfg:   Config{Orientation: Horizontal, Policy: Custom, CustomWidth: 1000, CustomHeight: 100},
			wantA: PlacedImage{Width: 100, Height: 100, X: 400, Y: 0},
			wantB: PlacedImage{Width: 100, Height: 100, X: 500, Y: 0},
		},
		{
			name:  "horizontal uneven overflow",
			a:     ImageSize{100, 200},
			b:     ImageSize{300, 100},
			cfg:   Config{Orientation: Horizontal, Policy: Custom, CustomWidth: 400, CustomHeight: 150},
			wantA: PlacedImage{Width: 75, Height: 150, X: 50, Y: 0},
			wantB: PlacedImage{Width: 225, Height: 75, X: 125, Y: 37},
		},
		{
			name:  "horizontal fits without correction",
			a:     ImageSize{100, 200},
			b:     ImageSize{300, 100},
			cfg:   Config{Orientation: Horizontal, Policy: Custom, CustomWidth: 400, CustomHeight: 300},
			wantA: PlacedImage{Width: 100, Height: 200, X: 0, Y: 50},
			wantB: PlacedImage{Width: 300, Height: 100, X: 100, Y: 100},
		},
		{
			name:  "vertical too wide",
			a:     ImageSize{200, 100},
			b:     ImageSize{200, 100},
			cfg:   Config{Orientation: Vertical, Policy: Custom, CustomWidth: 100, CustomHeight: 410, Spacing: 10},
			wantA: PlacedImage{Width: 100, Height: 50, X: 0, Y: 150},
			wantB: PlacedImage{Width: 100, Height: 50, X: 0, Y: 210},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(tt.a, tt.b, tt.cfg)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if l.CanvasWidth != tt.cfg.CustomWidth || l.CanvasHeight != tt.cfg.CustomHeight {
				t.Errorf("Expected canvas %dx%d, got %dx%d",
					tt.cfg.CustomWidth, tt.cfg.CustomHeight, l.CanvasWidth, l.CanvasHeight)
			}
			if l.A != tt.wantA {
				t.Errorf("Expected A %+v, got %+v", tt.wantA, l.A)
			}
			if l.B != tt.wantB {
				t.Errorf("Expected B %+v, got %+v", tt.wantB, l.B)
			}
		})
	}
}

func TestOriginalIdentity(t *testing.T) {
	for _, o := range []Orientation{Horizontal, Vertical} {
		for _, a := range sampleSizes() {
			b := ImageSize{a.Height + 7, a.Width + 3}
			l, err := Compute(a, b, config(o, Original, 5))
			if err != nil {
				t.Fatalf("Compute(%s, %s) failed: %v", a, b, err)
			}
			if l.A.Size() != a || l.B.Size() != b {
				t.Fatalf("%s: expected sizes %s/%s, got %s/%s", o, a, b, l.A.Size(), l.B.Size())
			}
		}
	}
}

func TestMatchPolicies(t *testing.T) {
	sizes := sampleSizes()
	for _, o := range []Orientation{Horizontal, Vertical} {
		for i, a := range sizes {
			b := sizes[(i*7+3)%len(sizes)]

			l, err := Compute(a, b, config(o, MatchWidth, 4))
			if err != nil {
				t.Fatalf("MatchWidth(%s, %s) failed: %v", a, b, err)
			}
			if l.A.Width != l.B.Width {
				t.Fatalf("MatchWidth(%s, %s): widths differ %d != %d", a, b, l.A.Width, l.B.Width)
			}

			l, err = Compute(a, b, config(o, MatchHeight, 4))
			if err != nil {
				t.Fatalf("MatchHeight(%s, %s) failed: %v", a, b, err)
			}
			if l.A.Height != l.B.Height {
				t.Fatalf("MatchHeight(%s, %s): heights differ %d != %d", a, b, l.A.Height, l.B.Height)
			}
		}
	}
}

func TestMatchWidthLeavesWidestUnchanged(t *testing.T) {
	l, err := Compute(ImageSize{640, 480}, ImageSize{320, 100}, config(Horizontal, MatchWidth, 0))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if l.A.Size() != (ImageSize{640, 480}) {
		t.Errorf("Expected widest image unchanged, got %s", l.A.Size())
	}
	if l.B.Size() != (ImageSize{640, 200}) {
		t.Errorf("Expected 640x200, got %s", l.B.Size())
	}
}

func TestMatchHeightFloors(t *testing.T) {
	l, err := Compute(ImageSize{100, 3}, ImageSize{10, 7}, config(Horizontal, MatchHeight, 0))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	// 100 * 7 / 3 = 233.33
	if l.A.Width != 233 || l.A.Height != 7 {
		t.Errorf("Expected 233x7, got %s", l.A.Size())
	}
}

func TestHorizontalNoOverlap(t *testing.T) {
	sizes := sampleSizes()
	for _, p := range []ResizePolicy{Original, MatchWidth, MatchHeight, Custom} {
		for i, a := range sizes {
			b := sizes[(i*5+1)%len(sizes)]
			cfg := config(Horizontal, p, 12)
			l, err := Compute(a, b, cfg)
			if err != nil {
				t.Fatalf("%s(%s, %s) failed: %v", p, a, b, err)
			}
			if l.B.X != l.A.X+l.A.Width+cfg.Spacing {
				t.Fatalf("%s(%s, %s): B.X=%d, A ends at %d", p, a, b, l.B.X, l.A.X+l.A.Width)
			}
			if p == Custom {
				continue
			}
			if l.A.X != 0 {
				t.Fatalf("%s(%s, %s): A.X=%d", p, a, b, l.A.X)
			}
			if l.CanvasWidth != l.A.Width+cfg.Spacing+l.B.Width {
				t.Fatalf("%s(%s, %s): canvas width %d", p, a, b, l.CanvasWidth)
			}
			if l.CanvasHeight != max(l.A.Height, l.B.Height) {
				t.Fatalf("%s(%s, %s): canvas height %d", p, a, b, l.CanvasHeight)
			}
		}
	}
}

func TestVerticalPlacement(t *testing.T) {
	l, err := Compute(ImageSize{400, 300}, ImageSize{200, 600}, config(Vertical, Original, 10))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	want := Layout{
		CanvasWidth:  400,
		CanvasHeight: 910,
		A:            PlacedImage{Width: 400, Height: 300, X: 0, Y: 0},
		B:            PlacedImage{Width: 200, Height: 600, X: 100, Y: 310},
	}
	if l != want {
		t.Errorf("Expected %+v, got %+v", want, l)
	}
}

func TestCustomFixedCanvasAndContainment(t *testing.T) {
	sizes := sampleSizes()
	for _, o := range []Orientation{Horizontal, Vertical} {
		for i, a := range sizes {
			b := sizes[(i*3+11)%len(sizes)]
			cfg := config(o, Custom, 8)
			cfg.CustomWidth, cfg.CustomHeight = 777, 333

			l, err := Compute(a, b, cfg)
			if err != nil {
				t.Fatalf("Compute(%s, %s) failed: %v", a, b, err)
			}
			if l.CanvasWidth != 777 || l.CanvasHeight != 333 {
				t.Fatalf("Compute(%s, %s): canvas %dx%d", a, b, l.CanvasWidth, l.CanvasHeight)
			}
			for _, p := range []PlacedImage{l.A, l.B} {
				if !p.Rect().In(l.Bounds()) && !p.Rect().Empty() {
					t.Fatalf("Compute(%s, %s): %+v outside canvas", a, b, p)
				}
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	cfg := config(Vertical, Custom, 13)
	cfg.CustomWidth, cfg.CustomHeight = 1023, 611
	a, b := ImageSize{1919, 1077}, ImageSize{641, 1333}

	first, err := Compute(a, b, cfg)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := Compute(a, b, cfg)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		if again != first {
			t.Fatalf("Expected %+v, got %+v", first, again)
		}
	}
}

func TestComputeErrors(t *testing.T) {
	custom := config(Horizontal, Custom, 10)

	tests := []struct {
		name string
		a, b ImageSize
		cfg  Config
		want error
	}{
		{"zero width", ImageSize{0, 100}, ImageSize{50, 50}, DefaultConfig(), ErrInvalidImageSize},
		{"negative height", ImageSize{10, 10}, ImageSize{50, -1}, DefaultConfig(), ErrInvalidImageSize},
		{"negative spacing", ImageSize{10, 10}, ImageSize{10, 10}, config(Horizontal, Original, -1), ErrInvalidSpacing},
		{"custom zero width", ImageSize{10, 10}, ImageSize{10, 10}, func() Config { c := custom; c.CustomWidth = 0; return c }(), ErrInvalidCustomDimension},
		{"custom negative height", ImageSize{10, 10}, ImageSize{10, 10}, func() Config { c := custom; c.CustomHeight = -5; return c }(), ErrInvalidCustomDimension},
		{"custom spacing swallows width", ImageSize{10, 10}, ImageSize{10, 10}, func() Config { c := custom; c.CustomWidth = 10; return c }(), ErrInvalidCustomDimension},
		{"unknown orientation", ImageSize{10, 10}, ImageSize{10, 10}, Config{Orientation: 7}, ErrUnknownOrientation},
		{"unknown policy", ImageSize{10, 10}, ImageSize{10, 10}, Config{Policy: 9}, ErrUnknownPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(tt.a, tt.b, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected error to wrap ErrInvalidInput: %v", err)
			}
			if l != (Layout{}) {
				t.Errorf("Expected zero layout on error, got %+v", l)
			}
		})
	}
}

func TestNonCustomIgnoresCustomDimensions(t *testing.T) {
	cfg := config(Horizontal, MatchHeight, 0)
	cfg.CustomWidth, cfg.CustomHeight = 0, -1
	if _, err := Compute(ImageSize{10, 10}, ImageSize{20, 20}, cfg); err != nil {
		t.Errorf("Expected custom dimensions to be ignored, got %v", err)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ n, d, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{-8, 2, -4},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.n, tt.d); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}

func BenchmarkCompute(b *testing.B) {
	cfg := config(Horizontal, Custom, 10)
	sa, sb := ImageSize{1920, 1080}, ImageSize{1080, 1920}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compute(sa, sb, cfg)
	}
}
