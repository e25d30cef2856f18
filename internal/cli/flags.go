package cli

import (
	"github.com/spf13/pflag"

	"github.com/menta2k/sidebyside/internal/config"
)

// layoutFlags are the layout options shared by compose and layout.
// Only flags set on the command line override the config file.
type layoutFlags struct {
	orientation string
	spacing     int
	background  string
	resize      string
	width       int
	height      int
	filter      string
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	d := config.Default().Layout
	fs.StringVarP(&f.orientation, "orientation", "o", d.Orientation, "horizontal or vertical")
	fs.IntVarP(&f.spacing, "spacing", "s", d.Spacing, "gap between the images in pixels")
	fs.StringVar(&f.background, "background", d.Background, "canvas color: name, #rgb, #rrggbb or #rrggbbaa")
	fs.StringVarP(&f.resize, "resize", "r", d.Resize, "original, match-width, match-height or custom")
	fs.IntVar(&f.width, "width", d.OutputWidth, "output width for --resize custom")
	fs.IntVar(&f.height, "height", d.OutputHeight, "output height for --resize custom")
	fs.StringVar(&f.filter, "filter", d.Filter, "resample filter: lanczos, catmullrom, linear, box or nearest")
}

func (f *layoutFlags) apply(fs *pflag.FlagSet, c *config.LayoutConfig) {
	setString(fs, "orientation", f.orientation, &c.Orientation)
	setInt(fs, "spacing", f.spacing, &c.Spacing)
	setString(fs, "background", f.background, &c.Background)
	setString(fs, "resize", f.resize, &c.Resize)
	setInt(fs, "width", f.width, &c.OutputWidth)
	setInt(fs, "height", f.height, &c.OutputHeight)
	setString(fs, "filter", f.filter, &c.Filter)
}

func setString(fs *pflag.FlagSet, name, v string, dst *string) {
	if fs.Changed(name) {
		*dst = v
	}
}

func setInt(fs *pflag.FlagSet, name string, v int, dst *int) {
	if fs.Changed(name) {
		*dst = v
	}
}
