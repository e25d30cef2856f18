package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/menta2k/sidebyside/pkg/layout"
	"github.com/menta2k/sidebyside/pkg/processing"
)

func newLayoutCmd(root *rootOpts) *cobra.Command {
	var (
		flags  layoutFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout <WxH> <WxH>",
		Short: "Print the placement computed for two image sizes",
		Example: `  sidebyside layout 400x300 200x600
  sidebyside layout 400x300 200x600 --resize custom --width 600 --height 400 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := layout.ParseSize(args[0])
			if err != nil {
				return err
			}
			b, err := layout.ParseSize(args[1])
			if err != nil {
				return err
			}

			cfg, err := root.config()
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), &cfg.Layout)
			lc, err := cfg.LayoutConfig()
			if err != nil {
				return err
			}

			l, err := layout.Compute(a, b, lc)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("layout computed",
				"policy", lc.Policy, "orientation", lc.Orientation)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}
			printLayout(cmd.OutOrStdout(), lc, l)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	return cmd
}

func printLayout(w io.Writer, cfg layout.Config, l layout.Layout) {
	p := printer{w: w}
	p.title(fmt.Sprintf("%s, %s, spacing %d", cfg.Orientation, cfg.Policy, cfg.Spacing))
	p.keyValue("canvas", fmt.Sprintf("%dx%d", l.CanvasWidth, l.CanvasHeight))
	p.keyValue("background", processing.FormatColor(cfg.Background))
	for _, img := range []struct {
		name string
		p    layout.PlacedImage
	}{{"image 1", l.A}, {"image 2", l.B}} {
		p.keyValue(img.name, fmt.Sprintf("%s at (%d, %d)", img.p.Size(), img.p.X, img.p.Y))
	}
}
