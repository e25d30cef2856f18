package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/menta2k/sidebyside/internal/config"
	"github.com/menta2k/sidebyside/internal/utils"
	"github.com/menta2k/sidebyside/pkg/compositor"
	"github.com/menta2k/sidebyside/pkg/processing"
	"github.com/menta2k/sidebyside/pkg/workspace"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	layout   layoutFlags
	out      string // output path; overrides --name and the configured directory
	name     string // output file name without extension
	fileType string // png, jpeg or webp
	quality  int    // JPEG and lossy WebP quality
	lossless bool   // lossless WebP
	maxSize  int    // downscale inputs longer than this, 0 disables
}

func newComposeCmd(root *rootOpts) *cobra.Command {
	var opts composeOpts

	cmd := &cobra.Command{
		Use:   "compose <image1> <image2>",
		Short: "Combine two images into one file",
		Long: `Combine two images into one file.

Inputs may be local paths or http(s) URLs. The first image is placed left
(horizontal) or on top (vertical).`,
		Example: `  sidebyside compose before.png after.png
  sidebyside compose a.jpg b.jpg -o vertical --resize match-width --out pair.webp
  sidebyside compose a.jpg b.jpg --resize custom --width 1200 --height 800 --type jpeg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runCompose(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], args[1], opts.out)
		},
	}

	d := config.Default()
	fs := cmd.Flags()
	opts.layout.register(fs)
	fs.StringVar(&opts.out, "out", "", "output file (default <dir>/<name>.<type>)")
	fs.StringVarP(&opts.name, "name", "n", d.Output.FileName, "output file name without extension")
	fs.StringVarP(&opts.fileType, "type", "t", d.Output.FileType, "output format: png, jpeg or webp")
	fs.IntVarP(&opts.quality, "quality", "q", d.Output.Quality, "JPEG/WebP quality (1-100)")
	fs.BoolVar(&opts.lossless, "lossless", false, "lossless WebP")
	fs.IntVar(&opts.maxSize, "max-size", d.Input.MaxDimension, "downscale inputs longer than this many pixels (0 disables)")

	return cmd
}

// apply overlays the flags set on the command line onto cfg. When --out has a
// known image extension and --type is not given, the extension selects the format.
func (o *composeOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	o.layout.apply(fs, &cfg.Layout)
	setString(fs, "name", o.name, &cfg.Output.FileName)
	setString(fs, "type", o.fileType, &cfg.Output.FileType)
	setInt(fs, "quality", o.quality, &cfg.Output.Quality)
	setInt(fs, "max-size", o.maxSize, &cfg.Input.MaxDimension)
	if fs.Changed("lossless") {
		cfg.Output.Lossless = o.lossless
	}

	if o.out != "" && !fs.Changed("type") {
		if format, err := processing.ParseFormat(filepath.Ext(o.out)); err == nil {
			cfg.Output.FileType = string(format)
		}
	}
}

func runCompose(ctx context.Context, w io.Writer, cfg *config.Config, src1, src2, out string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	lc, err := cfg.LayoutConfig()
	if err != nil {
		return err
	}
	enc, err := cfg.EncodeOptions()
	if err != nil {
		return err
	}
	filter, err := compositor.ParseFilter(cfg.Layout.Filter)
	if err != nil {
		return err
	}

	ws := workspace.New(lc,
		workspace.WithLogger(logger),
		workspace.WithCompositor(compositor.NewWithFilter(filter)),
		workspace.WithMaxDimension(cfg.Input.MaxDimension))
	ws.SetExportOptions(workspace.ExportOptions{FileName: cfg.Output.FileName, Encode: enc})

	for i, src := range []string{src1, src2} {
		logger.Debug("loading image", "slot", i+1, "source", src)
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") && !utils.IsImageFile(src) {
			logger.Warn("no image file extension, detecting format from content", "source", src)
		}
		if err := ws.LoadImage(workspace.Slot(i+1), src); err != nil {
			return err
		}
	}

	res := <-ws.ExportAsync(ctx)
	if res.Err != nil {
		return res.Err
	}

	if out == "" {
		out = utils.GenerateOutputFilename(cfg.Output.Dir, cfg.Output.FileName, enc.Format.Extension())
	}
	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, res.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	prog.done(fmt.Sprintf("Composed %dx%d", res.Layout.CanvasWidth, res.Layout.CanvasHeight))
	p := printer{w: w}
	p.success("Wrote %s (%s)", filepath.Base(out), utils.FormatFileSize(int64(len(res.Data))))
	p.file(out)
	return nil
}
