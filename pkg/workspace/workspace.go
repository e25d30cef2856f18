// Package workspace keeps the caller-side state of an interactive composition:
// the two loaded images, the current options and the preview surface.
//
// The layout engine and compositor are stateless; a Workspace owns everything
// that changes between previews and serializes renders onto its surface.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/menta2k/sidebyside/pkg/compositor"
	"github.com/menta2k/sidebyside/pkg/layout"
	"github.com/menta2k/sidebyside/pkg/processing"
)

// ErrIncomplete is returned when a preview or export is requested before both slots hold an image
var ErrIncomplete = errors.New("both images are required")

// Slot identifies one of the two image positions
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

func (s Slot) index() (int, error) {
	if s != Slot1 && s != Slot2 {
		return 0, fmt.Errorf("invalid image slot: %d", int(s))
	}
	return int(s) - 1, nil
}

// ExportOptions names and encodes the composed image
type ExportOptions struct {
	FileName string
	Encode   processing.EncodeOptions
}

// DefaultExportOptions returns sidebyside.png
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		FileName: "sidebyside",
		Encode:   processing.EncodeOptions{Format: processing.PNG, Quality: processing.DefaultJPEGQuality},
	}
}

// Filename returns <FileName>.<extension>
func (o ExportOptions) Filename() string {
	name := o.FileName
	if name == "" {
		name = "sidebyside"
	}
	format := o.Encode.Format
	if format == "" {
		format = processing.PNG
	}
	return name + "." + format.Extension()
}

// Workspace holds two image slots, the composition options and a preview surface
type Workspace struct {
	mu     sync.Mutex
	images [2]image.Image
	config layout.Config
	export ExportOptions
	maxDim int

	// renderMu serializes render-and-read sequences on surface
	renderMu   sync.Mutex
	surface    *compositor.Surface
	compositor *compositor.Compositor
	processor  *processing.Processor
	logger     *log.Logger
}

// Option configures a Workspace
type Option func(*Workspace)

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithCompositor sets the compositor used for renders
func WithCompositor(c *compositor.Compositor) Option {
	return func(w *Workspace) { w.compositor = c }
}

// WithMaxDimension downscales images longer than maxDim when they are loaded
func WithMaxDimension(maxDim int) Option {
	return func(w *Workspace) { w.maxDim = maxDim }
}

// New creates an empty workspace using cfg
func New(cfg layout.Config, opts ...Option) *Workspace {
	w := &Workspace{
		config:     cfg,
		export:     DefaultExportOptions(),
		surface:    compositor.NewSurface(),
		compositor: compositor.New(),
		processor:  processing.NewProcessor(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetImage stores img in slot, replacing any previous image.
// When a maximum dimension is configured the stored image is a downscaled copy.
func (w *Workspace) SetImage(slot Slot, img image.Image) error {
	i, err := slot.index()
	if err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("image for slot %d is nil", slot)
	}
	img = w.processor.Downscale(img, w.maxDim)

	w.mu.Lock()
	w.images[i] = img
	w.mu.Unlock()

	w.logger.Debug("image loaded", "slot", int(slot), "size", layout.SizeOf(img))
	return nil
}

// LoadImage decodes the file or URL at source into slot
func (w *Workspace) LoadImage(slot Slot, source string) error {
	img, err := w.processor.LoadImageSmart(source)
	if err != nil {
		return err
	}
	return w.SetImage(slot, img)
}

// RemoveImage clears slot
func (w *Workspace) RemoveImage(slot Slot) error {
	i, err := slot.index()
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.images[i] = nil
	w.mu.Unlock()

	w.logger.Debug("image removed", "slot", int(slot))
	return nil
}

// Image returns the image in slot, or nil
func (w *Workspace) Image(slot Slot) image.Image {
	i, err := slot.index()
	if err != nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.images[i]
}

// Ready reports whether both slots hold an image
func (w *Workspace) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.images[0] != nil && w.images[1] != nil
}

// Config returns the current composition options
func (w *Workspace) Config() layout.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config
}

// SetConfig replaces the composition options
func (w *Workspace) SetConfig(cfg layout.Config) {
	w.mu.Lock()
	w.config = cfg
	w.mu.Unlock()
}

// ExportOptions returns the current export options
func (w *Workspace) ExportOptions() ExportOptions {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.export
}

// SetExportOptions replaces the export options
func (w *Workspace) SetExportOptions(opts ExportOptions) {
	w.mu.Lock()
	w.export = opts
	w.mu.Unlock()
}

// Surface returns the preview surface
func (w *Workspace) Surface() *compositor.Surface {
	return w.surface
}

// snapshot copies the inputs of a render under the state lock
func (w *Workspace) snapshot() (a, b image.Image, cfg layout.Config, export ExportOptions, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.images[0] == nil || w.images[1] == nil {
		return nil, nil, cfg, export, ErrIncomplete
	}
	return w.images[0], w.images[1], w.config, w.export, nil
}

// Preview computes the layout for the current state and renders it onto the
// workspace surface. Nothing is drawn when the layout cannot be computed.
func (w *Workspace) Preview() (layout.Layout, error) {
	a, b, cfg, _, err := w.snapshot()
	if err != nil {
		return layout.Layout{}, err
	}

	w.renderMu.Lock()
	defer w.renderMu.Unlock()
	return w.render(a, b, cfg)
}

func (w *Workspace) render(a, b image.Image, cfg layout.Config) (layout.Layout, error) {
	l, err := layout.Compute(layout.SizeOf(a), layout.SizeOf(b), cfg)
	if err != nil {
		return layout.Layout{}, err
	}
	w.compositor.Render(w.surface, l, a, b, cfg.Background)
	w.logger.Debug("preview rendered",
		"policy", cfg.Policy, "orientation", cfg.Orientation,
		"canvas", fmt.Sprintf("%dx%d", l.CanvasWidth, l.CanvasHeight))
	return l, nil
}

// Export renders the current state and encodes it to out
func (w *Workspace) Export(out io.Writer) (layout.Layout, error) {
	a, b, cfg, export, err := w.snapshot()
	if err != nil {
		return layout.Layout{}, err
	}

	w.renderMu.Lock()
	defer w.renderMu.Unlock()

	l, err := w.render(a, b, cfg)
	if err != nil {
		return layout.Layout{}, err
	}
	err = w.surface.View(func(img *image.NRGBA) error {
		return w.processor.Encode(out, img, export.Encode)
	})
	if err != nil {
		return layout.Layout{}, fmt.Errorf("failed to encode %s: %w", export.Filename(), err)
	}
	w.logger.Info("exported", "file", export.Filename(), "canvas", fmt.Sprintf("%dx%d", l.CanvasWidth, l.CanvasHeight))
	return l, nil
}

// Filename returns the export file name for the current options
func (w *Workspace) Filename() string {
	return w.ExportOptions().Filename()
}

// ExportResult is the outcome of an ExportAsync task
type ExportResult struct {
	Filename string
	Layout   layout.Layout
	Data     []byte
	Err      error
}

// ExportAsync renders and encodes in a goroutine. The returned channel yields
// exactly one result and is then closed. If ctx is cancelled before the task
// finishes, the encoded bytes are discarded and the result carries ctx.Err().
func (w *Workspace) ExportAsync(ctx context.Context) <-chan ExportResult {
	ch := make(chan ExportResult, 1)
	go func() {
		defer close(ch)
		if err := ctx.Err(); err != nil {
			ch <- ExportResult{Err: err}
			return
		}

		var buf bytes.Buffer
		l, err := w.Export(&buf)
		res := ExportResult{Filename: w.Filename(), Layout: l, Data: buf.Bytes(), Err: err}
		if ctxErr := ctx.Err(); ctxErr != nil {
			w.logger.Debug("export discarded", "reason", ctxErr)
			res = ExportResult{Filename: res.Filename, Err: ctxErr}
		}
		ch <- res
	}()
	return ch
}
