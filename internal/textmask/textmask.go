package textmask

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/textmask/internal/contour"
	"github.com/ironsheep/textmask/internal/detection"
	"github.com/ironsheep/textmask/internal/imaging"
	"github.com/ironsheep/textmask/internal/logging"
)

// ErrEmptyImage is returned for a nil or zero-sized source image.
var ErrEmptyImage = errors.New("textmask: empty image")

// DefaultPadding is the black border added around the source before edge
// detection, in pixels.
const DefaultPadding = 50

// Options configures ComputeTextMask. The zero value runs the pipeline with
// its defaults.
type Options struct {
	// Padding is the border width. Zero means DefaultPadding; negative
	// means no border.
	Padding int

	// Edges are the Canny parameters. When both thresholds are zero
	// imaging.DefaultEdgeOptions is used.
	Edges imaging.EdgeOptions

	// Detection tunes region selection. Its Logger falls back to Logger.
	Detection detection.Options

	// Source extracts contours from the edge image. Nil means the pure Go
	// tracer.
	Source contour.Source

	Logger *zerolog.Logger
}

// DefaultOptions returns Options with every default spelled out.
func DefaultOptions() Options {
	return Options{
		Padding:   DefaultPadding,
		Edges:     imaging.DefaultEdgeOptions(),
		Detection: detection.Options{MaxDepth: detection.DefaultMaxDepth},
		Source:    contour.NewTracer(),
	}
}

func (o Options) padding() int {
	switch {
	case o.Padding == 0:
		return DefaultPadding
	case o.Padding < 0:
		return 0
	default:
		return o.Padding
	}
}

func (o Options) edges() imaging.EdgeOptions {
	if o.Edges.Low == 0 && o.Edges.High == 0 {
		e := imaging.DefaultEdgeOptions()
		e.BlurRadius = o.Edges.BlurRadius
		return e
	}
	return o.Edges
}

func (o Options) source() contour.Source {
	if o.Source == nil {
		return contour.NewTracer()
	}
	return o.Source
}

// Result holds the mask and the intermediate products that produced it.
// Every image shares the padded, 0-origin coordinate space.
type Result struct {
	// Mask is White outside accepted regions and binarized inside them.
	Mask *image.Gray

	// Padded is the source image with its border.
	Padded *image.NRGBA

	// Edges is the combined per-channel Canny map.
	Edges *image.Gray

	// Regions are the accepted contours in forest order, with Estimates
	// holding the intensity model each was painted with.
	Regions   []detection.Region
	Estimates []Estimate

	// Forest is the contour forest regions were selected from, and
	// Contours its size.
	Forest   *contour.Forest
	Contours int

	// Padding is the border width actually applied.
	Padding int
}

// Annotated draws the accepted regions' boxes over the padded image.
func (r *Result) Annotated() *image.RGBA {
	return imaging.AnnotateRegions(r.Padded, detection.Boxes(r.Regions))
}

// ComputeTextMask locates probable text glyphs in src and returns a binary
// mask of them, the size of src plus padding on every side.
//
// The source is padded with black, edge detected per RGB channel, and split
// into a contour forest. Contours that look like glyphs are selected and
// each is binarized against its own local foreground and background levels.
// Calls share no state, so concurrent calls on different images are safe.
func ComputeTextMask(src image.Image, opts Options) (*Result, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	log := logging.OrNop(opts.Logger)
	start := time.Now()

	pad := opts.padding()
	padded := imaging.Pad(src, pad)
	edges := imaging.DetectEdges(padded, opts.edges())

	forest, err := opts.source().Extract(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to extract contours: %w", err)
	}

	detOpts := opts.Detection
	if detOpts.Logger == nil {
		detOpts.Logger = opts.Logger
	}
	regions := detection.SelectRegions(forest, edges.Bounds().Size(), detOpts)

	mask := NewMask(edges.Bounds())
	estimates := Binarize(padded, regions, mask)

	log.Debug().
		Int("width", src.Bounds().Dx()).
		Int("height", src.Bounds().Dy()).
		Int("contours", forest.Len()).
		Int("regions", len(regions)).
		Dur("elapsed", time.Since(start)).
		Msg("text mask computed")

	return &Result{
		Mask:      mask,
		Padded:    padded,
		Edges:     edges,
		Regions:   regions,
		Estimates: estimates,
		Forest:    forest,
		Contours:  forest.Len(),
		Padding:   pad,
	}, nil
}
