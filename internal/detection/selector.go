package detection

import (
	"image"

	"github.com/ironsheep/textmask/internal/contour"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
// (X1, Y1) is inclusive and (X2, Y2) exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// BoundsOf converts an image rectangle to Bounds.
func BoundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Region is a contour accepted as a candidate glyph.
type Region struct {
	// Index is the contour's position in the forest.
	Index int

	// Points is the contour outline, shared with the forest.
	Points contour.Contour

	// Box is the contour's bounding box.
	Box image.Rectangle

	// NumChildren is the CountChildren result for the contour.
	NumChildren int
}

// Decision records how the selector judged one contour.
type Decision struct {
	Index  int    `json:"index"`
	Bounds Bounds `json:"bounds"`
	Points int    `json:"points"`

	// Kept is the Keep result for the contour itself.
	Kept bool `json:"kept"`

	// Ancestor is the first enclosing contour that fails Keep, or
	// contour.NoLink when every ancestor passes.
	Ancestor int `json:"ancestor"`

	NumChildren int  `json:"num_children"`
	Accepted    bool `json:"accepted"`
}

// MaxChildren is the most kept descendants a glyph may contain.
const MaxChildren = 2

// Evaluate judges every contour of f, in forest order, for an image of the
// given size. A contour is accepted when it passes Keep, has at most
// MaxChildren kept descendants, and every ancestor up to the top of the
// forest passes Keep as well: a contour sitting under a rejected ancestor is
// treated as a sub-stroke of it.
func Evaluate(f *contour.Forest, size image.Point, opts Options) []Decision {
	n := f.Len()
	if n == 0 {
		return nil
	}

	w := newWalker(f, size, opts)
	decisions := make([]Decision, n)
	for i := 0; i < n; i++ {
		box := contour.BoundingBox(f.Points(i))

		ancestor, hasAncestor := w.parent(i)
		for steps := 0; hasAncestor && w.keep(ancestor) && steps < n; steps++ {
			ancestor, hasAncestor = w.parent(ancestor)
		}
		if !hasAncestor {
			ancestor = contour.NoLink
		}

		numChildren := w.countChildren(i)
		kept := w.keep(i)
		accepted := kept &&
			!(hasAncestor && numChildren <= MaxChildren) &&
			numChildren <= MaxChildren

		decisions[i] = Decision{
			Index:       i,
			Bounds:      BoundsOf(box),
			Points:      len(f.Points(i)),
			Kept:        kept,
			Ancestor:    ancestor,
			NumChildren: numChildren,
			Accepted:    accepted,
		}

		event := w.log.Debug().
			Int("index", i).
			Int("parent", ancestor).
			Int("num_children", numChildren)
		if accepted {
			event.Msg("region accepted")
		} else {
			event.Bool("kept", kept).Msg("region rejected")
		}
	}
	return decisions
}

// SelectRegions returns the accepted contours of f in forest order.
func SelectRegions(f *contour.Forest, size image.Point, opts Options) []Region {
	regions := make([]Region, 0)
	for _, d := range Evaluate(f, size, opts) {
		if !d.Accepted {
			continue
		}
		points := f.Points(d.Index)
		regions = append(regions, Region{
			Index:       d.Index,
			Points:      points,
			Box:         contour.BoundingBox(points),
			NumChildren: d.NumChildren,
		})
	}
	return regions
}

// Boxes returns the bounding box of each region.
func Boxes(regions []Region) []image.Rectangle {
	boxes := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		boxes[i] = r.Box
	}
	return boxes
}
