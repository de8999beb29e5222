package detection

import (
	"image"

	"github.com/ironsheep/textmask/internal/contour"
)

// Limits applied by the region predicate.
const (
	// MinTextRatio and MaxTextRatio bound the box width/height ratio.
	MinTextRatio = 0.1
	MaxTextRatio = 10.0

	// MinBoxArea is the smallest box area, in square pixels, that can hold a glyph.
	MinBoxArea = 15

	// MaxAreaDivisor caps the box area at imageArea / MaxAreaDivisor.
	MaxAreaDivisor = 5
)

// Keep reports whether points are plausible as the outline of a text stroke
// in an image of the given size. Both HasTextRatio and IsConnected must hold.
// Empty contours are never kept.
func Keep(points contour.Contour, size image.Point) bool {
	if len(points) == 0 {
		return false
	}
	return HasTextRatio(points, size) && IsConnected(points)
}

// HasTextRatio checks the bounding box of points: its width/height ratio
// must lie in [MinTextRatio, MaxTextRatio] and its area in
// [MinBoxArea, imageArea/MaxAreaDivisor].
func HasTextRatio(points contour.Contour, size image.Point) bool {
	box := contour.BoundingBox(points)
	if box.Empty() {
		return false
	}

	w, h := box.Dx(), box.Dy()
	ratio := float64(w) / float64(h)
	if ratio < MinTextRatio || ratio > MaxTextRatio {
		return false
	}

	boxArea := float64(w * h)
	imageArea := float64(size.X * size.Y)
	return boxArea >= MinBoxArea && boxArea <= imageArea/MaxAreaDivisor
}

// IsConnected reports whether the first and last point of points are within
// one pixel of each other on both axes.
func IsConnected(points contour.Contour) bool {
	if len(points) == 0 {
		return false
	}
	first, last := points[0], points[len(points)-1]
	return abs(first.X-last.X) <= 1 && abs(first.Y-last.Y) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
