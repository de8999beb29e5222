package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/textmask/internal/imaging"
)

// ErrNoForeground is returned by PlateBounds when nothing survives
// thresholding and erosion.
var ErrNoForeground = errors.New("no foreground left after erosion")

// DefaultErodeRadius is the erosion radius PlateBounds uses when
// PlateOptions.ErodeRadius is zero.
const DefaultErodeRadius = 1.0

// PlateOptions tunes PlateBounds.
type PlateOptions struct {
	// ErodeRadius is the structuring radius applied after thresholding.
	// Negative disables erosion.
	ErodeRadius float64
}

// FloatPoint is a sub-pixel coordinate.
type FloatPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RotatedRect is a rectangle at an arbitrary angle.
type RotatedRect struct {
	Center FloatPoint `json:"center"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`

	// Angle is the direction of the Width side in degrees, measured from the
	// x axis towards y.
	Angle float64 `json:"angle"`

	// Corners run around the rectangle starting from the Width side's origin.
	Corners [4]FloatPoint `json:"corners"`
}

// PlateResult is the outcome of PlateBounds.
type PlateResult struct {
	// Image is the eroded binary image with the rectangle drawn on it.
	Image *image.Gray `json:"-"`

	Rect      RotatedRect `json:"rect"`
	Threshold uint8       `json:"threshold"`
	Points    int         `json:"points"`
}

// PlateBounds finds the dark foreground of src (Otsu threshold, inverted),
// erodes away thin noise, and fits the minimum-area rotated rectangle around
// whatever remains. The rectangle's edges are drawn in white onto the
// returned image.
func PlateBounds(src image.Image, opts PlateOptions) (*PlateResult, error) {
	radius := opts.ErodeRadius
	if radius == 0 {
		radius = DefaultErodeRadius
	}

	binary, threshold := imaging.ThresholdInverse(imaging.ToGray(src))
	eroded := imaging.Erode(binary, radius)

	points := imaging.ForegroundPoints(eroded)
	if len(points) == 0 {
		return nil, ErrNoForeground
	}

	rect := MinAreaRect(points)
	white := color.Gray{Y: 255}
	for i := 0; i < 4; i++ {
		from := rect.Corners[i]
		to := rect.Corners[(i+1)%4]
		imaging.DrawLine(eroded, roundPoint(from), roundPoint(to), white)
	}

	return &PlateResult{
		Image:     eroded,
		Rect:      rect,
		Threshold: threshold,
		Points:    len(points),
	}, nil
}

// MinAreaRect returns the smallest-area rectangle, at any rotation, that
// contains every point. It uses rotating calipers over the convex hull, so
// one side of the result lies along a hull edge.
func MinAreaRect(points []image.Point) RotatedRect {
	hull := ConvexHull(points)
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		c := FloatPoint{X: float64(hull[0].X), Y: float64(hull[0].Y)}
		return RotatedRect{Center: c, Corners: [4]FloatPoint{c, c, c, c}}
	}

	vs := make([]r2.Vec, len(hull))
	for i, p := range hull {
		vs[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}

	var (
		best                   RotatedRect
		bestArea               = math.Inf(1)
		minU, maxU, minN, maxN float64
	)
	for i := range vs {
		origin := vs[i]
		edge := r2.Sub(vs[(i+1)%len(vs)], origin)
		if r2.Norm(edge) == 0 {
			continue
		}
		u := r2.Unit(edge)
		n := r2.Vec{X: -u.Y, Y: u.X}

		minU, maxU, minN, maxN = math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
		for _, v := range vs {
			d := r2.Sub(v, origin)
			pu, pn := r2.Dot(d, u), r2.Dot(d, n)
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minN, maxN = math.Min(minN, pn), math.Max(maxN, pn)
		}

		area := (maxU - minU) * (maxN - minN)
		if area >= bestArea {
			continue
		}
		bestArea = area

		corner := func(a, b float64) r2.Vec {
			return r2.Add(origin, r2.Add(r2.Scale(a, u), r2.Scale(b, n)))
		}
		cs := [4]r2.Vec{corner(minU, minN), corner(maxU, minN), corner(maxU, maxN), corner(minU, maxN)}
		center := r2.Scale(0.5, r2.Add(cs[0], cs[2]))

		best = RotatedRect{
			Center: FloatPoint{X: center.X, Y: center.Y},
			Width:  maxU - minU,
			Height: maxN - minN,
			Angle:  math.Atan2(u.Y, u.X) * 180 / math.Pi,
		}
		for k, c := range cs {
			best.Corners[k] = FloatPoint{X: c.X, Y: c.Y}
		}
	}
	return best
}

// ConvexHull returns the convex hull of points in counterclockwise order
// (on a y-down image: clockwise on screen), without collinear points.
// Duplicates are ignored.
func ConvexHull(points []image.Point) []image.Point {
	ps := make([]image.Point, len(points))
	copy(ps, points)
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})

	uniq := ps[:0]
	for i, p := range ps {
		if i == 0 || p != ps[i-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func roundPoint(p FloatPoint) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
