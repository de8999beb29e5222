package contour

import (
	"image"
)

// Source extracts a contour forest from a binary edge image.
type Source interface {
	Extract(edges *image.Gray) (*Forest, error)
}

// Tracer is the pure Go Source. The zero value is ready to use.
type Tracer struct{}

// NewTracer returns a Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// neighbours lists the 8-neighbourhood clockwise (on a y-down image),
// starting east. Clockwise is increasing index.
var neighbours = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
}

const (
	dirEast = 0
	dirWest = 4
)

// border records what the raster scan knows about a border number.
type border struct {
	hole   bool
	parent int32 // border number of the parent border
	index  int   // forest index, NoLink for the frame
}

// labels is the working raster: a one pixel zero frame around the image.
// 0 is background, 1 an unvisited foreground pixel, and ±n a pixel on border n.
type labels struct {
	f       []int32
	stride  int
	origin  image.Point
	offsets [8]int
}

// Extract follows every border in edges and returns the resulting forest.
//
// Outer borders and hole borders are both reported, in raster discovery
// order. Each border's parent is the innermost border enclosing it, derived
// from the last border crossed on the current row:
//
//	new outer, last outer -> parent of last
//	new outer, last hole  -> last
//	new hole,  last outer -> last
//	new hole,  last hole  -> parent of last
func (t *Tracer) Extract(edges *image.Gray) (*Forest, error) {
	lb := newLabels(edges)
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()

	builder := NewBuilder()
	// Border number 1 is the frame, which behaves as a hole with no parent.
	borders := []border{{}, {hole: true, parent: 0, index: NoLink}}
	nbd := int32(1)

	for y := 1; y <= h; y++ {
		lnbd := int32(1)
		for x := 1; x <= w; x++ {
			p := y*lb.stride + x
			v := lb.f[p]
			if v == 0 {
				continue
			}

			outer := v == 1 && lb.f[p-1] == 0
			hole := !outer && v >= 1 && lb.f[p+1] == 0
			if outer || hole {
				if hole && v > 1 {
					lnbd = v
				}
				nbd++

				last := borders[lnbd]
				parent := lnbd
				if hole == last.hole {
					parent = last.parent
				}

				start := dirWest
				if hole {
					start = dirEast
				}
				points := lb.follow(p, start, nbd)

				var idx int
				if pi := borders[parent].index; pi == NoLink {
					idx = builder.AddRoot(points)
				} else {
					// pi always comes from this builder, so AddChild cannot fail.
					idx, _ = builder.AddChild(pi, points)
				}
				borders = append(borders, border{hole: hole, parent: parent, index: idx})
			}

			if a := lb.f[p]; a != 1 {
				if a < 0 {
					a = -a
				}
				lnbd = a
			}
		}
	}

	return builder.Forest(), nil
}

func newLabels(edges *image.Gray) *labels {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w + 2

	lb := &labels{
		f:      make([]int32, stride*(h+2)),
		stride: stride,
		origin: b.Min,
	}
	for y := 0; y < h; y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+w]
		for x, v := range row {
			if v != 0 {
				lb.f[(y+1)*stride+x+1] = 1
			}
		}
	}
	for d, n := range neighbours {
		lb.offsets[d] = n.Y*stride + n.X
	}
	return lb
}

// point converts a raster offset back to image coordinates.
func (lb *labels) point(p int) image.Point {
	return image.Pt(p%lb.stride-1+lb.origin.X, p/lb.stride-1+lb.origin.Y)
}

// direction returns the neighbour index that leads from p to q.
func (lb *labels) direction(p, q int) int {
	delta := q - p
	for d, off := range lb.offsets {
		if off == delta {
			return d
		}
	}
	return dirEast
}

// follow traces the border starting at p0 and labels it with nbd. start is
// the direction of the known background neighbour the border starts from.
func (lb *labels) follow(p0, start int, nbd int32) Contour {
	f := lb.f

	// Look clockwise from the background neighbour for any foreground pixel.
	p1 := -1
	for k := 0; k < 8; k++ {
		q := p0 + lb.offsets[(start+k)%8]
		if f[q] != 0 {
			p1 = q
			break
		}
	}
	if p1 < 0 {
		// Isolated pixel.
		f[p0] = -nbd
		return Contour{lb.point(p0)}
	}

	points := make(Contour, 0, 16)
	p2, p3 := p1, p0
	for {
		points = append(points, lb.point(p3))

		// Examine counterclockwise, starting after p2, for the next pixel.
		d2 := lb.direction(p3, p2)
		eastZero := false
		p4 := p2
		for k := 1; k <= 8; k++ {
			d := (d2 - k + 8) % 8
			q := p3 + lb.offsets[d]
			if f[q] != 0 {
				p4 = q
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		switch {
		case eastZero:
			f[p3] = -nbd
		case f[p3] == 1:
			f[p3] = nbd
		}

		if p4 == p0 && p3 == p1 {
			return points
		}
		p2, p3 = p3, p4
	}
}
