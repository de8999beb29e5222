//go:build gocv

package contour

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

func init() {
	register("opencv", func() Source { return NewOpenCV() })
}

// OpenCV is a Source backed by OpenCV's findContours in tree retrieval mode
// with every border point kept.
type OpenCV struct{}

// NewOpenCV returns an OpenCV-backed Source.
func NewOpenCV() *OpenCV {
	return &OpenCV{}
}

// Extract runs findContours on edges and converts the hierarchy into a Forest.
func (o *OpenCV) Extract(edges *image.Gray) (*Forest, error) {
	b := edges.Bounds()
	if b.Empty() {
		return NewBuilder().Forest(), nil
	}

	// Mats are built from a tightly packed 0-origin buffer.
	packed := edges
	if edges.Stride != b.Dx() || b.Min != (image.Point{}) {
		packed = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(packed, packed.Bounds(), edges, b.Min, draw.Src)
	}

	src, err := gocv.ImageGrayToMatGray(packed)
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge image to Mat: %w", err)
	}
	defer src.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	found := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer found.Close()

	n := found.Size()
	contours := make([]Contour, n)
	links := make([]Links, n)
	for i := 0; i < n; i++ {
		pts := found.At(i).ToPoints()
		c := make(Contour, len(pts))
		for j, p := range pts {
			c[j] = p.Add(b.Min)
		}
		contours[i] = c

		// OpenCV hierarchy entries are [next, previous, first child, parent].
		h := hierarchy.GetVeciAt(0, i)
		links[i] = Links{
			Next:   int(h[0]),
			Prev:   int(h[1]),
			Child:  int(h[2]),
			Parent: int(h[3]),
		}
	}

	return NewForest(contours, links)
}
