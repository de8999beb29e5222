package textmask

import (
	"image"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/textmask/internal/detection"
	"github.com/ironsheep/textmask/internal/imaging"
)

// Mask values.
const (
	White uint8 = 255
	Black uint8 = 0
)

// Estimate is the local intensity model of one region.
type Estimate struct {
	// Foreground is the mean luma along the region's contour.
	Foreground float64 `json:"foreground"`

	// Background is the median luma of the ring samples around the box
	// corners.
	Background float64 `json:"background"`

	// ForegroundFill is painted where a pixel is no brighter than
	// Foreground, BackgroundFill everywhere else in the box.
	ForegroundFill uint8 `json:"foreground_fill"`
	BackgroundFill uint8 `json:"background_fill"`
}

// BrightText reports whether the glyph is lighter than its surroundings.
func (e Estimate) BrightText() bool {
	return e.ForegroundFill == White
}

// NewMask returns a mask covering bounds with every pixel White.
func NewMask(bounds image.Rectangle) *image.Gray {
	mask := image.NewGray(bounds)
	for i := range mask.Pix {
		mask.Pix[i] = White
	}
	return mask
}

// RingSamples returns the luma of the three pixels outside each corner of
// box: the diagonal neighbour and the two edge neighbours. Corners are
// visited top-left, top-right, bottom-left, bottom-right. Samples outside
// src are 0.
func RingSamples(src image.Image, box image.Rectangle) [12]uint8 {
	left, top := box.Min.X-1, box.Min.Y-1
	right, bottom := box.Max.X, box.Max.Y
	lastX, lastY := box.Max.X-1, box.Max.Y-1

	points := [12]image.Point{
		{left, top}, {left, box.Min.Y}, {box.Min.X, top},
		{right, top}, {right, box.Min.Y}, {lastX, top},
		{left, bottom}, {left, lastY}, {box.Min.X, bottom},
		{right, bottom}, {lastX, bottom}, {right, lastY},
	}

	var samples [12]uint8
	for i, p := range points {
		samples[i] = imaging.LumaAt(src, p)
	}
	return samples
}

// median of an even number of samples is the mean of the middle two.
func median(samples [12]uint8) float64 {
	s := samples[:]
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	n := len(s)
	return (float64(s[n/2-1]) + float64(s[n/2])) / 2
}

// EstimateRegion samples src around r and decides the region's polarity.
func EstimateRegion(src image.Image, r detection.Region) Estimate {
	lumas := make([]float64, len(r.Points))
	for i, p := range r.Points {
		lumas[i] = float64(imaging.LumaAt(src, p))
	}

	e := Estimate{Background: median(RingSamples(src, r.Box))}
	if len(lumas) > 0 {
		e.Foreground = stat.Mean(lumas, nil)
	}

	if e.Foreground >= e.Background {
		e.ForegroundFill, e.BackgroundFill = White, Black
	} else {
		e.ForegroundFill, e.BackgroundFill = Black, White
	}
	return e
}

// Binarize paints each region's box into mask, in order, thresholding every
// pixel of src against the region's own foreground estimate. Boxes are
// clipped to mask; where boxes overlap the later region wins. It returns the
// estimate used for each region.
func Binarize(src image.Image, regions []detection.Region, mask *image.Gray) []Estimate {
	estimates := make([]Estimate, len(regions))
	for i, r := range regions {
		if len(r.Points) == 0 {
			continue
		}
		e := EstimateRegion(src, r)
		estimates[i] = e

		area := r.Box.Intersect(mask.Bounds())
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				fill := e.ForegroundFill
				if float64(imaging.Luma(src, x, y)) > e.Foreground {
					fill = e.BackgroundFill
				}
				mask.SetGray(x, y, color.Gray{Y: fill})
			}
		}
	}
	return estimates
}
