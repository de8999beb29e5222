package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
)

// Erode shrinks the white foreground of a binary image by replacing each
// pixel with the minimum inside the given radius. A radius <= 0 returns a copy.
// The result is 0-origin regardless of gray's bounds.
func Erode(gray *image.Gray, radius float64) *image.Gray {
	bounds := gray.Bounds()
	if radius <= 0 {
		out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(out, out.Bounds(), gray, bounds.Min, draw.Src)
		return out
	}

	eroded := effect.Erode(gray, radius)
	eb := eroded.Bounds()
	out := image.NewGray(image.Rect(0, 0, eb.Dx(), eb.Dy()))
	for y := 0; y < eb.Dy(); y++ {
		for x := 0; x < eb.Dx(); x++ {
			// Channels are equal on a gray source; red is enough.
			out.SetGray(x, y, color.Gray{Y: eroded.RGBAAt(eb.Min.X+x, eb.Min.Y+y).R})
		}
	}
	return out
}

// ForegroundPoints lists the coordinates of every non-zero pixel in raster
// order.
func ForegroundPoints(gray *image.Gray) []image.Point {
	bounds := gray.Bounds()
	points := make([]image.Point, 0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y != 0 {
				points = append(points, image.Pt(x, y))
			}
		}
	}
	return points
}
