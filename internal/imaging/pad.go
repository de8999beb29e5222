package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Pad surrounds img with a constant black border of the given width on every
// side. The result is always 0-origin, so a source pixel at (x, y) relative to
// its own bounds lands at (x+border, y+border).
func Pad(img image.Image, border int) *image.NRGBA {
	if border < 0 {
		border = 0
	}
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx()+2*border, bounds.Dy()+2*border, color.Black)
	return imaging.Paste(canvas, img, image.Pt(border, border))
}
