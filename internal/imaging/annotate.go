package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotateRegions draws the outline of every box over a copy of img, each in
// its own colour, with the box's index printed just inside its top-left
// corner. Boxes are drawn in order, so later boxes paint over earlier ones
// where they overlap.
func AnnotateRegions(img image.Image, boxes []image.Rectangle) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	if len(boxes) == 0 {
		return result
	}

	labelBg := color.RGBA{0, 0, 0, 180}

	for i, box := range boxes {
		c := RegionColor(i, len(boxes))
		drawRect(result, box, c)
		drawLabel(result, box.Min.X+1, box.Min.Y+1, strconv.Itoa(i), c, labelBg)
	}

	return result
}

// RegionColor returns the outline colour of box i out of n. Hues are spread
// evenly around the wheel at fixed saturation and value so the same inputs
// always render the same picture.
func RegionColor(i, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	hue := 360 * float64(i%n) / float64(n)
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawRect draws a one-pixel outline along the inside edge of r, clipped to
// the image.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	bounds := img.Bounds()
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetRGBA(x, y, c)
		}
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y-1)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X-1, y)
	}
}

// DrawLine draws a straight segment between two points with Bresenham's
// algorithm, clipped to the image.
func DrawLine(img *image.Gray, from, to image.Point, c color.Gray) {
	bounds := img.Bounds()
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetGray(x, y, c)
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// drawLabel prints text in the 7x13 basic font on a bg plate whose top-left
// corner is (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	plate := image.Rect(x, y, x+width+2, y+height).Intersect(img.Bounds())
	draw.Draw(img, plate, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x+1, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
