package imaging

import (
	"image"
	"image/color"
)

// Luma weights applied to 8-bit channels.
const (
	lumaR = 0.30
	lumaG = 0.59
	lumaB = 0.11
)

// Luma returns the perceptual brightness of the pixel at (x, y).
//
// Coordinates outside img.Bounds() yield 0. This is the single place the
// out-of-bounds contract lives; callers never check bounds themselves.
func Luma(img image.Image, x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0
	}
	return lumaOf(img.At(x, y))
}

// LumaAt is Luma for an image.Point.
func LumaAt(img image.Image, p image.Point) uint8 {
	return Luma(img, p.X, p.Y)
}

func lumaOf(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := float64(r>>8), float64(g>>8), float64(b>>8)
	return uint8(lumaR*r8 + lumaG*g8 + lumaB*b8)
}

// ToGray converts an image to 8-bit grayscale using the package luma weights.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.SetGray(x, y, color.Gray{Y: lumaOf(img.At(x, y))})
		}
	}
	return gray
}

// SplitChannels separates an image into its red, green and blue planes.
//
// Each plane is an 8-bit grayscale image with the same bounds as img.
func SplitChannels(img image.Image) [3]*image.Gray {
	bounds := img.Bounds()
	planes := [3]*image.Gray{
		image.NewGray(bounds),
		image.NewGray(bounds),
		image.NewGray(bounds),
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			planes[0].SetGray(x, y, color.Gray{Y: uint8(r >> 8)})
			planes[1].SetGray(x, y, color.Gray{Y: uint8(g >> 8)})
			planes[2].SetGray(x, y, color.Gray{Y: uint8(b >> 8)})
		}
	}
	return planes
}
