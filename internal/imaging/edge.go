package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// EdgeOptions controls DetectEdges.
type EdgeOptions struct {
	// Low is the hysteresis low threshold on the L1 gradient magnitude.
	// Pixels below Low are never edges.
	Low float64

	// High is the hysteresis high threshold. Pixels at or above High are
	// strong edges and seed edge tracking.
	High float64

	// BlurRadius applies a Gaussian pre-blur when greater than zero.
	BlurRadius float64
}

// DefaultEdgeOptions returns the thresholds the text mask pipeline was tuned
// with (200 / 250, no blur).
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{Low: 200, High: 250}
}

// EncodedImage contains an image encoded as base64 PNG.
type EncodedImage struct {
	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG result.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// DetectEdges runs Canny on each RGB channel separately and ORs the three
// edge maps together.
//
// Working per channel keeps edges between regions of equal luma but
// different hue, which a plain grayscale conversion would lose. The result is
// a binary image: 255 on edges, 0 elsewhere, with the same bounds as img.
func DetectEdges(img image.Image, opts EdgeOptions) *image.Gray {
	if opts.BlurRadius > 0 {
		img = blur.Gaussian(img, opts.BlurRadius)
	}

	planes := SplitChannels(img)
	maps := make([]*image.Gray, 0, len(planes))
	for _, plane := range planes {
		maps = append(maps, Canny(plane, opts.Low, opts.High))
	}
	return OrEdges(maps...)
}

// Canny performs Canny edge detection on a single 8-bit plane.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators on raw 0-255 values,
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: keep a pixel only if its magnitude is
//     strictly greater than the neighbour behind it and at least the
//     neighbour ahead of it along the gradient direction. The asymmetric
//     comparison thins plateaus to a single pixel.
//
//  3. Hysteresis: pixels with magnitude >= high are strong edges; pixels
//     with magnitude > low are kept when 8-connected to a strong edge
//     through other kept pixels.
//
// Border rows and columns are never edges.
func Canny(plane *image.Gray, low, high float64) *image.Gray {
	bounds := plane.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(bounds)
	if width < 3 || height < 3 {
		return result
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(plane.Pix[y*plane.Stride+x])
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			magnitude[y*width+x] = math.Abs(gx) + math.Abs(gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			mag := magnitude[y*width+x]
			if mag <= low {
				continue
			}
			angle := direction[y*width+x]

			// n1 is behind the pixel along the gradient, n2 ahead of it.
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude[y*width+x-1]
				n2 = magnitude[y*width+x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude[(y-1)*width+x-1]
				n2 = magnitude[(y+1)*width+x+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude[(y-1)*width+x]
				n2 = magnitude[(y+1)*width+x]
			default:
				n1 = magnitude[(y+1)*width+x-1]
				n2 = magnitude[(y-1)*width+x+1]
			}

			if mag > n1 && mag >= n2 {
				suppressed[y*width+x] = mag
			}
		}
	}

	// Edge tracking by hysteresis
	stack := make([]int, 0, 64)
	for i, v := range suppressed {
		if v >= high && result.Pix[(i/width)*result.Stride+i%width] == 0 {
			result.Pix[(i/width)*result.Stride+i%width] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jx, jy := j%width, j/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := jx+dx, jy+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					if suppressed[k] > low && result.Pix[ny*result.Stride+nx] == 0 {
						result.Pix[ny*result.Stride+nx] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}

	return result
}

// OrEdges combines binary edge maps with the same bounds.
func OrEdges(maps ...*image.Gray) *image.Gray {
	if len(maps) == 0 {
		return image.NewGray(image.Rectangle{})
	}
	out := image.NewGray(maps[0].Bounds())
	for _, m := range maps {
		b := m.Bounds().Intersect(out.Bounds())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if m.GrayAt(x, y).Y != 0 {
					out.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
