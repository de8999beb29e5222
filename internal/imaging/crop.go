package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion extracts box plus margin pixels on every side from img,
// optionally rescaled.
//
// The expanded rectangle is clipped to the image, so boxes touching the edge
// are still returned. Nearest-neighbour resampling is used so binary masks
// stay binary after scaling.
func CropRegion(img image.Image, box image.Rectangle, margin int, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()
	if margin < 0 {
		margin = 0
	}

	r := box.Inset(-margin).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", box, bounds)
	}

	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.3f collapses crop %v to nothing", scale, r)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.NearestNeighbor)
	}

	return EncodePNG(cropped)
}
