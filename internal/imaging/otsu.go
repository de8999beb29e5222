package imaging

import (
	"image"
	"image/color"
)

// OtsuThreshold picks the global threshold that maximises the inter-class
// variance of gray's intensity histogram.
// https://en.wikipedia.org/wiki/Otsu%27s_method
func OtsuThreshold(gray *image.Gray) uint8 {
	histo := intensityHistogram(gray)

	totalPixels := gray.Bounds().Dx() * gray.Bounds().Dy()

	var totalWeightedSum int
	for level, pixels := range histo {
		totalWeightedSum += level * pixels
	}

	var (
		// Best threshold and inter-class variance so far.
		bestThreshold uint8
		bestVariance  float64

		// How many dark pixels are <= threshold, and their intensity sum.
		darkPixels      int
		darkWeightedSum int
	)
	for level, pixels := range histo {
		darkPixels += pixels
		darkWeightedSum += level * pixels

		lightPixels := totalPixels - darkPixels
		lightWeightedSum := totalWeightedSum - darkWeightedSum

		// Every pixel is on one side so far; no split to score.
		if darkPixels == 0 || lightPixels == 0 {
			continue
		}

		darkMean := float64(darkWeightedSum) / float64(darkPixels)
		lightMean := float64(lightWeightedSum) / float64(lightPixels)

		diff := darkMean - lightMean
		variance := float64(darkPixels) * float64(lightPixels) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = uint8(level)
		}
	}

	return bestThreshold
}

// ThresholdInverse binarizes gray at its Otsu threshold with inverted
// polarity: pixels above the threshold become 0, the rest 255. Dark ink on a
// light plate therefore comes out as white foreground.
func ThresholdInverse(gray *image.Gray) (*image.Gray, uint8) {
	threshold := OtsuThreshold(gray)

	bounds := gray.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				dst.SetGray(x, y, color.Gray{Y: 0})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst, threshold
}

func intensityHistogram(gray *image.Gray) [256]int {
	var histo [256]int

	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histo[gray.GrayAt(x, y).Y]++
		}
	}

	return histo
}
