package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)

	tests := []struct {
		name          string
		box           image.Rectangle
		margin        int
		scale         float64
		width, height int
	}{
		{"interior with margin", image.Rect(5, 5, 10, 10), 2, 1.0, 9, 9},
		{"clipped at corner", image.Rect(0, 0, 3, 3), 2, 1.0, 5, 5},
		{"no margin", image.Rect(4, 6, 12, 9), 0, 1.0, 8, 3},
		{"scaled up", image.Rect(5, 5, 10, 10), 2, 2.0, 18, 18},
		{"negative margin treated as zero", image.Rect(5, 5, 10, 10), -4, 1.0, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CropRegion(img, tt.box, tt.margin, tt.scale)
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			if result.Width != tt.width || result.Height != tt.height {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.width, tt.height)
			}
		})
	}
}

func TestCropRegion_OutsideImage(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	if _, err := CropRegion(img, image.Rect(30, 30, 40, 40), 1, 1.0); err == nil {
		t.Error("expected error for a box outside the image")
	}
}

func TestCropRegion_ScaleToNothing(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	if _, err := CropRegion(img, image.Rect(0, 0, 2, 2), 0, 0.1); err == nil {
		t.Error("expected error when scaling collapses the crop")
	}
}
