package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createStepImage creates an image that is black left of splitX and white
// from splitX on.
func createStepImage(width, height, splitX int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < splitX {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestCanny_UniformPlane(t *testing.T) {
	img := createInMemoryImage(30, 30, color.RGBA{128, 128, 128, 255})
	edges := Canny(ToGray(img), 200, 250)

	for i, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("uniform plane produced an edge at offset %d", i)
		}
	}
}

func TestCanny_StepIsOnePixelWide(t *testing.T) {
	img := createStepImage(20, 20, 10)
	edges := Canny(SplitChannels(img)[0], 200, 250)

	for y := 1; y < 19; y++ {
		if got := edges.GrayAt(9, y).Y; got != 255 {
			t.Errorf("row %d: expected edge at x=9, got %d", y, got)
		}
		if got := edges.GrayAt(10, y).Y; got != 0 {
			t.Errorf("row %d: expected suppressed pixel at x=10, got %d", y, got)
		}
	}

	// Nothing away from the step.
	for y := 0; y < 20; y++ {
		for _, x := range []int{0, 5, 15, 19} {
			if edges.GrayAt(x, y).Y != 0 {
				t.Errorf("unexpected edge at (%d,%d)", x, y)
			}
		}
	}
}

func TestCanny_HighThresholdRejectsWeakStep(t *testing.T) {
	// A step of 40 gives an L1 gradient of 160, below the 250 seed level.
	plane := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			plane.SetGray(x, y, color.Gray{Y: 40})
		}
	}

	edges := Canny(plane, 200, 250)
	for i, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("weak step produced an edge at offset %d", i)
		}
	}

	// With low thresholds the same step is found.
	edges = Canny(plane, 50, 100)
	if edges.GrayAt(9, 10).Y != 255 {
		t.Error("expected edge at (9,10) with low thresholds")
	}
}

func TestCanny_TinyImage(t *testing.T) {
	plane := image.NewGray(image.Rect(0, 0, 2, 2))
	edges := Canny(plane, 200, 250)
	if edges.Bounds() != plane.Bounds() {
		t.Errorf("bounds: got %v, want %v", edges.Bounds(), plane.Bounds())
	}
}

func TestDetectEdges_ChannelOnlyEdge(t *testing.T) {
	// Equal-luma-ish halves that differ only in hue still produce an edge
	// because each channel is examined on its own.
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	edges := DetectEdges(img, DefaultEdgeOptions())
	if edges.GrayAt(9, 10).Y != 255 {
		t.Error("expected an edge from the red channel at (9,10)")
	}
}

func TestDetectEdges_WithBlur(t *testing.T) {
	img := createStepImage(40, 40, 20)
	opts := EdgeOptions{Low: 50, High: 100, BlurRadius: 1.5}

	edges := DetectEdges(img, opts)
	if edges.Bounds().Dx() != 40 || edges.Bounds().Dy() != 40 {
		t.Fatalf("bounds: got %v, want 40x40", edges.Bounds())
	}

	found := false
	for x := 15; x < 25; x++ {
		if edges.GrayAt(x, 20).Y == 255 {
			found = true
		}
	}
	if !found {
		t.Error("expected an edge near x=20 after blurring")
	}
}

func TestOrEdges(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 3, 3))
	b := image.NewGray(image.Rect(0, 0, 3, 3))
	a.SetGray(0, 0, color.Gray{Y: 255})
	b.SetGray(2, 2, color.Gray{Y: 7})

	out := OrEdges(a, b)
	if out.GrayAt(0, 0).Y != 255 || out.GrayAt(2, 2).Y != 255 {
		t.Error("OrEdges should set every pixel that is non-zero in any map")
	}
	if out.GrayAt(1, 1).Y != 0 {
		t.Error("OrEdges set a pixel that was zero everywhere")
	}

	if got := OrEdges(); !got.Bounds().Empty() {
		t.Errorf("OrEdges(): got bounds %v, want empty", got.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	result, err := EncodePNG(createStepImage(12, 7, 6))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if result.Width != 12 || result.Height != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if _, err := png.Decode(strings.NewReader(string(decoded))); err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
