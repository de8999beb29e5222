// Package imaging provides the pixel-level collaborators of the text mask
// pipeline.
//
// This package implements image loading and caching, bounds-checked luma
// sampling, constant border padding, per-channel Canny edge detection, Otsu
// thresholding, erosion, region cropping, and region annotation. All operations
// work with standard Go image.Image types and use a coordinate system where
// (0,0) is at the top-left corner, X increases rightward, and Y increases
// downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based absolute coordinates in
// the image's own bounds:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For rectangles, Min is inclusive and Max is exclusive
//
// # Luma
//
// Luma is computed with the weights 0.30 R + 0.59 G + 0.11 B on 8-bit
// channels and truncated to an integer. Sampling outside the image bounds is
// not an error: Luma returns 0 for any out-of-bounds coordinate.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images. Images
// returned by this package are freshly allocated and owned by the caller.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Crop regions that are empty or outside the image
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
