// Package textmask turns a photographed plate or sign into a binary mask of
// its text, ready for OCR.
//
// # Pipeline
//
//  1. Pad the image with a black border (50 pixels by default).
//  2. Run Canny on each RGB channel and OR the edge maps.
//  3. Extract the contour forest from the edge map.
//  4. Select glyph-like contours (see package detection).
//  5. Binarize each selected box into a mask that starts all white.
//
// # Binarization
//
// Each region gets its own threshold. The foreground level is the mean luma
// along the contour and the background level is the median of twelve
// samples just outside the box corners. When the foreground is at least as
// bright as the background the glyph is painted white on black, otherwise
// black on white. Inside the box, a pixel brighter than the foreground level
// takes the background fill and every other pixel the foreground fill.
//
// Samples and fills both read the padded image, so contour points, boxes and
// mask pixels share one coordinate space.
package textmask
