// Package contour extracts closed contours and their containment hierarchy
// from binary edge images.
//
// A Forest is an arena of contours addressed by index. Each contour knows its
// parent (the enclosing border), its first child, and its next and previous
// siblings among contours that share a parent. Top-level contours are siblings
// of one another. Relations are read through accessors returning (index, ok)
// so "no relation" is never confused with index 0.
//
// # Sources
//
// The Source interface is the boundary between the text mask pipeline and
// whatever performs border following:
//
//   - Tracer: pure Go implementation of Suzuki and Abe's topological border
//     following (the algorithm behind OpenCV's RETR_TREE mode), emitting every
//     border pixel.
//   - OpenCV: gocv.FindContoursWithParams with RetrievalTree and
//     ChainApproxNone. Only built with the "gocv" build tag.
//
// NewSource picks a Source by name ("tracer", or "opencv" in gocv builds).
//
// Both sources treat any non-zero pixel as foreground and the area outside the
// image as background.
//
// # Coordinate System
//
// Contour points use the absolute coordinates of the source image's bounds.
// Bounding boxes follow image.Rectangle semantics: Min inclusive, Max
// exclusive, so a single pixel contour has a 1x1 box.
package contour
