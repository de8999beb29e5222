// Package detection decides which contours of an edge image are likely text
// glyphs.
//
// # Region Predicate
//
// Keep accepts a contour when its bounding box has a glyph-like shape and the
// outline is closed:
//
//   - width/height ratio in [0.1, 10]
//   - box area at least 15 square pixels and at most a fifth of the image
//   - first and last point within one pixel on both axes
//
// # Hierarchy
//
// CountChildren counts kept contours below a contour: its first child, that
// child's siblings in both directions, and everything nested under them.
// The walk uses an explicit stack bounded by Options.MaxDepth.
//
// SelectRegions accepts a contour when it is kept, contains at most
// MaxChildren kept descendants, and no enclosing contour fails Keep.
// Evaluate reports the same judgement for every contour.
//
// # Index zero
//
// Forests from OpenCV encode absent relations as -1, and some callers walk
// them with "index > 0" loops that never visit contour 0. TraversalCompat
// reproduces that. TraversalStrict, the default, treats 0 like any other
// contour.
//
// # Plate bounds
//
// PlateBounds is a separate helper: Otsu threshold, erosion and a
// minimum-area rotated rectangle around the remaining foreground.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection
