package model

import "math"

// BBox is an axis-aligned bounding box in target (top-left origin) space.
// X0/Y0 is the top-left corner, X1/Y1 the bottom-right corner, so X1 >= X0
// and Y1 >= Y0 for a valid box.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box from two corner coordinates, normalizing
// so that X0 <= X1 and Y0 <= Y1.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// IsValid returns true if the box has positive area.
func (b BBox) IsValid() bool {
	return b.X1 > b.X0 && b.Y1 > b.Y0
}

// FlipY converts a vertical extent between bottom-left-origin (PDF) space
// and top-left-origin (CSS) space on a page of the given height. ySrc0 and
// ySrc1 are the two edges of the extent in source space; the returned pair
// is the same extent in target space, low edge first.
//
// The transform is involutive: applying it twice with the same page height
// returns the original extent.
func FlipY(ySrc0, ySrc1, pageHeight float64) (float64, float64) {
	return pageHeight - ySrc1, pageHeight - ySrc0
}

// FlipRect converts a box between bottom-left-origin and top-left-origin
// space on a page of the given height. Horizontal coordinates are unchanged.
func FlipRect(b BBox, pageHeight float64) BBox {
	y0, y1 := FlipY(b.Y0, b.Y1, pageHeight)
	return BBox{X0: b.X0, Y0: y0, X1: b.X1, Y1: y1}
}
