package model

// TextElement is a single extracted line of text with its position in
// target (top-left origin) coordinates. Elements are created once during
// extraction and are read-only afterwards.
type TextElement struct {
	Text       string
	X0         float64 // Left edge
	Y0         float64 // Top edge
	X1         float64 // Right edge
	Y1         float64 // Bottom edge
	FontName   string
	FontSize   float64
	Bold       bool
	Italic     bool
	LineHeight float64
	PageNum    int // 1-indexed
}

// BBox returns the element's bounding box.
func (t TextElement) BBox() BBox {
	return BBox{X0: t.X0, Y0: t.Y0, X1: t.X1, Y1: t.Y1}
}

// ImageElement is a single extracted raster image with its position in
// target (top-left origin) coordinates. Path is a bare filename, unique
// within the package's image directory; the image bytes live on disk and
// are referenced, never copied, by downstream consumers.
type ImageElement struct {
	Path    string
	X0      float64
	Y0      float64
	X1      float64
	Y1      float64
	Width   float64 // X1 - X0
	Height  float64 // Y1 - Y0
	PageNum int
}

// BBox returns the element's bounding box.
func (i ImageElement) BBox() BBox {
	return BBox{X0: i.X0, Y0: i.Y0, X1: i.X1, Y1: i.Y1}
}
