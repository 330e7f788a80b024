package reader

import (
	"errors"
	"image"
)

// Reader-related errors.
var (
	// ErrPageOutOfRange indicates a page index outside 0..PageCount-1.
	ErrPageOutOfRange = errors.New("reader: page index out of range")

	// ErrRenderUnsupported indicates the reader cannot rasterize pages.
	ErrRenderUnsupported = errors.New("reader: page rendering not supported")
)

// DocumentReader is the boundary to a paginated document source. A parsing
// backend (or an in-memory adapter such as [Static]) yields page geometry,
// glyph-level text primitives, embedded raster images, and document
// metadata; everything downstream of this interface is source-agnostic.
//
// Pages may be requested repeatedly and in any order. Implementations must
// support concurrent calls to Page when used with parallel extraction.
type DocumentReader interface {
	// PageCount returns the total number of pages.
	PageCount() (int, error)

	// Page returns the page at the given 0-based index.
	Page(index int) (Page, error)

	// Metadata returns document-level title/author information.
	// Missing fields are empty strings.
	Metadata() (Metadata, error)

	// Close releases resources held by the reader.
	Close() error
}

// Page exposes the content of a single source page. All geometry is in the
// source coordinate system: origin at the bottom-left corner of the page,
// y increasing upward, units in points.
type Page interface {
	// Width returns the page width in points.
	Width() float64

	// Height returns the page height in points.
	Height() float64

	// Glyphs returns the page's text primitives in content-stream order.
	Glyphs() []Glyph

	// Images returns the page's embedded raster images in content-stream
	// order.
	Images() []ImageRef

	// Render rasterizes the full page at the given resolution.
	Render(dpi float64) (image.Image, error)
}

// Glyph is a single positioned text primitive with a tight bounding box.
// Y0 is the bottom edge and Y1 the top edge in bottom-left-origin space.
type Glyph struct {
	Text     string
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	FontName string
	FontSize float64
}

// ImageRef is an embedded raster image: its placement box in source
// coordinates plus the encoded image bytes as stored in the document.
// Decoding Data may fail; callers treat that as a per-item condition.
type ImageRef struct {
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
	Data []byte
}

// Metadata is document-level information as reported by the source.
type Metadata struct {
	Title  string
	Author string
}
