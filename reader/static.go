package reader

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Static is a DocumentReader over in-memory page data. It adapts content
// that has already been parsed elsewhere (or constructed by hand, as in
// tests) to the DocumentReader boundary.
//
// A Static value is safe for concurrent page access and may be re-read any
// number of times.
type Static struct {
	Info  Metadata
	Pages []StaticPage
}

// StaticPage is the backing data for one page of a Static reader.
type StaticPage struct {
	W, H      float64
	GlyphList []Glyph
	ImageList []ImageRef

	// RenderErr, when set, makes Render fail; useful for exercising the
	// non-fatal snapshot path.
	RenderErr error
}

var _ DocumentReader = (*Static)(nil)

// PageCount returns the number of pages.
func (s *Static) PageCount() (int, error) {
	return len(s.Pages), nil
}

// Page returns the page at the given 0-based index.
func (s *Static) Page(index int) (Page, error) {
	if index < 0 || index >= len(s.Pages) {
		return nil, ErrPageOutOfRange
	}
	return &s.Pages[index], nil
}

// Metadata returns the document metadata.
func (s *Static) Metadata() (Metadata, error) {
	return s.Info, nil
}

// Close is a no-op for in-memory data.
func (s *Static) Close() error {
	return nil
}

// Width returns the page width in points.
func (p *StaticPage) Width() float64 { return p.W }

// Height returns the page height in points.
func (p *StaticPage) Height() float64 { return p.H }

// Glyphs returns the page's glyphs.
func (p *StaticPage) Glyphs() []Glyph { return p.GlyphList }

// Images returns the page's embedded images.
func (p *StaticPage) Images() []ImageRef { return p.ImageList }

// Render produces a blank white raster of the page at the given resolution.
// Static pages carry no drawable content stream, so the snapshot is the
// page canvas only.
func (p *StaticPage) Render(dpi float64) (image.Image, error) {
	if p.RenderErr != nil {
		return nil, p.RenderErr
	}
	if dpi <= 0 || p.W <= 0 || p.H <= 0 {
		return nil, ErrRenderUnsupported
	}

	// Points are 1/72 inch.
	w := int(math.Ceil(p.W * dpi / 72))
	h := int(math.Ceil(p.H * dpi / 72))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img, nil
}
