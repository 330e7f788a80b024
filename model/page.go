package model

import "unicode/utf8"

// PageContent holds everything extracted from a single source page.
// Texts and Images keep their extraction order; that order is the stacking
// contract honored by the generator (images behind, text in front).
type PageContent struct {
	PageNum int     // 1-indexed, contiguous across a document
	Width   float64 // Page width in points
	Height  float64 // Page height in points

	Texts  []TextElement
	Images []ImageElement

	// BackgroundImage is the filename of the full-page reference snapshot,
	// empty when rendering the snapshot failed. Snapshots are diagnostic
	// work-directory assets; they are never packaged.
	BackgroundImage string
}

// TextLength returns the total number of text characters on the page.
func (p *PageContent) TextLength() int {
	n := 0
	for _, t := range p.Texts {
		n += utf8.RuneCountInString(t.Text)
	}
	return n
}

// Contiguous reports whether pages carry page numbers exactly 1..len(pages)
// in order, with no gaps or duplicates.
func Contiguous(pages []PageContent) bool {
	for i := range pages {
		if pages[i].PageNum != i+1 {
			return false
		}
	}
	return true
}
