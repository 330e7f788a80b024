// Package model provides the intermediate representation for content
// extracted from a paginated source document.
//
// All coordinates in this package are in target space: origin at the
// top-left corner of the page, y increasing downward, matching CSS absolute
// positioning. Conversion from the source document's bottom-left-origin
// space happens once, during extraction, via [FlipY] and [FlipRect].
//
// The central type is [PageContent], one per source page, holding ordered
// [TextElement] and [ImageElement] slices. A document is simply the slice
// of its pages plus a [DocumentMetadata]; page numbers are 1-indexed and
// contiguous, which [Contiguous] verifies.
//
// Values in this package are created by the extractor and read-only
// afterwards; nothing downstream mutates them.
package model
