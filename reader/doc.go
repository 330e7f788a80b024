// Package reader defines the boundary to a paginated document source.
//
// The converter does not parse source documents itself; it consumes any
// backend implementing [DocumentReader], which yields per-page glyph
// primitives, embedded raster images, page dimensions, and document
// metadata. Geometry at this boundary is in the source's own coordinate
// system (bottom-left origin, points); conversion to target space is the
// extractor's job.
//
// [Static] is the bundled implementation, adapting in-memory page data to
// the interface. It backs the test suite and serves as an adapter for
// callers that parse documents with an external library.
package reader
