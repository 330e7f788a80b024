// Package extract turns a paginated document source into the in-memory page
// model consumed by the fixed-layout generator.
//
// For every page it groups glyph primitives into visual lines (same-row
// glyphs merged left to right, lines ordered top to bottom), converts all
// geometry from the source's bottom-left origin to top-left origin,
// normalizes and persists embedded images as PNG files, and renders a
// full-page reference snapshot where the source supports rasterization.
// Recoverable per-item failures surface as [Warning] values rather than
// errors.
package extract
