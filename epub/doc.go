// Package epub generates fixed-layout EPUB 3 packages from extracted page
// contents.
//
// Every source page becomes one pre-paginated XHTML document whose frames
// reproduce the source geometry: image frames first, text frames on top,
// all absolutely positioned in points. The package document declares the
// rendition as pre-paginated portrait with no synthetic spreads, and the
// finished container is archived with the mimetype marker as its first,
// uncompressed entry.
package epub
