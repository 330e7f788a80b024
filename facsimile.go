// Package facsimile converts paginated documents into fixed-layout EPUB 3
// packages that reproduce the source geometry page for page.
//
// A conversion run has three stages. Extraction pulls positioned text
// lines and images out of a source document, flipping coordinates from the
// source's bottom-left origin into top-left CSS space. Generation lays
// every page out as a pre-paginated XHTML document with absolutely
// positioned frames and packs the result into an EPUB container.
// Validation then re-reads the finished package and compares it against
// the source, reporting defects and degradations separately.
//
// The entry point is [FromReader]:
//
//	result, err := facsimile.FromReader(src, "book.pdf").
//		Output("book.epub").
//		Workers(4).
//		Run()
//
// Sources reach the converter through the reader.DocumentReader boundary;
// any backend able to enumerate pages, glyphs, and embedded images can
// drive a conversion.
package facsimile

// Must panics if err is non-nil, for use in examples and program setup
// where a conversion failure is unrecoverable.
func Must(result *Result, err error) *Result {
	if err != nil {
		panic(err)
	}
	return result
}
