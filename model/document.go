package model

// unknownField is the placeholder used when the source document carries no
// title or author metadata.
const unknownField = "Unknown"

// DocumentMetadata is document-level information derived once from the
// source document.
type DocumentMetadata struct {
	TotalPages int
	Title      string
	Author     string
}

// NewDocumentMetadata builds metadata with missing fields defaulted.
func NewDocumentMetadata(totalPages int, title, author string) DocumentMetadata {
	if title == "" {
		title = unknownField
	}
	if author == "" {
		author = unknownField
	}
	return DocumentMetadata{TotalPages: totalPages, Title: title, Author: author}
}

// HasAuthor reports whether the author field carries real information
// rather than the "Unknown" placeholder.
func (m DocumentMetadata) HasAuthor() bool {
	return m.Author != "" && m.Author != unknownField
}
