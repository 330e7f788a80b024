package epubdoc

import "time"

// Package is the parsed OPF package document.
type Package struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // keyed by ID
	Spine    []SpineItem
	Version  string // "2.0" or "3.0"
}

// Metadata contains the package's Dublin Core metadata plus the rendition
// properties relevant to fixed-layout output.
type Metadata struct {
	Title      string
	Creator    []string
	Language   string
	Identifier string
	Modified   time.Time

	// Layout is the rendition:layout property ("pre-paginated" or
	// "reflowable"), empty when the package does not declare one.
	Layout string

	// Viewport is the rendition:viewport property, empty when absent.
	Viewport string
}

// ManifestItem is one file declared by the package manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string // "nav", "cover-image", etc.
}

// SpineItem is one content document in reading order.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// MimetypeInfo describes the mimetype marker entry of an archive, kept
// separate from pass/fail so callers can report exactly what is wrong.
type MimetypeInfo struct {
	Present bool
	First   bool   // first entry in the archive
	Stored  bool   // written without compression
	Content string // raw entry bytes
}

// Valid reports whether the marker satisfies the container requirements:
// first entry, stored, byte-exact content.
func (m MimetypeInfo) Valid() bool {
	return m.Present && m.First && m.Stored && m.Content == "application/epub+zip"
}
