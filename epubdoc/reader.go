package epubdoc

import (
	"archive/zip"
	"errors"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
)

// Reader-related errors.
var (
	ErrInvalidArchive = errors.New("epubdoc: invalid or corrupted archive")
	ErrMissingEntry   = errors.New("epubdoc: entry not found")
)

// pageDocPattern matches per-page content documents (page001.xhtml, ...).
// Page numbers are zero-padded to three digits but grow past that for
// documents with 1000+ pages.
var pageDocPattern = regexp.MustCompile(`^page\d{3,}\.xhtml$`)

// Reader provides read access to a generated EPUB container for
// inspection. Opening only requires a readable archive; structural
// problems (bad mimetype marker, missing container.xml, malformed package
// document) are surfaced by the individual accessors so callers can report
// every defect rather than stop at the first.
type Reader struct {
	zr       *zip.ReadCloser
	zrReader *zip.Reader
	mimetype MimetypeInfo

	pkg    *Package
	pkgErr error
	parsed bool
}

// Open opens an EPUB container from a path.
func Open(filePath string) (*Reader, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, ErrInvalidArchive
	}
	r := &Reader{zr: zr}
	r.init(&zr.Reader)
	return r, nil
}

// OpenReader opens an EPUB container from an io.ReaderAt.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, ErrInvalidArchive
	}
	r := &Reader{zrReader: zr}
	r.init(zr)
	return r, nil
}

func (r *Reader) init(zr *zip.Reader) {
	for i, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		r.mimetype.Present = true
		r.mimetype.First = i == 0
		r.mimetype.Stored = f.Method == zip.Store
		if data, err := readEntry(f); err == nil {
			r.mimetype.Content = string(data)
		}
		break
	}
}

// Close closes the underlying archive.
func (r *Reader) Close() error {
	if r.zr != nil {
		return r.zr.Close()
	}
	return nil
}

// Mimetype describes the archive's mimetype marker entry.
func (r *Reader) Mimetype() MimetypeInfo {
	return r.mimetype
}

// Entries returns every entry name in archive order.
func (r *Reader) Entries() []string {
	zr := r.zipReader()
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether the archive contains an entry with the given name.
func (r *Reader) Has(name string) bool {
	for _, f := range r.zipReader().File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ReadFile returns the content of the named entry.
func (r *Reader) ReadFile(name string) ([]byte, error) {
	for _, f := range r.zipReader().File {
		if f.Name == name {
			return readEntry(f)
		}
	}
	return nil, ErrMissingEntry
}

// PageDocuments returns the names of per-page content documents, sorted.
// Shared documents such as the navigation document are not counted.
func (r *Reader) PageDocuments() []string {
	var pages []string
	for _, f := range r.zipReader().File {
		if pageDocPattern.MatchString(path.Base(f.Name)) {
			pages = append(pages, f.Name)
		}
	}
	sort.Strings(pages)
	return pages
}

// Images returns the names of content image entries, sorted. Full-page
// reference snapshots are excluded; they back pages rather than reproduce
// source images.
func (r *Reader) Images() []string {
	var images []string
	for _, f := range r.zipReader().File {
		dir := path.Dir(f.Name)
		if path.Base(dir) != "images" {
			continue
		}
		if strings.Contains(path.Base(f.Name), "reference") {
			continue
		}
		images = append(images, f.Name)
	}
	sort.Strings(images)
	return images
}

// Encrypted reports whether the container declares encrypted resources.
func (r *Reader) Encrypted() bool {
	return r.Has("META-INF/encryption.xml")
}

// Package parses and returns the package document, locating it through
// META-INF/container.xml. The result is cached.
func (r *Reader) Package() (*Package, error) {
	if r.parsed {
		return r.pkg, r.pkgErr
	}
	r.parsed = true
	r.pkg, r.pkgErr = r.parse()
	return r.pkg, r.pkgErr
}

func (r *Reader) parse() (*Package, error) {
	data, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return nil, ErrNoContainer
	}
	opfPath, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	opfData, err := r.ReadFile(opfPath)
	if err != nil {
		return nil, ErrNoOPF
	}
	return parsePackage(opfData)
}

func (r *Reader) zipReader() *zip.Reader {
	if r.zr != nil {
		return &r.zr.Reader
	}
	return r.zrReader
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
