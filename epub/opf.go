package epub

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/facsimile-dev/facsimile/model"
)

// Write-side structures for the package document. Marshaling keeps the
// namespace prefixes literal, which encoding/xml emits verbatim.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Xmlns    string      `xml:"xmlns,attr"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Prefix   string      `xml:"prefix,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC    string         `xml:"xmlns:dc,attr"`
	Identifier opfIdentifier  `xml:"dc:identifier"`
	Title      string         `xml:"dc:title"`
	Language   string         `xml:"dc:language"`
	Creator    string         `xml:"dc:creator,omitempty"`
	Metas      []opfMetaEntry `xml:"meta"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMetaEntry struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr,omitempty"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// buildPackageDocument marshals the OPF package document. The rendition
// metadata declares every page pre-paginated, and the viewport is taken
// from the first page's dimensions.
func (g *Generator) buildPackageDocument(bookID string, pages []model.PageContent, meta model.DocumentMetadata, imageFiles []string) ([]byte, error) {
	first := pages[0]
	viewport := fmt.Sprintf("width=%d, height=%d",
		int(math.Round(first.Width)), int(math.Round(first.Height)))

	pkg := opfPackage{
		Xmlns:    "http://www.idpf.org/2007/opf",
		Version:  "3.0",
		UniqueID: "book-id",
		Prefix:   "rendition: http://www.idpf.org/vocab/rendition/#",
		Metadata: opfMetadata{
			XmlnsDC:    "http://purl.org/dc/elements/1.1/",
			Identifier: opfIdentifier{ID: "book-id", Value: bookID},
			Title:      meta.Title,
			Language:   "en",
			Metas: []opfMetaEntry{
				{Property: "dcterms:modified", Value: g.now().UTC().Format("2006-01-02T15:04:05Z")},
				{Property: "rendition:layout", Value: "pre-paginated"},
				{Property: "rendition:orientation", Value: "portrait"},
				{Property: "rendition:spread", Value: "none"},
				{Property: "rendition:viewport", Value: viewport},
			},
		},
	}
	if meta.HasAuthor() {
		pkg.Metadata.Creator = meta.Author
	}

	if g.includeNav {
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID: "nav", Href: "nav.xhtml", MediaType: "application/xhtml+xml", Properties: "nav",
		})
	}
	if g.includeNCX {
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID: "ncx", Href: "toc.ncx", MediaType: "application/x-dtbncx+xml",
		})
		pkg.Spine.Toc = "ncx"
	}
	pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
		ID: "css", Href: "styles.css", MediaType: "text/css",
	})

	for i := range pages {
		id := fmt.Sprintf("page%03d", pages[i].PageNum)
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID: id, Href: id + ".xhtml", MediaType: "application/xhtml+xml",
		})
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, opfItemRef{IDRef: id})
	}

	for _, name := range imageFiles {
		pkg.Manifest.Items = append(pkg.Manifest.Items, opfItem{
			ID:        "img-" + strings.TrimSuffix(name, ".png"),
			Href:      "images/" + name,
			MediaType: "image/png",
		})
	}

	body, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal package document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
