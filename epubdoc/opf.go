package epubdoc

import (
	"encoding/xml"
	"errors"
	"strings"
	"time"
)

// OPF-related errors.
var (
	ErrNoOPF      = errors.New("epubdoc: missing package document")
	ErrInvalidOPF = errors.New("epubdoc: invalid package document")
	ErrEmptySpine = errors.New("epubdoc: no content in spine")
)

// Read-side structures for the package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title      []dcElement `xml:"title"`
	Creator    []dcElement `xml:"creator"`
	Language   []dcElement `xml:"language"`
	Identifier []dcElement `xml:"identifier"`
	Meta       []opfMeta   `xml:"meta"`
}

type dcElement struct {
	ID      string `xml:"id,attr"`
	Content string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr"`
	Name     string `xml:"name,attr"`    // EPUB 2 style
	Content  string `xml:"content,attr"` // EPUB 2 style
	Value    string `xml:",chardata"`    // EPUB 3 style
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parsePackage parses package document bytes into a Package.
func parsePackage(data []byte) (*Package, error) {
	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, ErrInvalidOPF
	}

	pkg := &Package{
		Version:  opf.Version,
		Metadata: convertMetadata(&opf.Metadata),
		Manifest: convertManifest(&opf.Manifest),
		Spine:    convertSpine(&opf.Spine),
	}
	if len(pkg.Spine) == 0 {
		return nil, ErrEmptySpine
	}
	return pkg, nil
}

func convertMetadata(m *opfMetadata) Metadata {
	meta := Metadata{}

	if len(m.Title) > 0 {
		meta.Title = strings.TrimSpace(m.Title[0].Content)
	}
	for _, c := range m.Creator {
		if s := strings.TrimSpace(c.Content); s != "" {
			meta.Creator = append(meta.Creator, s)
		}
	}
	if len(m.Language) > 0 {
		meta.Language = strings.TrimSpace(m.Language[0].Content)
	}
	if len(m.Identifier) > 0 {
		meta.Identifier = strings.TrimSpace(m.Identifier[0].Content)
	}

	for _, mt := range m.Meta {
		switch mt.Property {
		case "dcterms:modified":
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(mt.Value)); err == nil {
				meta.Modified = t
			}
		case "rendition:layout":
			meta.Layout = strings.TrimSpace(mt.Value)
		case "rendition:viewport":
			meta.Viewport = strings.TrimSpace(mt.Value)
		}
	}
	return meta
}

func convertManifest(m *opfManifest) map[string]ManifestItem {
	manifest := make(map[string]ManifestItem, len(m.Items))
	for _, item := range m.Items {
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		manifest[item.ID] = mi
	}
	return manifest
}

func convertSpine(s *opfSpine) []SpineItem {
	spine := make([]SpineItem, 0, len(s.ItemRefs))
	for _, ref := range s.ItemRefs {
		spine = append(spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	return spine
}
