package epub

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Write-side structures for the legacy NCX table of contents, carried for
// reading systems that predate EPUB 3 navigation documents.
type ncxRoot struct {
	XMLName  xml.Name      `xml:"ncx"`
	Xmlns    string        `xml:"xmlns,attr"`
	Version  string        `xml:"version,attr"`
	Head     ncxHead       `xml:"head"`
	DocTitle ncxText       `xml:"docTitle"`
	NavMap   []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxHead struct {
	Metas []ncxMeta `xml:"meta"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxText struct {
	Text string `xml:"text"`
}

type ncxNavPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     ncxText    `xml:"navLabel"`
	Content   ncxContent `xml:"content"`
}

type ncxContent struct {
	Src string `xml:"src,attr"`
}

func buildNCX(bookID, title string, pageCount int) ([]byte, error) {
	root := ncxRoot{
		Xmlns:   "http://www.daisy.org/z3986/2005/ncx/",
		Version: "2005-1",
		Head: ncxHead{Metas: []ncxMeta{
			{Name: "dtb:uid", Content: bookID},
			{Name: "dtb:depth", Content: "1"},
			{Name: "dtb:totalPageCount", Content: strconv.Itoa(pageCount)},
			{Name: "dtb:maxPageNumber", Content: strconv.Itoa(pageCount)},
		}},
		DocTitle: ncxText{Text: title},
	}
	for n := 1; n <= pageCount; n++ {
		root.NavMap = append(root.NavMap, ncxNavPoint{
			ID:        fmt.Sprintf("navpoint-%d", n),
			PlayOrder: n,
			Label:     ncxText{Text: fmt.Sprintf("Page %d", n)},
			Content:   ncxContent{Src: fmt.Sprintf("page%03d.xhtml", n)},
		})
	}

	body, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal ncx: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
