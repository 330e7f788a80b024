package validate

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/facsimile-dev/facsimile/epubdoc"
	"github.com/facsimile-dev/facsimile/reader"
)

// DefaultTextThreshold is the fraction of source text that must survive
// into the package before text fidelity stops being flagged.
const DefaultTextThreshold = 0.8

// Validator compares a generated package against the source document it
// was converted from. It re-reads the source through the same reader
// boundary the extractor used, so counts are derived independently of the
// conversion run under test.
//
// Validator values are immutable; configuration methods return a modified
// copy.
type Validator struct {
	source     reader.DocumentReader
	sourcePath string
	outputPath string
	threshold  float64

	now func() time.Time
}

// New returns a Validator for the package at outputPath, converted from
// the document exposed by source. sourcePath is recorded in the report for
// traceability only.
func New(source reader.DocumentReader, sourcePath, outputPath string) *Validator {
	return &Validator{
		source:     source,
		sourcePath: sourcePath,
		outputPath: outputPath,
		threshold:  DefaultTextThreshold,
		now:        time.Now,
	}
}

func (v *Validator) clone() *Validator {
	c := *v
	return &c
}

// TextFidelityThreshold overrides the text survival fraction below which a
// warning is recorded. Values outside (0, 1] are ignored.
func (v *Validator) TextFidelityThreshold(f float64) *Validator {
	c := v.clone()
	if f > 0 && f <= 1 {
		c.threshold = f
	}
	return c
}

// Validate runs every check and returns the report. Checks run in a fixed
// order, and a defect is recorded rather than returned: validation itself
// only observes.
func (v *Validator) Validate() *Report {
	rep := &Report{
		Timestamp:  v.now().UTC(),
		SourcePath: v.sourcePath,
		OutputPath: v.outputPath,
		Checks:     []CheckResult{},
		Issues:     []string{},
		Warnings:   []string{},
	}

	if _, err := os.Stat(v.outputPath); err != nil {
		rep.addCheck("output_exists", false, err.Error())
		rep.addIssue("output file not found: %s", v.outputPath)
		return rep.finalize()
	}
	rep.addCheck("output_exists", true, "output file present")

	doc, err := epubdoc.Open(v.outputPath)
	if err != nil {
		rep.addCheck("epub_structure", false, err.Error())
		rep.addIssue("output is not a readable archive: %v", err)
		return rep.finalize()
	}
	defer doc.Close()

	v.checkStructure(rep, doc)
	v.checkPageCount(rep, doc)
	v.checkImagePreservation(rep, doc)
	v.checkTextContent(rep, doc)
	v.checkPackageValidity(rep, doc)

	return rep.finalize()
}

// checkStructure verifies the required container entries exist and that
// the archive carries at least one page markup document.
func (v *Validator) checkStructure(rep *Report, doc *epubdoc.Reader) {
	var problems []string
	for _, name := range []string{
		"mimetype",
		"META-INF/container.xml",
		"OEBPS/content.opf",
	} {
		if !doc.Has(name) {
			problems = append(problems, "missing required entry: "+name)
		}
	}
	if len(doc.PageDocuments()) == 0 {
		problems = append(problems, "no page markup documents")
	}

	if len(problems) > 0 {
		rep.addCheck("epub_structure", false, problems...)
		for _, p := range problems {
			rep.addIssue("%s", p)
		}
		return
	}
	rep.addCheck("epub_structure", true, "required entries present")

	if doc.Encrypted() {
		rep.addWarning("container declares encrypted resources")
	}
}

// checkPageCount verifies one page document per source page.
func (v *Validator) checkPageCount(rep *Report, doc *epubdoc.Reader) {
	srcPages, err := v.source.PageCount()
	if err != nil {
		rep.addCheck("page_count", false, err.Error())
		rep.addIssue("source page count unavailable: %v", err)
		return
	}

	outPages := len(doc.PageDocuments())
	if outPages != srcPages {
		details := fmt.Sprintf("page documents: %d of %d", outPages, srcPages)
		rep.addCheck("page_count", false, details)
		rep.addIssue("page count mismatch: source has %d pages, output has %d page documents", srcPages, outPages)
		return
	}
	rep.addCheck("page_count", true, fmt.Sprintf("page documents: %d of %d", outPages, srcPages))
}

// checkImagePreservation compares embedded image counts. Losing every
// image is a defect; losing some is a degradation.
func (v *Validator) checkImagePreservation(rep *Report, doc *epubdoc.Reader) {
	srcImages, err := v.countSourceImages()
	if err != nil {
		rep.addCheck("image_preservation", false, err.Error())
		rep.addIssue("source images unavailable: %v", err)
		return
	}
	outImages := len(doc.Images())

	details := fmt.Sprintf("images preserved: %d of %d", outImages, srcImages)
	switch {
	case srcImages > 0 && outImages == 0:
		rep.addCheck("image_preservation", false, details)
		rep.addIssue("no images preserved: source has %d", srcImages)
	case outImages < srcImages:
		rep.addCheck("image_preservation", true, details)
		rep.addWarning("only %d of %d images preserved", outImages, srcImages)
	default:
		rep.addCheck("image_preservation", true, details)
	}
}

// checkTextContent compares total text volume. Text loss is always a
// degradation, never a defect: some sources are image-only.
func (v *Validator) checkTextContent(rep *Report, doc *epubdoc.Reader) {
	srcText, err := v.countSourceText()
	if err != nil {
		rep.addCheck("text_content", false, err.Error())
		rep.addIssue("source text unavailable: %v", err)
		return
	}

	outText := 0
	for _, name := range doc.PageDocuments() {
		data, err := doc.ReadFile(name)
		if err != nil {
			continue
		}
		outText += countDocumentText(data)
	}

	details := fmt.Sprintf("text characters: %d of %d", outText, srcText)
	rep.addCheck("text_content", true, details)

	switch {
	case srcText == 0:
		rep.addWarning("source document contains no text")
	case outText == 0:
		rep.addWarning("no text content in output; source has %d characters", srcText)
	case float64(outText) < v.threshold*float64(srcText):
		rep.addWarning("text content below %.0f%% of source: %d of %d characters",
			v.threshold*100, outText, srcText)
	}
}

// checkPackageValidity verifies the mimetype marker byte for byte and
// parses every XML entry for well-formedness.
func (v *Validator) checkPackageValidity(rep *Report, doc *epubdoc.Reader) {
	var problems []string

	if mt := doc.Mimetype(); !mt.Valid() {
		switch {
		case !mt.Present:
			problems = append(problems, "mimetype entry missing")
		case mt.Content != "application/epub+zip":
			problems = append(problems, "mimetype content is not application/epub+zip")
		case !mt.First:
			problems = append(problems, "mimetype is not the first archive entry")
		default:
			problems = append(problems, "mimetype entry is compressed")
		}
	}

	for _, name := range doc.Entries() {
		if !isXMLEntry(name) {
			continue
		}
		data, err := doc.ReadFile(name)
		if err != nil {
			problems = append(problems, name+": unreadable")
			continue
		}
		if err := checkWellFormed(data); err != nil {
			problems = append(problems, name+": malformed XML")
		}
	}

	if _, err := doc.Package(); err != nil {
		problems = append(problems, "package document: "+err.Error())
	}

	if len(problems) > 0 {
		rep.addCheck("package_validity", false, problems...)
		rep.addIssue("package validity: %s", strings.Join(problems, "; "))
		return
	}
	rep.addCheck("package_validity", true, "mimetype and XML entries valid")
}

func (v *Validator) countSourceImages() (int, error) {
	total, err := v.source.PageCount()
	if err != nil {
		return 0, err
	}
	n := 0
	for i := 0; i < total; i++ {
		p, err := v.source.Page(i)
		if err != nil {
			return 0, err
		}
		n += len(p.Images())
	}
	return n, nil
}

func (v *Validator) countSourceText() (int, error) {
	total, err := v.source.PageCount()
	if err != nil {
		return 0, err
	}
	n := 0
	for i := 0; i < total; i++ {
		p, err := v.source.Page(i)
		if err != nil {
			return 0, err
		}
		for _, g := range p.Glyphs() {
			if strings.TrimSpace(g.Text) == "" {
				continue
			}
			n += utf8.RuneCountInString(g.Text)
		}
	}
	return n, nil
}

// countDocumentText counts the text characters in a page document's body.
func countDocumentText(data []byte) int {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return 0
	}

	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "head" || node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			n += utf8.RuneCountInString(strings.TrimSpace(node.Data))
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return n
}

func isXMLEntry(name string) bool {
	for _, suffix := range []string{".xml", ".opf", ".xhtml", ".ncx"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// checkWellFormed tokenizes the whole document, failing on the first XML
// syntax error.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

