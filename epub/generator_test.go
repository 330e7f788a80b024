package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/facsimile-dev/facsimile/imaging"
	"github.com/facsimile-dev/facsimile/model"
)

// readArchive returns the archive's entries in order plus their contents.
func readArchive(t *testing.T, path string) ([]*zip.File, map[string][]byte) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	t.Cleanup(func() { zr.Close() })

	contents := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("reading entry %s: %v", f.Name, err)
		}
		rc.Close()
		contents[f.Name] = buf.Bytes()
	}
	return zr.File, contents
}

func stageImage(t *testing.T, dir, name string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("staging image: %v", err)
	}
	defer f.Close()
	if err := imaging.EncodePNG(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("staging image: %v", err)
	}
}

func testPages() []model.PageContent {
	return []model.PageContent{
		{
			PageNum: 1, Width: 200, Height: 300,
			Texts: []model.TextElement{
				{Text: "Hello <world>", X0: 10, Y0: 10, X1: 110, Y1: 30, FontName: "Helvetica-Bold", FontSize: 12, Bold: true, LineHeight: 20, PageNum: 1},
			},
			Images: []model.ImageElement{
				{Path: "page_001_img_00.png", X0: 20, Y0: 150, X1: 120, Y1: 250, Width: 100, Height: 100, PageNum: 1},
			},
		},
		{PageNum: 2, Width: 200, Height: 300},
	}
}

func testGenerator(t *testing.T) (*Generator, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "book.epub")
	g := NewGenerator(out)
	g.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	g.newID = func() string { return "urn:uuid:00000000-0000-0000-0000-000000000000" }
	return g, out
}

// ============================================================================
// Validation errors
// ============================================================================

func TestGenerateRejectsEmptyAndUnordered(t *testing.T) {
	g, _ := testGenerator(t)

	if err := g.Generate(nil, model.DocumentMetadata{}, t.TempDir()); !errors.Is(err, ErrNoPages) {
		t.Errorf("empty input: err = %v, want ErrNoPages", err)
	}

	pages := []model.PageContent{{PageNum: 2}, {PageNum: 1}}
	if err := g.Generate(pages, model.DocumentMetadata{}, t.TempDir()); !errors.Is(err, ErrPageOrder) {
		t.Errorf("unordered input: err = %v, want ErrPageOrder", err)
	}
}

// ============================================================================
// Container layout
// ============================================================================

func TestGenerateContainer(t *testing.T) {
	g, out := testGenerator(t)
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")

	meta := model.NewDocumentMetadata(2, "Sample Book", "A. Writer")
	if err := g.Generate(testPages(), meta, imageDir); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	files, contents := readArchive(t, out)

	first := files[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry = %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype entry method = %d, want Store", first.Method)
	}
	if string(contents["mimetype"]) != "application/epub+zip" {
		t.Errorf("mimetype content = %q", contents["mimetype"])
	}

	for _, name := range []string{
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/nav.xhtml",
		"OEBPS/toc.ncx",
		"OEBPS/styles.css",
		"OEBPS/page001.xhtml",
		"OEBPS/page002.xhtml",
		"OEBPS/images/page_001_img_00.png",
	} {
		if _, ok := contents[name]; !ok {
			t.Errorf("missing entry %s", name)
		}
	}

	// Every XML entry must parse.
	for name, data := range contents {
		if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".opf") &&
			!strings.HasSuffix(name, ".xhtml") && !strings.HasSuffix(name, ".ncx") {
			continue
		}
		dec := xml.NewDecoder(bytes.NewReader(data))
		for {
			_, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Errorf("entry %s is not well-formed XML: %v", name, err)
				break
			}
		}
	}
}

func TestGeneratePackageDocument(t *testing.T) {
	g, out := testGenerator(t)
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")

	meta := model.NewDocumentMetadata(2, "Sample Book", "A. Writer")
	if err := g.Generate(testPages(), meta, imageDir); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, contents := readArchive(t, out)
	opf := string(contents["OEBPS/content.opf"])

	for _, want := range []string{
		`version="3.0"`,
		"urn:uuid:00000000-0000-0000-0000-000000000000",
		"<dc:title>Sample Book</dc:title>",
		"<dc:creator>A. Writer</dc:creator>",
		"pre-paginated",
		"width=200, height=300",
		`toc="ncx"`,
		"2026-03-01T12:00:00Z",
	} {
		if !strings.Contains(opf, want) {
			t.Errorf("package document missing %q", want)
		}
	}

	// Spine keeps page order.
	p1 := strings.Index(opf, `idref="page001"`)
	p2 := strings.Index(opf, `idref="page002"`)
	if p1 < 0 || p2 < 0 || p1 > p2 {
		t.Errorf("spine order wrong: page001 at %d, page002 at %d", p1, p2)
	}
}

func TestGeneratePageDocument(t *testing.T) {
	g, out := testGenerator(t)
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")

	if err := g.Generate(testPages(), model.NewDocumentMetadata(2, "", ""), imageDir); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, contents := readArchive(t, out)
	page := string(contents["OEBPS/page001.xhtml"])

	for _, want := range []string{
		`content="width=200, height=300"`,
		"width:200.0pt;height:300.0pt;",
		"left:20.0pt;top:150.0pt;width:100.0pt;height:100.0pt;",
		`src="images/page_001_img_00.png"`,
		"left:10.0pt;top:10.0pt;",
		"font-weight:bold;",
		"Hello &lt;world&gt;",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page document missing %q", want)
		}
	}

	// Graphics frame before text frame.
	gi := strings.Index(page, "Basic-Graphics-Frame")
	ti := strings.Index(page, "Basic-Text-Frame")
	if gi < 0 || ti < 0 || gi > ti {
		t.Errorf("frame stacking order wrong: graphics at %d, text at %d", gi, ti)
	}
}

func TestGenerateNCXPageCounts(t *testing.T) {
	g, out := testGenerator(t)
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")

	if err := g.Generate(testPages(), model.NewDocumentMetadata(2, "", ""), imageDir); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, contents := readArchive(t, out)
	ncx := string(contents["OEBPS/toc.ncx"])
	for _, want := range []string{
		`name="dtb:totalPageCount" content="2"`,
		`name="dtb:maxPageNumber" content="2"`,
	} {
		if !strings.Contains(ncx, want) {
			t.Errorf("ncx missing %q", want)
		}
	}
}

func TestGenerateExcludesReferenceSnapshots(t *testing.T) {
	g, out := testGenerator(t)
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")
	stageImage(t, imageDir, "page_001_reference.png")

	pages := testPages()
	pages[0].BackgroundImage = "page_001_reference.png"

	if err := g.Generate(pages, model.NewDocumentMetadata(2, "", ""), imageDir); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, contents := readArchive(t, out)
	if _, ok := contents["OEBPS/images/page_001_reference.png"]; ok {
		t.Error("reference snapshot packaged")
	}
	opf := string(contents["OEBPS/content.opf"])
	if strings.Contains(opf, "reference") {
		t.Error("manifest references a snapshot")
	}
	page := string(contents["OEBPS/page001.xhtml"])
	if strings.Contains(page, "page_001_reference.png") {
		t.Error("page document renders a snapshot")
	}
}

// ============================================================================
// Optional navigation artifacts
// ============================================================================

func TestGenerateWithoutNavAndNCX(t *testing.T) {
	g, out := testGenerator(t)
	g = g.WithoutNav().WithoutNCX()

	pages := []model.PageContent{{PageNum: 1, Width: 100, Height: 100}}
	if err := g.Generate(pages, model.NewDocumentMetadata(1, "", ""), t.TempDir()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, contents := readArchive(t, out)
	if _, ok := contents["OEBPS/nav.xhtml"]; ok {
		t.Error("nav.xhtml present after WithoutNav")
	}
	if _, ok := contents["OEBPS/toc.ncx"]; ok {
		t.Error("toc.ncx present after WithoutNCX")
	}
	opf := string(contents["OEBPS/content.opf"])
	if strings.Contains(opf, `toc="ncx"`) || strings.Contains(opf, "nav.xhtml") {
		t.Error("package document still references omitted navigation artifacts")
	}
}

func TestGenerateMissingImageAsset(t *testing.T) {
	g, _ := testGenerator(t)
	err := g.Generate(testPages(), model.NewDocumentMetadata(2, "", ""), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing image asset")
	}
}

func TestConfigMethodsReturnCopies(t *testing.T) {
	base := NewGenerator("out.epub")
	trimmed := base.WithoutNav().WithoutNCX().ScratchDir("stage")
	if !base.includeNav || !base.includeNCX || base.scratchDir != "" {
		t.Errorf("base mutated: %+v", base)
	}
	if trimmed.includeNav || trimmed.includeNCX || trimmed.scratchDir != "stage" {
		t.Errorf("configured copy wrong: %+v", trimmed)
	}
}
