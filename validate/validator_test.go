package validate

import (
	"archive/zip"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/facsimile-dev/facsimile/epub"
	"github.com/facsimile-dev/facsimile/imaging"
	"github.com/facsimile-dev/facsimile/model"
	"github.com/facsimile-dev/facsimile/reader"
)

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

// generate builds a real package from pages and returns its path.
func generate(t *testing.T, pages []model.PageContent, imageDir string) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "book.epub")
	g := epub.NewGenerator(out)
	if err := g.Generate(pages, model.NewDocumentMetadata(len(pages), "Test", ""), imageDir); err != nil {
		t.Fatalf("generating fixture package: %v", err)
	}
	return out
}

func findCheck(t *testing.T, rep *Report, name string) CheckResult {
	t.Helper()
	for _, c := range rep.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not in report: %+v", name, rep.Checks)
	return CheckResult{}
}

func TestValidateCleanConversion(t *testing.T) {
	imageDir := t.TempDir()
	stageImage(t, imageDir, "page_001_img_00.png")

	src := &reader.Static{
		Pages: []reader.StaticPage{
			{
				W: 200, H: 300,
				GlyphList: []reader.Glyph{{Text: "Hello world", X0: 10, Y0: 270, X1: 110, Y1: 290}},
				ImageList: []reader.ImageRef{{X0: 20, Y0: 50, X1: 120, Y1: 150}},
			},
		},
	}
	pages := []model.PageContent{
		{
			PageNum: 1, Width: 200, Height: 300,
			Texts:  []model.TextElement{{Text: "Hello world", X0: 10, Y0: 10, X1: 110, Y1: 30, PageNum: 1}},
			Images: []model.ImageElement{{Path: "page_001_img_00.png", X0: 20, Y0: 150, X1: 120, Y1: 250, Width: 100, Height: 100, PageNum: 1}},
		},
	}

	rep := New(src, "source.pdf", generate(t, pages, imageDir)).Validate()

	if !rep.OverallStatus {
		t.Fatalf("overall status false; issues: %v", rep.Issues)
	}
	if len(rep.Issues) != 0 {
		t.Errorf("issues = %v", rep.Issues)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("warnings = %v", rep.Warnings)
	}
	if len(rep.Checks) != 6 {
		t.Errorf("got %d checks, want 6", len(rep.Checks))
	}
	for _, c := range rep.Checks {
		if !c.Passed {
			t.Errorf("check %s failed: %s", c.Name, c.Details)
		}
	}
}

func TestValidateMissingOutput(t *testing.T) {
	src := &reader.Static{Pages: []reader.StaticPage{{W: 100, H: 100}}}
	rep := New(src, "source.pdf", filepath.Join(t.TempDir(), "missing.epub")).Validate()

	if rep.OverallStatus {
		t.Error("overall status true for missing output")
	}
	if len(rep.Checks) != 1 || rep.Checks[0].Name != "output_exists" || rep.Checks[0].Passed {
		t.Errorf("checks = %+v", rep.Checks)
	}
}

func TestValidatePageCountMismatch(t *testing.T) {
	src := &reader.Static{Pages: []reader.StaticPage{{W: 100, H: 100}, {W: 100, H: 100}}}
	pages := []model.PageContent{{PageNum: 1, Width: 100, Height: 100}}

	rep := New(src, "source.pdf", generate(t, pages, t.TempDir())).Validate()

	if rep.OverallStatus {
		t.Error("overall status true despite page count mismatch")
	}
	if c := findCheck(t, rep, "page_count"); c.Passed {
		t.Errorf("page_count passed: %s", c.Details)
	}
}

func TestValidateImageLoss(t *testing.T) {
	// Source claims two images.
	src := &reader.Static{
		Pages: []reader.StaticPage{
			{W: 100, H: 100, ImageList: []reader.ImageRef{{X1: 10, Y1: 10}, {X0: 20, X1: 30, Y1: 10}}},
		},
	}

	t.Run("total loss is an issue", func(t *testing.T) {
		pages := []model.PageContent{{PageNum: 1, Width: 100, Height: 100}}
		rep := New(src, "s.pdf", generate(t, pages, t.TempDir())).Validate()

		if rep.OverallStatus {
			t.Error("overall status true despite total image loss")
		}
		if c := findCheck(t, rep, "image_preservation"); c.Passed {
			t.Errorf("image_preservation passed: %s", c.Details)
		}
	})

	t.Run("partial loss is a warning", func(t *testing.T) {
		imageDir := t.TempDir()
		stageImage(t, imageDir, "page_001_img_00.png")
		pages := []model.PageContent{{
			PageNum: 1, Width: 100, Height: 100,
			Images: []model.ImageElement{{Path: "page_001_img_00.png", X1: 10, Y1: 10, Width: 10, Height: 10, PageNum: 1}},
		}}
		rep := New(src, "s.pdf", generate(t, pages, imageDir)).Validate()

		if !rep.OverallStatus {
			t.Errorf("overall status false; issues: %v", rep.Issues)
		}
		if c := findCheck(t, rep, "image_preservation"); !c.Passed {
			t.Errorf("image_preservation failed: %s", c.Details)
		}
		if len(rep.Warnings) == 0 {
			t.Error("no warning for partial image loss")
		}
	})
}

func TestValidateTextLossIsNeverAnIssue(t *testing.T) {
	// Source carries 10 text characters, output only 6: below the default
	// 80% threshold.
	src := &reader.Static{
		Pages: []reader.StaticPage{
			{W: 100, H: 100, GlyphList: []reader.Glyph{{Text: "HelloWorld", X0: 5, Y0: 80, X1: 60, Y1: 90}}},
		},
	}
	pages := []model.PageContent{{
		PageNum: 1, Width: 100, Height: 100,
		Texts: []model.TextElement{{Text: "Hollow", X0: 5, Y0: 10, X1: 60, Y1: 20, PageNum: 1}},
	}}

	rep := New(src, "s.pdf", generate(t, pages, t.TempDir())).Validate()

	if !rep.OverallStatus {
		t.Fatalf("text loss must not fail validation; issues: %v", rep.Issues)
	}
	if c := findCheck(t, rep, "text_content"); !c.Passed {
		t.Errorf("text_content failed: %s", c.Details)
	}

	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "below") {
			found = true
		}
	}
	if !found {
		t.Errorf("no low-text warning in %v", rep.Warnings)
	}

	// A looser threshold accepts the same output without the warning.
	rep = New(src, "s.pdf", rep.OutputPath).TextFidelityThreshold(0.5).Validate()
	for _, w := range rep.Warnings {
		if strings.Contains(w, "below") {
			t.Errorf("unexpected low-text warning at 50%% threshold: %s", w)
		}
	}
}

func TestValidateNoPageDocumentsIsStructuralIssue(t *testing.T) {
	// All required entries present but not a single page document.
	out := filepath.Join(t.TempDir(), "empty.epub")
	f, err := os.Create(out)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entries := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?><container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container"><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"OEBPS/content.opf":      `<?xml version="1.0"?><package xmlns="http://www.idpf.org/2007/opf" version="3.0"><metadata/><manifest/><spine><itemref idref="page001"/></spine></package>`,
	}
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	src := &reader.Static{Pages: []reader.StaticPage{{W: 100, H: 100}}}
	rep := New(src, "s.pdf", out).Validate()

	if rep.OverallStatus {
		t.Error("overall status true for a package with no page documents")
	}
	c := findCheck(t, rep, "epub_structure")
	if c.Passed {
		t.Errorf("epub_structure passed: %v", c.Details)
	}
	found := false
	for _, d := range c.Details {
		if strings.Contains(d, "no page markup documents") {
			found = true
		}
	}
	if !found {
		t.Errorf("details = %v, want missing-page-documents entry", c.Details)
	}
}

func TestValidateBadMimetype(t *testing.T) {
	// Hand-build an archive whose only defect is a compressed, wrong
	// mimetype marker.
	out := filepath.Join(t.TempDir(), "bad.epub")
	f, err := os.Create(out)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entries := map[string]string{
		"mimetype":               "application/zip",
		"META-INF/container.xml": `<?xml version="1.0"?><container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container"><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`,
		"OEBPS/content.opf":      `<?xml version="1.0"?><package xmlns="http://www.idpf.org/2007/opf" version="3.0"><metadata/><manifest/><spine><itemref idref="page001"/></spine></package>`,
		"OEBPS/page001.xhtml":    `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><body><p>x</p></body></html>`,
	}
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	src := &reader.Static{Pages: []reader.StaticPage{{W: 100, H: 100}}}
	rep := New(src, "s.pdf", out).Validate()

	if rep.OverallStatus {
		t.Error("overall status true despite invalid mimetype marker")
	}
	if c := findCheck(t, rep, "package_validity"); c.Passed {
		t.Errorf("package_validity passed: %s", c.Details)
	}
	// The structural entries themselves are all present.
	if c := findCheck(t, rep, "epub_structure"); !c.Passed {
		t.Errorf("epub_structure failed: %s", c.Details)
	}
}

func TestReportSave(t *testing.T) {
	src := &reader.Static{Pages: []reader.StaticPage{{W: 100, H: 100}}}
	pages := []model.PageContent{{PageNum: 1, Width: 100, Height: 100}}
	rep := New(src, "s.pdf", generate(t, pages, t.TempDir())).Validate()

	path := filepath.Join(t.TempDir(), "report.json")
	if err := rep.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("saved report not valid JSON: %v", err)
	}
	if back.OverallStatus != rep.OverallStatus || len(back.Checks) != len(rep.Checks) {
		t.Errorf("round-trip mismatch: %+v", back)
	}
	if back.Issues == nil || back.Warnings == nil {
		t.Error("issues/warnings must marshal as arrays, not null")
	}
	// Check details are a sequence, one line per observation, even when
	// empty.
	if !strings.Contains(string(data), `"details": [`) {
		t.Error("check details not marshaled as an array")
	}
	for i, c := range back.Checks {
		if c.Details == nil {
			t.Errorf("check %d details marshaled as null", i)
		}
	}
}
