package epub

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/facsimile-dev/facsimile/model"
)

// Generator errors.
var (
	// ErrNoPages indicates an attempt to generate a package with no pages.
	ErrNoPages = errors.New("epub: no pages to generate")

	// ErrPageOrder indicates page contents that are not numbered 1..N in
	// order.
	ErrPageOrder = errors.New("epub: pages out of order")
)

// Generator assembles a fixed-layout EPUB 3 package from extracted page
// contents. Each source page becomes one pre-paginated XHTML document with
// absolutely positioned image and text frames.
//
// Generator values are immutable; configuration methods return a modified
// copy.
type Generator struct {
	outputPath string
	scratchDir string
	includeNav bool
	includeNCX bool

	// now stamps dcterms:modified; overridable in tests.
	now func() time.Time

	// newID mints the package identifier; overridable in tests.
	newID func() string
}

// NewGenerator returns a Generator that writes the finished package to
// outputPath. By default the package carries both the EPUB 3 navigation
// document and the legacy NCX table of contents.
func NewGenerator(outputPath string) *Generator {
	return &Generator{
		outputPath: outputPath,
		includeNav: true,
		includeNCX: true,
		now:        time.Now,
		newID:      func() string { return uuid.New().URN() },
	}
}

func (g *Generator) clone() *Generator {
	c := *g
	return &c
}

// ScratchDir sets the directory where the package tree is staged before
// archiving. It is cleared first and removed afterwards. When unset, a
// temporary directory is used.
func (g *Generator) ScratchDir(dir string) *Generator {
	c := g.clone()
	c.scratchDir = dir
	return c
}

// WithoutNav omits the EPUB 3 navigation document.
func (g *Generator) WithoutNav() *Generator {
	c := g.clone()
	c.includeNav = false
	return c
}

// WithoutNCX omits the legacy NCX table of contents.
func (g *Generator) WithoutNCX() *Generator {
	c := g.clone()
	c.includeNCX = false
	return c
}

// Generate builds the package from pages and meta. Image elements
// reference files by bare name; imageDir is the directory those files were
// persisted to. Reference snapshots are never packaged. The staged tree is
// archived with the mimetype marker as the first, uncompressed entry.
func (g *Generator) Generate(pages []model.PageContent, meta model.DocumentMetadata, imageDir string) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	if !model.Contiguous(pages) {
		return ErrPageOrder
	}

	scratch := g.scratchDir
	if scratch == "" {
		tmp, err := os.MkdirTemp("", "epub-build-")
		if err != nil {
			return fmt.Errorf("epub: scratch dir: %w", err)
		}
		scratch = tmp
	} else {
		if err := os.RemoveAll(scratch); err != nil {
			return fmt.Errorf("epub: clearing scratch dir: %w", err)
		}
	}
	defer os.RemoveAll(scratch)

	if err := g.stageTree(scratch, g.newID(), pages, meta, imageDir); err != nil {
		return err
	}

	if dir := filepath.Dir(g.outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("epub: output dir: %w", err)
		}
	}
	return writeArchive(g.outputPath, scratch)
}

// stageTree writes the exploded package layout under root. bookID is the
// minted package identifier, shared by the package document and the NCX.
func (g *Generator) stageTree(root, bookID string, pages []model.PageContent, meta model.DocumentMetadata, imageDir string) error {
	for _, dir := range []string{
		filepath.Join(root, "META-INF"),
		filepath.Join(root, "OEBPS", "images"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("epub: staging %s: %w", dir, err)
		}
	}

	if err := writeFile(filepath.Join(root, "mimetype"), []byte(mimetypeContent)); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, "META-INF", "container.xml"), []byte(containerXML)); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, "OEBPS", "styles.css"), []byte(stylesheet)); err != nil {
		return err
	}

	var imageFiles []string
	for i := range pages {
		pc := &pages[i]

		doc := buildPageDocument(pc)
		name := fmt.Sprintf("page%03d.xhtml", pc.PageNum)
		if err := writeFile(filepath.Join(root, "OEBPS", name), []byte(doc)); err != nil {
			return err
		}

		// Reference snapshots (PageContent.BackgroundImage) stay in the work
		// directory; the package carries extracted content images only.
		for _, img := range pc.Images {
			if err := copyImage(imageDir, root, img.Path); err != nil {
				return err
			}
			imageFiles = append(imageFiles, img.Path)
		}
	}

	opf, err := g.buildPackageDocument(bookID, pages, meta, imageFiles)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(root, "OEBPS", "content.opf"), opf); err != nil {
		return err
	}

	if g.includeNav {
		nav := buildNavDocument(meta.Title, len(pages))
		if err := writeFile(filepath.Join(root, "OEBPS", "nav.xhtml"), []byte(nav)); err != nil {
			return err
		}
	}
	if g.includeNCX {
		ncx, err := buildNCX(bookID, meta.Title, len(pages))
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(root, "OEBPS", "toc.ncx"), ncx); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("epub: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// copyImage copies a persisted image from the extraction directory into the
// staged package. A missing asset fails generation; the page document has
// already promised the reference.
func copyImage(imageDir, root, name string) error {
	src, err := os.Open(filepath.Join(imageDir, name))
	if err != nil {
		return fmt.Errorf("epub: image asset %s: %w", name, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(root, "OEBPS", "images", name))
	if err != nil {
		return fmt.Errorf("epub: staging image %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("epub: staging image %s: %w", name, err)
	}
	return dst.Close()
}
