package extract

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/facsimile-dev/facsimile/imaging"
	"github.com/facsimile-dev/facsimile/model"
	"github.com/facsimile-dev/facsimile/reader"
)

// snapshotDPI is the resolution of the full-page reference raster.
const snapshotDPI = 150

// Extractor pulls positioned text and images out of a document source and
// persists page assets (images, reference snapshots, metadata sidecar) into
// a working directory.
//
// Extractor values are immutable; configuration methods return a modified
// copy, so a configured Extractor can be stored and reused.
type Extractor struct {
	workDir string
	workers int
}

// New returns an Extractor writing page assets into workDir. The directory
// is created on first use if it does not exist.
func New(workDir string) *Extractor {
	return &Extractor{workDir: workDir, workers: 1}
}

func (e *Extractor) clone() *Extractor {
	c := *e
	return &c
}

// Workers sets the number of pages extracted concurrently. Values below 1
// are ignored. The source reader must tolerate concurrent Page calls when
// n > 1.
func (e *Extractor) Workers(n int) *Extractor {
	c := e.clone()
	if n >= 1 {
		c.workers = n
	}
	return c
}

// ImagesDir returns the directory page images and reference snapshots are
// persisted to.
func (e *Extractor) ImagesDir() string {
	return filepath.Join(e.workDir, "images")
}

// ExtractAll extracts every page of src in order. It returns the page
// contents (index i holds page i+1), the document metadata, and any
// non-fatal warnings gathered along the way. Page contents are always
// contiguous and complete on success; a failure to decode or persist a
// single image degrades to a warning, while an unreadable page or an
// unwritable working directory fails the whole run.
//
// Assets land in two subdirectories of the working directory: images and
// snapshots under images/, the extraction_metadata.json sidecar under
// metadata/.
func (e *Extractor) ExtractAll(src reader.DocumentReader) ([]model.PageContent, model.DocumentMetadata, []Warning, error) {
	for _, dir := range []string{e.ImagesDir(), filepath.Join(e.workDir, "metadata")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, model.DocumentMetadata{}, nil, fmt.Errorf("extract: work dir: %w", err)
		}
	}

	total, err := src.PageCount()
	if err != nil {
		return nil, model.DocumentMetadata{}, nil, fmt.Errorf("extract: page count: %w", err)
	}

	info, err := src.Metadata()
	if err != nil {
		return nil, model.DocumentMetadata{}, nil, fmt.Errorf("extract: metadata: %w", err)
	}
	meta := model.NewDocumentMetadata(total, info.Title, info.Author)

	pages := make([]model.PageContent, total)
	pageWarnings := make([][]Warning, total)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := 0; i < total; i++ {
		i := i
		g.Go(func() error {
			pc, warns, err := e.extractPage(src, i)
			if err != nil {
				return err
			}
			pages[i] = pc
			pageWarnings[i] = warns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, model.DocumentMetadata{}, nil, err
	}

	var warnings []Warning
	for _, w := range pageWarnings {
		warnings = append(warnings, w...)
	}

	if err := writeMetadata(e.workDir, meta, pages); err != nil {
		return nil, model.DocumentMetadata{}, nil, err
	}
	return pages, meta, warnings, nil
}

func (e *Extractor) extractPage(src reader.DocumentReader, index int) (model.PageContent, []Warning, error) {
	pageNum := index + 1

	p, err := src.Page(index)
	if err != nil {
		return model.PageContent{}, nil, fmt.Errorf("extract: page %d: %w", pageNum, err)
	}

	pc := model.PageContent{
		PageNum: pageNum,
		Width:   p.Width(),
		Height:  p.Height(),
	}
	pc.Texts = groupLines(p.Glyphs(), p.Height(), pageNum)

	var warnings []Warning
	for idx, ref := range p.Images() {
		img, err := imaging.Normalize(ref.Data)
		if err != nil {
			warnings = append(warnings, Warning{
				Page:    pageNum,
				Message: fmt.Sprintf("skipping image %d: %v", idx, err),
			})
			continue
		}

		name := fmt.Sprintf("page_%03d_img_%02d.png", pageNum, idx)
		if err := imaging.SavePNG(filepath.Join(e.ImagesDir(), name), img); err != nil {
			warnings = append(warnings, Warning{
				Page:    pageNum,
				Message: fmt.Sprintf("skipping image %d: %v", idx, err),
			})
			continue
		}

		y0, y1 := model.FlipY(ref.Y0, ref.Y1, p.Height())
		pc.Images = append(pc.Images, model.ImageElement{
			Path:    name,
			X0:      ref.X0,
			Y0:      y0,
			X1:      ref.X1,
			Y1:      y1,
			Width:   ref.X1 - ref.X0,
			Height:  y1 - y0,
			PageNum: pageNum,
		})
	}

	snap, err := p.Render(snapshotDPI)
	switch {
	case errors.Is(err, reader.ErrRenderUnsupported):
		// No raster backend; pages simply carry no reference snapshot.
	case err != nil:
		warnings = append(warnings, Warning{
			Page:    pageNum,
			Message: fmt.Sprintf("reference snapshot failed: %v", err),
		})
	default:
		name := fmt.Sprintf("page_%03d_reference.png", pageNum)
		if err := imaging.SavePNG(filepath.Join(e.ImagesDir(), name), snap); err != nil {
			warnings = append(warnings, Warning{
				Page:    pageNum,
				Message: fmt.Sprintf("reference snapshot failed: %v", err),
			})
		} else {
			pc.BackgroundImage = name
		}
	}

	return pc, warnings, nil
}

// groupLines merges glyph primitives into visual lines. Glyphs whose top
// edges land in the same 0.1pt vertical bucket form one line; within a line
// glyphs run left to right, and lines run top to bottom. Whitespace-only
// lines are dropped.
func groupLines(glyphs []reader.Glyph, pageHeight float64, pageNum int) []model.TextElement {
	buckets := make(map[float64][]reader.Glyph)
	for _, g := range glyphs {
		top := math.Round((pageHeight-g.Y1)*10) / 10
		buckets[top] = append(buckets[top], g)
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	var lines []model.TextElement
	for _, k := range keys {
		line := buckets[k]
		sort.SliceStable(line, func(i, j int) bool { return line[i].X0 < line[j].X0 })

		var sb strings.Builder
		for _, g := range line {
			sb.WriteString(g.Text)
		}
		text := norm.NFC.String(sb.String())
		if strings.TrimSpace(text) == "" {
			continue
		}

		box := glyphBox(line[0], pageHeight)
		for _, g := range line[1:] {
			box = box.Union(glyphBox(g, pageHeight))
		}

		bold, italic := fontFlags(line[0].FontName)
		lines = append(lines, model.TextElement{
			Text:       text,
			X0:         box.X0,
			Y0:         box.Y0,
			X1:         box.X1,
			Y1:         box.Y1,
			FontName:   line[0].FontName,
			FontSize:   line[0].FontSize,
			Bold:       bold,
			Italic:     italic,
			LineHeight: box.Height(),
			PageNum:    pageNum,
		})
	}
	return lines
}

func glyphBox(g reader.Glyph, pageHeight float64) model.BBox {
	y0, y1 := model.FlipY(g.Y0, g.Y1, pageHeight)
	return model.BBox{X0: g.X0, Y0: y0, X1: g.X1, Y1: y1}
}

// fontFlags derives weight and slant from the font's name, the only styling
// signal the source reliably carries.
func fontFlags(fontName string) (bold, italic bool) {
	n := strings.ToLower(fontName)
	bold = strings.Contains(n, "bold")
	italic = strings.Contains(n, "italic") || strings.Contains(n, "oblique")
	return bold, italic
}
