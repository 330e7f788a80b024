package facsimile

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/facsimile-dev/facsimile/epub"
	"github.com/facsimile-dev/facsimile/extract"
	"github.com/facsimile-dev/facsimile/model"
	"github.com/facsimile-dev/facsimile/reader"
	"github.com/facsimile-dev/facsimile/validate"
)

// ErrNoSource indicates a Converter built without a document source.
var ErrNoSource = errors.New("facsimile: no source document")

// reportFile is the name of the validation report written to the work
// directory.
const reportFile = "validation_report.json"

// Converter drives a full conversion run: extraction, package generation,
// and validation of the result against the source.
//
// Converter values are immutable; each configuration method returns a
// modified copy, so a configured Converter can be stored and reused:
//
//	c := facsimile.FromReader(src, "book.pdf").Output("book.epub").Workers(4)
//	result, err := c.Run()
type Converter struct {
	source     reader.DocumentReader
	sourcePath string
	opts       convertOptions
	logger     *log.Logger
}

// Result is the outcome of a successful conversion run.
type Result struct {
	// OutputPath is where the finished package was written.
	OutputPath string

	// Pages is the extracted content, one entry per source page.
	Pages []model.PageContent

	// Metadata is the document metadata carried into the package.
	Metadata model.DocumentMetadata

	// Warnings are the non-fatal conditions hit during extraction.
	Warnings []Warning

	// Report is the validation outcome, nil when validation was disabled.
	Report *validate.Report
}

// FromReader starts a conversion from an already opened document source.
// sourcePath is recorded for reporting; it is never opened.
func FromReader(source reader.DocumentReader, sourcePath string) *Converter {
	return &Converter{
		source:     source,
		sourcePath: sourcePath,
		opts:       defaultOptions(),
		logger:     log.New(io.Discard, "", 0),
	}
}

func (c *Converter) clone() *Converter {
	cp := *c
	return &cp
}

// Output sets the path of the finished package. When unset, the source
// path with an .epub extension is used.
func (c *Converter) Output(path string) *Converter {
	cp := c.clone()
	cp.opts.outputPath = path
	return cp
}

// WorkDir sets the directory for extracted assets, the metadata sidecar,
// and the validation report. When unset, a temporary directory is used and
// removed after the run.
func (c *Converter) WorkDir(dir string) *Converter {
	cp := c.clone()
	cp.opts.workDir = dir
	return cp
}

// Workers sets the number of pages extracted concurrently. Values below 1
// are ignored.
func (c *Converter) Workers(n int) *Converter {
	cp := c.clone()
	if n >= 1 {
		cp.opts.workers = n
	}
	return cp
}

// WithoutValidation skips validating the finished package.
func (c *Converter) WithoutValidation() *Converter {
	cp := c.clone()
	cp.opts.validate = false
	return cp
}

// WithoutNav omits the EPUB 3 navigation document from the package.
func (c *Converter) WithoutNav() *Converter {
	cp := c.clone()
	cp.opts.includeNav = false
	return cp
}

// WithoutNCX omits the legacy NCX table of contents from the package.
func (c *Converter) WithoutNCX() *Converter {
	cp := c.clone()
	cp.opts.includeNCX = false
	return cp
}

// TextFidelityThreshold overrides the fraction of source text that must
// survive into the package before validation records a warning. Values
// outside (0, 1] are ignored.
func (c *Converter) TextFidelityThreshold(f float64) *Converter {
	cp := c.clone()
	if f > 0 && f <= 1 {
		cp.opts.textThreshold = f
	}
	return cp
}

// Logger directs progress logging. The default discards it.
func (c *Converter) Logger(l *log.Logger) *Converter {
	cp := c.clone()
	cp.logger = l
	return cp
}

// Run executes the conversion and returns the result. The package is only
// written when extraction and generation both succeed; a failed validation
// check does not error, it lands in Result.Report.
func (c *Converter) Run() (*Result, error) {
	if c.source == nil {
		return nil, ErrNoSource
	}

	outputPath := c.opts.outputPath
	if outputPath == "" {
		outputPath = derivedOutputPath(c.sourcePath)
	}

	workDir := c.opts.workDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "facsimile-")
		if err != nil {
			return nil, fmt.Errorf("facsimile: work dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	}

	c.logger.Printf("extracting %s", c.sourcePath)
	ex := extract.New(workDir).Workers(c.opts.workers)
	pages, meta, extractWarnings, err := ex.ExtractAll(c.source)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("extracted %d pages", len(pages))

	warnings := make([]Warning, 0, len(extractWarnings))
	for _, w := range extractWarnings {
		warnings = append(warnings, Warning{Page: w.Page, Message: w.Message})
	}

	gen := epub.NewGenerator(outputPath)
	if !c.opts.includeNav {
		gen = gen.WithoutNav()
	}
	if !c.opts.includeNCX {
		gen = gen.WithoutNCX()
	}
	c.logger.Printf("generating %s", outputPath)
	if err := gen.Generate(pages, meta, ex.ImagesDir()); err != nil {
		return nil, err
	}

	result := &Result{
		OutputPath: outputPath,
		Pages:      pages,
		Metadata:   meta,
		Warnings:   warnings,
	}

	if c.opts.validate {
		c.logger.Printf("validating %s", outputPath)
		report := validate.New(c.source, c.sourcePath, outputPath).
			TextFidelityThreshold(c.opts.textThreshold).
			Validate()
		if err := report.Save(filepath.Join(workDir, reportFile)); err != nil {
			return nil, err
		}
		result.Report = report
	}

	return result, nil
}

// derivedOutputPath swaps the source extension for .epub.
func derivedOutputPath(sourcePath string) string {
	if sourcePath == "" {
		return "output.epub"
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".epub"
}
