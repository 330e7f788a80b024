package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facsimile-dev/facsimile/model"
)

// metadataFile is the name of the sidecar summarizing an extraction run.
const metadataFile = "extraction_metadata.json"

type metadataSidecar struct {
	TotalPages int               `json:"total_pages"`
	Title      string            `json:"title"`
	Author     string            `json:"author"`
	Pages      []pageMetaSummary `json:"pages"`
}

type pageMetaSummary struct {
	PageNum    int     `json:"page_num"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	TextCount  int     `json:"text_count"`
	ImageCount int     `json:"image_count"`
}

// writeMetadata persists the extraction summary under the working
// directory's metadata/ subdirectory.
func writeMetadata(workDir string, meta model.DocumentMetadata, pages []model.PageContent) error {
	sidecar := metadataSidecar{
		TotalPages: meta.TotalPages,
		Title:      meta.Title,
		Author:     meta.Author,
		Pages:      make([]pageMetaSummary, 0, len(pages)),
	}
	for i := range pages {
		sidecar.Pages = append(sidecar.Pages, pageMetaSummary{
			PageNum:    pages[i].PageNum,
			Width:      pages[i].Width,
			Height:     pages[i].Height,
			TextCount:  len(pages[i].Texts),
			ImageCount: len(pages[i].Images),
		})
	}

	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return fmt.Errorf("extract: marshal metadata: %w", err)
	}
	path := filepath.Join(workDir, "metadata", metadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("extract: write metadata: %w", err)
	}
	return nil
}
