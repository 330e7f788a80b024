package extract

import "fmt"

// Warning is a non-fatal condition encountered while extracting, such as an
// image whose pixel buffer could not be decoded. Warnings are collected and
// returned alongside the extracted content; they never abort a run.
type Warning struct {
	Page    int // 1-indexed, 0 for document-level warnings
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}
