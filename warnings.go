package facsimile

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal condition collected during a conversion run. A
// run that produces warnings still produced a usable package.
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

// FormatWarnings renders warnings one per line for display.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
