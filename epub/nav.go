package epub

import (
	"fmt"
	"html"
	"strings"
)

// buildNavDocument renders the EPUB 3 navigation document: one table of
// contents entry per page.
func buildNavDocument(title string, pageCount int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <meta charset="utf-8"/>
`)
	fmt.Fprintf(&sb, "  <title>%s</title>\n", html.EscapeString(title))
	sb.WriteString(`</head>
<body>
  <nav epub:type="toc" id="toc">
    <ol>
`)
	for n := 1; n <= pageCount; n++ {
		fmt.Fprintf(&sb, "      <li><a href=\"page%03d.xhtml\">Page %d</a></li>\n", n, n)
	}
	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)
	return sb.String()
}
