package epub

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/facsimile-dev/facsimile/model"
)

// buildPageDocument renders one fixed-layout XHTML page. The viewport meta
// matches the page canvas, graphics frames are emitted before text frames
// so text always stacks on top, and every frame is positioned absolutely
// in points.
func buildPageDocument(pc *model.PageContent) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <meta charset="utf-8"/>
`)
	fmt.Fprintf(&sb, "  <title>Page %d</title>\n", pc.PageNum)
	fmt.Fprintf(&sb, "  <meta name=\"viewport\" content=\"width=%d, height=%d\"/>\n",
		int(math.Round(pc.Width)), int(math.Round(pc.Height)))
	sb.WriteString("  <link rel=\"stylesheet\" type=\"text/css\" href=\"styles.css\"/>\n</head>\n<body>\n")

	fmt.Fprintf(&sb, "  <div class=\"page\" style=\"width:%.1fpt;height:%.1fpt;\">\n", pc.Width, pc.Height)

	for _, img := range pc.Images {
		fmt.Fprintf(&sb,
			"    <div class=\"Basic-Graphics-Frame\" style=\"left:%.1fpt;top:%.1fpt;width:%.1fpt;height:%.1fpt;\"><img src=\"images/%s\" alt=\"\"/></div>\n",
			img.X0, img.Y0, img.Width, img.Height, img.Path)
	}

	for _, txt := range pc.Texts {
		style := fmt.Sprintf("left:%.1fpt;top:%.1fpt;width:%.1fpt;height:%.1fpt;font-family:%s;font-size:%.1fpt;line-height:%.1fpt;",
			txt.X0, txt.Y0, txt.X1-txt.X0, txt.Y1-txt.Y0,
			cssFontFamily(txt.FontName), txt.FontSize, txt.LineHeight)
		if txt.Bold {
			style += "font-weight:bold;"
		}
		if txt.Italic {
			style += "font-style:italic;"
		}
		fmt.Fprintf(&sb, "    <div class=\"Basic-Text-Frame\" style=\"%s\"><p>%s</p></div>\n",
			style, html.EscapeString(txt.Text))
	}

	sb.WriteString("  </div>\n</body>\n</html>\n")
	return sb.String()
}

// cssFontFamily turns a source font name into a CSS font-family value.
// Subset prefixes like "ABCDEF+" are stripped; the name is quoted, with a
// serif fallback.
func cssFontFamily(name string) string {
	if i := strings.Index(name, "+"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "serif"
	}
	name = strings.ReplaceAll(name, `"`, "")
	return fmt.Sprintf("&quot;%s&quot;, serif", html.EscapeString(name))
}
