package render

import "strings"

// renderBody walks markdown lines and draws each as a heading, bullet,
// numbered item, table or paragraph.
func renderBody(c *composer, lines []string) {
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if n := tableAt(lines, i); n > 0 {
			c.writeTable(lines[i : i+n])
			i += n - 1
			continue
		}

		switch {
		case trimmed == "":
			c.pdf.Ln(3)
		case strings.HasPrefix(trimmed, "### "):
			c.writeSpans(strings.TrimPrefix(trimmed, "### "), "B", 11)
		case strings.HasPrefix(trimmed, "## "):
			c.pdf.Ln(2)
			c.writeSpans(strings.TrimPrefix(trimmed, "## "), "B", 13)
		case strings.HasPrefix(trimmed, "# "):
			c.pdf.Ln(2)
			c.writeSpans(strings.TrimPrefix(trimmed, "# "), "B", 15)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			c.pdf.SetX(pageLeftMargin + 5)
			c.writeSpans("• "+trimmed[2:], "", bodyFontSize)
		case questionNumberRe.MatchString(trimmed):
			c.pdf.SetX(pageLeftMargin + 5)
			c.writeSpans(trimmed, "", bodyFontSize)
		default:
			c.writeSpans(trimmed, "", bodyFontSize)
		}
	}
}

// renderSummary draws the summary body as flowing markdown.
func renderSummary(c *composer, raw string) {
	renderBody(c, strings.Split(normalizeNewlines(raw), "\n"))
}
