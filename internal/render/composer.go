package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry shared by every content kind.
const (
	pageLeftMargin  = 15.0
	pageTopMargin   = 20.0
	pageRightMargin = 15.0
	lineHeight      = 6.0
	bodyFontSize    = 11.0
	fontFamily      = "Arial"
)

// composer owns the gofpdf document and the header/footer chrome every
// rendered kind shares. Content-specific layout is composed on top of it
// rather than inherited from it.
type composer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// newComposer builds an A4 portrait document with the shared header (title
// and generation timestamp) and footer (page X of Y).
func newComposer(title string, generatedAt time.Time) *composer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageRightMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, 8, tr(title), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetX(-60)
		pdf.CellFormat(45, 8, generatedAt.Format("2006-01-02 15:04"), "", 0, "R", false, 0, "")
		pdf.Ln(12)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Sida %d av {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", bodyFontSize)

	return &composer{pdf: pdf, tr: tr}
}

func (c *composer) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *composer) usableWidth() float64 {
	pageWidth, _ := c.pdf.GetPageSize()
	return pageWidth - pageLeftMargin - pageRightMargin
}

// writeSpans writes one line of text, applying bold/italic spans from the
// inline lexer on top of the given base style.
func (c *composer) writeSpans(text string, baseStyle string, size float64) {
	bold := strings.Contains(baseStyle, "B")
	italic := strings.Contains(baseStyle, "I")

	style := func() string {
		s := ""
		if bold {
			s += "B"
		}
		if italic {
			s += "I"
		}
		return s
	}

	for _, tok := range LexInline(text) {
		switch tok.Kind {
		case TokenBoldOpen:
			bold = true
		case TokenBoldClose:
			bold = strings.Contains(baseStyle, "B")
		case TokenItalicOpen:
			italic = true
		case TokenItalicClose:
			italic = strings.Contains(baseStyle, "I")
		case TokenText:
			c.pdf.SetFont(fontFamily, style(), size)
			c.pdf.Write(lineHeight, c.tr(tok.Text))
		}
	}
	c.pdf.Ln(lineHeight)
	c.pdf.SetFont(fontFamily, baseStyle, bodyFontSize)
}

// writeTable renders a pipe-delimited table as a bordered grid. The second
// row of the input (the `---` separator) is skipped; the first row is drawn
// as a header.
func (c *composer) writeTable(lines []string) {
	rows := make([][]string, 0, len(lines))
	maxCols := 0
	for i, line := range lines {
		if i == 1 && isTableSeparator(line) {
			continue
		}
		cells := splitTableRow(line)
		if len(cells) > maxCols {
			maxCols = len(cells)
		}
		rows = append(rows, cells)
	}
	if maxCols == 0 {
		return
	}

	colWidth := c.usableWidth() / float64(maxCols)
	for rowIdx, cells := range rows {
		style := ""
		if rowIdx == 0 {
			style = "B"
		}
		c.pdf.SetFont(fontFamily, style, 9)
		for col := 0; col < maxCols; col++ {
			cell := ""
			if col < len(cells) {
				cell = StripInline(cells[col])
			}
			c.pdf.CellFormat(colWidth, 7, c.tr(cell), "1", 0, "L", false, 0, "")
		}
		c.pdf.Ln(7)
	}
	c.pdf.SetFont(fontFamily, "", bodyFontSize)
	c.pdf.Ln(2)
}

// isTableRow reports whether a line looks like a pipe-delimited table row.
func isTableRow(line string) bool {
	return strings.Count(line, "|") >= 2
}

// isTableSeparator matches the `|---|---|` line under a table header.
func isTableSeparator(line string) bool {
	return strings.Contains(line, "|") && strings.Contains(line, "---")
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

// tableAt returns the extent of the table starting at lines[start], or 0 if
// no table starts there. A table is a header row followed by a separator
// row.
func tableAt(lines []string, start int) int {
	if start+1 >= len(lines) {
		return 0
	}
	if !isTableRow(lines[start]) || !isTableSeparator(lines[start+1]) {
		return 0
	}
	end := start + 2
	for end < len(lines) && isTableRow(lines[end]) {
		end++
	}
	return end - start
}
