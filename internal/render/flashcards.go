package render

import (
	"sort"

	"studyforge_go_backend/internal/models"
)

const (
	cardCellPadding = 3.0
	cardLineHeight  = 5.0
	cardMinHeight   = 18.0
)

// renderFlashcards draws the card set as a two-column grid, one row per
// card, question on the left and answer on the right. Rows keep the stored
// order.
func renderFlashcards(c *composer, items []models.FlashcardItem) {
	sorted := make([]models.FlashcardItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	colWidth := c.usableWidth() / 2
	textWidth := colWidth - 2*cardCellPadding

	c.pdf.SetFont(fontFamily, "B", 10)
	c.pdf.CellFormat(colWidth, 8, c.tr("Fråga"), "1", 0, "C", false, 0, "")
	c.pdf.CellFormat(colWidth, 8, c.tr("Svar"), "1", 1, "C", false, 0, "")
	c.pdf.SetFont(fontFamily, "", 10)

	_, pageHeight := c.pdf.GetPageSize()
	breakAt := pageHeight - 25

	for _, item := range sorted {
		question := c.tr(StripInline(item.Question))
		answer := c.tr(StripInline(item.Answer))

		qLines := c.pdf.SplitText(question, textWidth)
		aLines := c.pdf.SplitText(answer, textWidth)
		lineCount := len(qLines)
		if len(aLines) > lineCount {
			lineCount = len(aLines)
		}
		rowHeight := float64(lineCount)*cardLineHeight + 2*cardCellPadding
		if rowHeight < cardMinHeight {
			rowHeight = cardMinHeight
		}

		// Rows are drawn manually, so page breaks are too.
		if c.pdf.GetY()+rowHeight > breakAt {
			c.pdf.AddPage()
		}

		x := pageLeftMargin
		y := c.pdf.GetY()
		drawCardCell(c, x, y, colWidth, rowHeight, qLines)
		drawCardCell(c, x+colWidth, y, colWidth, rowHeight, aLines)
		c.pdf.SetXY(pageLeftMargin, y+rowHeight)
	}
}

func drawCardCell(c *composer, x, y, width, height float64, lines []string) {
	c.pdf.Rect(x, y, width, height, "D")
	textY := y + cardCellPadding + cardLineHeight/2
	for _, line := range lines {
		c.pdf.SetXY(x+cardCellPadding, textY-cardLineHeight/2)
		c.pdf.CellFormat(width-2*cardCellPadding, cardLineHeight, line, "", 0, "L", false, 0, "")
		textY += cardLineHeight
	}
}
