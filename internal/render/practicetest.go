package render

import (
	"regexp"
	"strings"
)

// answerKeyMarkers are matched case-insensitively against heading lines, in
// preference order, to find where the answer key begins.
var answerKeyMarkers = []string{"facit", "answer key", "answers", "svar"}

var questionNumberRe = regexp.MustCompile(`^\d+\.\s`)

// renderPracticeTest draws the question section, then forces a page break
// before the answer key so the test can be handed out without answers.
func renderPracticeTest(c *composer, raw string) {
	lines := strings.Split(normalizeNewlines(raw), "\n")

	boundary := findAnswerKeyBoundary(lines)
	questions := lines
	var answers []string
	if boundary >= 0 {
		questions = lines[:boundary]
		answers = lines[boundary:]
	}

	renderQuestionRegion(c, questions)

	if len(answers) > 0 {
		c.pdf.AddPage()
		renderBody(c, answers)
	}
}

// findAnswerKeyBoundary locates the first heading line whose text contains
// an answer-key marker. Markers are tried in preference order so a document
// containing both "Facit" and a later "Svar" heading splits at "Facit".
func findAnswerKeyBoundary(lines []string) int {
	for _, marker := range answerKeyMarkers {
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "#") {
				continue
			}
			heading := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			if strings.Contains(heading, marker) {
				return i
			}
		}
	}
	return -1
}

// questionSegment is one layout unit of the questions region.
type questionSegment struct {
	table []string // pipe table lines, drawn as a bordered grid
	block []string // one numbered question with its trailing lines
	prose string   // a line outside any question block
}

// splitQuestionRegion groups the question region's lines into pipe tables,
// numbered-question blocks and loose prose. Tables are detected first so a
// grid following a question is never swallowed into the question's frame.
func splitQuestionRegion(lines []string) []questionSegment {
	var segments []questionSegment
	var block []string
	flush := func() {
		if len(block) > 0 {
			segments = append(segments, questionSegment{block: block})
			block = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		if n := tableAt(lines, i); n > 0 {
			flush()
			segments = append(segments, questionSegment{table: lines[i : i+n]})
			i += n - 1
			continue
		}

		trimmed := strings.TrimSpace(lines[i])
		switch {
		case questionNumberRe.MatchString(trimmed):
			flush()
			block = append(block, trimmed)
		case trimmed == "":
			flush()
		case len(block) > 0:
			block = append(block, trimmed)
		default:
			segments = append(segments, questionSegment{prose: lines[i]})
		}
	}
	flush()
	return segments
}

// renderQuestionRegion draws each numbered question framed so multi-line
// questions with alternatives hold together visually, with tables and prose
// (instructions, headings) flowing between the frames.
func renderQuestionRegion(c *composer, lines []string) {
	for _, seg := range splitQuestionRegion(lines) {
		switch {
		case len(seg.table) > 0:
			c.writeTable(seg.table)
		case len(seg.block) > 0:
			text := StripInline(strings.Join(seg.block, "\n"))
			c.pdf.SetFont(fontFamily, "", bodyFontSize)
			c.pdf.MultiCell(c.usableWidth(), lineHeight, c.tr(text), "1", "L", false)
			c.pdf.Ln(3)
		default:
			renderBody(c, []string{seg.prose})
		}
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
