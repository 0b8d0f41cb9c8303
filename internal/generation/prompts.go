package generation

import (
	"fmt"
	"strings"
)

// Prompt temperatures per content kind. Flashcards need deterministic JSON;
// summaries tolerate a little more freedom.
const (
	flashcardTemperature = 0.3
	practiceTemperature  = 0.5
	summaryTemperature   = 0.4
	namingTemperature    = 0.7

	generationMaxTokens = 8192
	namingMaxTokens     = 64
)

func flashcardSystemPrompt(opts Options) string {
	var b strings.Builder
	b.WriteString("You are a study assistant that creates flashcards from course material. ")
	if opts.Count != nil {
		fmt.Fprintf(&b, "Produce exactly %d flashcards. ", *opts.Count)
	} else {
		b.WriteString("Choose an appropriate number of flashcards for the amount of material. ")
	}
	if opts.Difficulty != "" {
		fmt.Fprintf(&b, "Target difficulty: %s. ", opts.Difficulty)
	}
	b.WriteString("Respond with a JSON array only, no surrounding prose. ")
	b.WriteString(`Each element must be an object with exactly two string fields: "question" and "answer".`)
	return b.String()
}

func practiceTestSystemPrompt(opts Options) string {
	var b strings.Builder
	b.WriteString("You are a study assistant that writes practice tests from course material. ")
	if opts.Count != nil {
		fmt.Fprintf(&b, "Write exactly %d questions. ", *opts.Count)
	} else {
		b.WriteString("Choose an appropriate number of questions for the amount of material. ")
	}
	if opts.Difficulty != "" {
		fmt.Fprintf(&b, "Target difficulty: %s. ", opts.Difficulty)
	}
	if len(opts.QuestionTypes) > 0 {
		fmt.Fprintf(&b, "Use only these question types: %s. ", strings.Join(opts.QuestionTypes, ", "))
	}
	b.WriteString("Number the questions 1., 2., 3. and so on. ")
	b.WriteString(`After all questions, add an answer key section titled "## Facit". `)
	if opts.IncludeExplanations {
		b.WriteString("In the answer key, give a short explanation for every answer. ")
	} else {
		b.WriteString("In the answer key, list only the answers. ")
	}
	b.WriteString("Write in the same language as the source material.")
	return b.String()
}

func summarySystemPrompt(opts Options) string {
	var b strings.Builder
	b.WriteString("You are a study assistant that summarizes course material. ")
	switch opts.Length {
	case LengthShort:
		b.WriteString("Keep the summary brief, at most half a page. ")
	case LengthDetailed:
		b.WriteString("Write a thorough summary covering every major topic. ")
	default:
		b.WriteString("Write a summary of moderate length. ")
	}
	switch opts.Format {
	case FormatBullets:
		b.WriteString("Use markdown headings with bullet lists under each. ")
	default:
		b.WriteString("Use markdown headings with short paragraphs under each. ")
	}
	b.WriteString("Write in the same language as the source material.")
	return b.String()
}

func namingSystemPrompt() string {
	return "You name study tests. Given course material, respond with a single short, " +
		"descriptive test name in the material's language. No quotes, no punctuation, max six words."
}

func userPrompt(aggregatedText, instructions string) string {
	var b strings.Builder
	if instructions != "" {
		b.WriteString("Additional instructions from the teacher:\n")
		b.WriteString(instructions)
		b.WriteString("\n\n")
	}
	b.WriteString("Course material:\n\n")
	b.WriteString(aggregatedText)
	return b.String()
}
