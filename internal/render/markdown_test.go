package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexInline_PlainText(t *testing.T) {
	tokens := LexInline("just plain text")

	assert.Equal(t, []Token{{Kind: TokenText, Text: "just plain text"}}, tokens)
}

func TestLexInline_Bold(t *testing.T) {
	tokens := LexInline("a **bold** word")

	assert.Equal(t, []Token{
		{Kind: TokenText, Text: "a "},
		{Kind: TokenBoldOpen},
		{Kind: TokenText, Text: "bold"},
		{Kind: TokenBoldClose},
		{Kind: TokenText, Text: " word"},
	}, tokens)
}

func TestLexInline_ItalicStarAndUnderscore(t *testing.T) {
	tokens := LexInline("*one* and _two_")

	assert.Equal(t, []Token{
		{Kind: TokenItalicOpen},
		{Kind: TokenText, Text: "one"},
		{Kind: TokenItalicClose},
		{Kind: TokenText, Text: " and "},
		{Kind: TokenItalicOpen},
		{Kind: TokenText, Text: "two"},
		{Kind: TokenItalicClose},
	}, tokens)
}

func TestLexInline_UnterminatedBoldStaysLiteral(t *testing.T) {
	tokens := LexInline("a **dangling delimiter")

	assert.Equal(t, []Token{{Kind: TokenText, Text: "a **dangling delimiter"}}, tokens)
}

func TestLexInline_LoneStarStaysLiteral(t *testing.T) {
	tokens := LexInline("2 * 3 equals 6")

	assert.Equal(t, []Token{{Kind: TokenText, Text: "2 * 3 equals 6"}}, tokens)
}

func TestLexInline_MismatchedDelimitersDoNotCrossClose(t *testing.T) {
	tokens := LexInline("*mixed_ delimiters* here")

	assert.Equal(t, TokenItalicOpen, tokens[0].Kind)
	assert.Equal(t, Token{Kind: TokenText, Text: "mixed_ delimiters"}, tokens[1])
	assert.Equal(t, TokenItalicClose, tokens[2].Kind)
}

func TestLexInline_BoldInsideItalicText(t *testing.T) {
	tokens := LexInline("**Viktigt:** ordet *betyder* något")

	assert.Equal(t, []Token{
		{Kind: TokenBoldOpen},
		{Kind: TokenText, Text: "Viktigt:"},
		{Kind: TokenBoldClose},
		{Kind: TokenText, Text: " ordet "},
		{Kind: TokenItalicOpen},
		{Kind: TokenText, Text: "betyder"},
		{Kind: TokenItalicClose},
		{Kind: TokenText, Text: " något"},
	}, tokens)
}

func TestStripInline(t *testing.T) {
	assert.Equal(t, "bold and italic", StripInline("**bold** and *italic*"))
	assert.Equal(t, "a **dangling", StripInline("a **dangling"))
}
