package render

import "strings"

// TokenKind classifies one lexed span of inline markdown.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenBoldOpen
	TokenBoldClose
	TokenItalicOpen
	TokenItalicClose
)

type Token struct {
	Kind TokenKind
	Text string
}

// LexInline tokenizes `**bold**` and `*italic*`/`_italic_` delimiters in a
// single pass. A delimiter only opens a span when a matching closer exists
// later in the input; otherwise it is emitted as literal text, so malformed
// input can never produce an unbalanced token stream.
func LexInline(input string) []Token {
	var tokens []Token
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: text.String()})
			text.Reset()
		}
	}

	bold := false
	italic := false
	var italicDelim byte

	i := 0
	for i < len(input) {
		if strings.HasPrefix(input[i:], "**") {
			if bold {
				flush()
				tokens = append(tokens, Token{Kind: TokenBoldClose})
				bold = false
				i += 2
				continue
			}
			if strings.Contains(input[i+2:], "**") {
				flush()
				tokens = append(tokens, Token{Kind: TokenBoldOpen})
				bold = true
				i += 2
				continue
			}
			text.WriteString("**")
			i += 2
			continue
		}

		c := input[i]
		if c == '*' || c == '_' {
			if italic && c == italicDelim {
				flush()
				tokens = append(tokens, Token{Kind: TokenItalicClose})
				italic = false
				i++
				continue
			}
			if !italic && strings.IndexByte(input[i+1:], c) >= 0 {
				flush()
				tokens = append(tokens, Token{Kind: TokenItalicOpen})
				italic = true
				italicDelim = c
				i++
				continue
			}
			text.WriteByte(c)
			i++
			continue
		}

		text.WriteByte(c)
		i++
	}

	flush()
	return tokens
}

// StripInline returns the text content with delimiters removed, for contexts
// where styling cannot be applied.
func StripInline(input string) string {
	var b strings.Builder
	for _, tok := range LexInline(input) {
		if tok.Kind == TokenText {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}
