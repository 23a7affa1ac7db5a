package corpus

import (
	"regexp"
	"strings"

	"github.com/annotext/errant/core/token"
)

// PlainParser is the fallback token.Parser for input with no linguistic
// annotation available. With tokenize set it splits words, numbers and
// punctuation runs with a rune-class pattern; otherwise it assumes the line
// is already space-tokenized. Tokens carry only surface text, so the
// downstream classifier falls back to surface and stem heuristics.
type PlainParser struct{}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}]+|\d+|[^\s\p{L}\p{M}\d]`)

// Parse implements token.Parser. The result is a single-sentence document.
func (PlainParser) Parse(text string, tokenize bool) (token.Document, error) {
	var parts []string
	if tokenize {
		parts = tokenPattern.FindAllString(text, -1)
	} else {
		parts = strings.Fields(text)
	}
	sent := make(token.Sentence, len(parts))
	for i, p := range parts {
		sent[i] = token.Token{Text: p, Index: i}
	}
	return token.Document{sent}, nil
}
