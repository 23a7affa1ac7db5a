// Package token defines the data model for linguistically annotated text.
// Tokens are produced once by an external NLP pipeline (tokenizer, tagger,
// dependency parser) and are read-only to the rest of the system.
package token

import "strings"

// Token is a single parsed word with its linguistic annotation.
// The zero value of every annotation field means "not supplied by the parser".
type Token struct {
	// Text is the surface form exactly as it appeared in the input.
	Text string

	// Lemma is the dictionary base form, if the parser supplied one.
	Lemma string

	// POS is the coarse universal part-of-speech tag (e.g., "VERB", "DET").
	POS string

	// Tag is the fine-grained, treebank-specific tag (e.g., "VBZ", "NNS").
	Tag string

	// Dep is the dependency relation to the head token (e.g., "nsubj").
	Dep string

	// Index is the sentence-relative position of the token, 0-based.
	Index int
}

// Lower returns the lowercased surface form.
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}

// Sentence is an ordered sequence of tokens.
type Sentence []Token

// Texts returns the surface forms of all tokens in order.
func (s Sentence) Texts() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Text
	}
	return out
}

// Text returns the sentence as a single space-joined string.
func (s Sentence) Text() string {
	return strings.Join(s.Texts(), " ")
}

// Document is an ordered sequence of sentences.
type Document []Sentence

// Tokens flattens the document into a single token sequence. Token indices
// are renumbered so the result is a valid Sentence.
func (d Document) Tokens() Sentence {
	var out Sentence
	for _, s := range d {
		out = append(out, s...)
	}
	for i := range out {
		out[i].Index = i
	}
	return out
}

// Text returns the document as a single space-joined string.
func (d Document) Text() string {
	parts := make([]string, len(d))
	for i, s := range d {
		parts[i] = s.Text()
	}
	return strings.Join(parts, " ")
}

// Parser is the boundary to the external linguistic pipeline. Implementations
// turn one line of raw text into an annotated document. When tokenize is
// false the input is assumed to be pre-tokenized on spaces.
type Parser interface {
	Parse(text string, tokenize bool) (Document, error)
}
