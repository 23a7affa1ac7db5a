// Package edit defines the merged, classified unit of difference between an
// original sentence and a corrected sentence, and its serialized forms.
package edit

import (
	"fmt"
	"strings"

	"github.com/annotext/errant/core/token"
)

// NoopType is the sentinel label for a sentence pair with no edits.
const NoopType = "noop"

// Edit is one merged difference between the original and corrected token
// sequences. Span indices are 0-based and end-exclusive. Type is assigned by
// the classifier; the edit is immutable afterwards.
type Edit struct {
	OrigStart int
	OrigEnd   int
	CorStart  int
	CorEnd    int

	// Type is the error-type label, e.g. "R:VERB:TENSE" or "M:DET".
	Type string

	orig token.Sentence
	cor  token.Sentence
}

// New creates an edit over the given spans of the two sentences.
func New(orig, cor token.Sentence, origStart, origEnd, corStart, corEnd int) Edit {
	return Edit{
		OrigStart: origStart,
		OrigEnd:   origEnd,
		CorStart:  corStart,
		CorEnd:    corEnd,
		orig:      orig,
		cor:       cor,
	}
}

// OrigTokens returns the original-side span.
func (e Edit) OrigTokens() token.Sentence {
	return e.orig[e.OrigStart:e.OrigEnd]
}

// CorTokens returns the corrected-side span.
func (e Edit) CorTokens() token.Sentence {
	return e.cor[e.CorStart:e.CorEnd]
}

// OrigText returns the space-joined original-side span text.
func (e Edit) OrigText() string {
	return e.OrigTokens().Text()
}

// CorText returns the space-joined corrected-side span text, which is the
// replacement written to annotation output.
func (e Edit) CorText() string {
	return e.CorTokens().Text()
}

// IsNoop reports whether the two spans are token-identical, in which case the
// edit carries no correction and is dropped from output.
func (e Edit) IsNoop() bool {
	o, c := e.OrigTokens(), e.CorTokens()
	if len(o) != len(c) {
		return false
	}
	for i := range o {
		if o[i].Text != c[i].Text {
			return false
		}
	}
	return true
}

// ToM2 renders the edit as a standard annotation line for the given
// annotator index:
//
//	A origStart origEnd|||type|||replacement|||REQUIRED|||-NONE-|||id
func (e Edit) ToM2(annotator int) string {
	label := e.Type
	if label == "" {
		label = "NA"
	}
	return fmt.Sprintf("A %d %d|||%s|||%s|||REQUIRED|||-NONE-|||%d",
		e.OrigStart, e.OrigEnd, label, e.CorText(), annotator)
}

// NoopLine is the sentinel annotation line emitted for a sentence pair that
// produced no edits.
func NoopLine(annotator int) string {
	return fmt.Sprintf("A -1 -1|||%s|||-NONE-|||REQUIRED|||-NONE-|||%d", NoopType, annotator)
}

// ToSrcTrg returns the full original and corrected sentences as space-joined
// source/target text.
func (e Edit) ToSrcTrg() (string, string) {
	return e.orig.Text(), e.cor.Text()
}

// String is a compact debugging form: spans, label and replacement.
func (e Edit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d:%d -> %d:%d] %s", e.OrigStart, e.OrigEnd, e.CorStart, e.CorEnd, e.Type)
	fmt.Fprintf(&b, " %q -> %q", e.OrigText(), e.CorText())
	return b.String()
}
