// Package annotate ties the alignment, merge and classification stages into
// a single annotator operating on pre-parsed sentence pairs.
package annotate

import (
	"github.com/annotext/errant/core/align"
	"github.com/annotext/errant/core/classify"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/core/stem"
	"github.com/annotext/errant/core/token"
)

// Config assembles an annotator. Parser is required for Parse; the other
// resources are optional and tune individual classifier rules.
type Config struct {
	// Parser turns raw text into annotated documents.
	Parser token.Parser

	// Stemmer backs morphological comparisons when the parser supplies no
	// lemma. Defaults to the English suffix table.
	Stemmer *stem.Stemmer

	// Wordlist enables the spelling rule when non-nil.
	Wordlist classify.Wordlist
}

// Annotator aligns an original sentence with a corrected one, merges the raw
// operations and classifies each merged edit. All stages are deterministic:
// the same inputs always produce byte-identical output.
type Annotator struct {
	cfg Config
}

// New creates an annotator from the given configuration.
func New(cfg Config) *Annotator {
	return &Annotator{cfg: cfg}
}

// Parse delegates to the configured linguistic parser.
func (a *Annotator) Parse(text string, tokenize bool) (token.Document, error) {
	if a.cfg.Parser == nil {
		return nil, errors.NewUnsupported("parse", "no parser configured")
	}
	return a.cfg.Parser.Parse(text, tokenize)
}

// Annotate extracts the classified edits that transform orig into cor.
// Documents are flattened to single token sequences first, matching the
// line-oriented input contract. Edits whose spans are token-identical are
// dropped; a pair with no differences yields an empty slice.
func (a *Annotator) Annotate(orig, cor token.Document, lev bool, strategy merge.Strategy) ([]edit.Edit, error) {
	return a.AnnotateTokens(orig.Tokens(), cor.Tokens(), lev, strategy)
}

// AnnotateTokens is Annotate for callers that already hold flat sentences.
func (a *Annotator) AnnotateTokens(orig, cor token.Sentence, lev bool, strategy merge.Strategy) ([]edit.Edit, error) {
	alignment := align.Align(orig, cor, lev)
	if err := alignment.Validate(); err != nil {
		return nil, errors.NewInvariant("align", err.Error())
	}
	merged, err := merge.Merge(alignment, strategy)
	if err != nil {
		return nil, err
	}
	edits := merged[:0]
	for _, e := range merged {
		classify.Classify(&e, classify.Options{
			Wordlist: a.cfg.Wordlist,
			Stemmer:  a.cfg.Stemmer,
		})
		if e.Type == edit.NoopType {
			continue
		}
		edits = append(edits, e)
	}
	return edits, nil
}
