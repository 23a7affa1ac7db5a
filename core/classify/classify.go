// Package classify assigns an error-type label to each merged edit. The
// label has two parts: an operation prefix (M for missing, U for unnecessary,
// R for replacement) and a grammatical category chosen by an ordered table of
// rules evaluated in fixed order, first match wins. Unclassifiable edits take
// the terminal OTHER category; that is a defined outcome, not a failure.
package classify

import (
	"sort"
	"strings"

	"github.com/annotext/errant/core/align"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/core/stem"
	"github.com/annotext/errant/core/token"
)

// Wordlist answers membership queries against a spelling lexicon.
type Wordlist interface {
	Contains(word string) bool
}

// Options carries the optional language resources used by individual rules.
// A nil Wordlist disables the spelling rule; a nil Stemmer limits the
// morphology rule to parser-supplied lemmas.
type Options struct {
	Wordlist Wordlist
	Stemmer  *stem.Stemmer
}

// spellSimilarity is the minimum character similarity between an unknown
// word and its replacement for the pair to count as a misspelling rather
// than a word choice error.
const spellSimilarity = 0.5

// ruleContext is the evidence a rule inspects: the two spans plus resources.
type ruleContext struct {
	orig token.Sentence
	cor  token.Sentence
	opts Options
}

// rule is one row of the cascade: a name for inspection and a predicate that
// either yields a category or passes.
type rule struct {
	name     string
	classify func(c *ruleContext) (string, bool)
}

// cascade is the fixed rule order. Reordering rows changes classification
// output, so the order is part of the package contract.
var cascade = []rule{
	{"punctuation", punctuationRule},
	{"orthography", orthographyRule},
	{"word-order", wordOrderRule},
	{"spelling", spellingRule},
	{"contraction", contractionRule},
	{"possessive", possessiveRule},
	{"verb-inflection", verbInflectionRule},
	{"noun-number", nounNumberRule},
	{"morphology", morphologyRule},
	{"pos", posRule},
}

// RuleNames lists the cascade row names in evaluation order.
func RuleNames() []string {
	out := make([]string, len(cascade))
	for i, r := range cascade {
		out[i] = r.name
	}
	return out
}

// Classify determines the edit's error-type label and stores it in e.Type.
// Token-identical spans degenerate to the no-edit sentinel.
func Classify(e *edit.Edit, opts Options) {
	if e.IsNoop() {
		e.Type = edit.NoopType
		return
	}
	c := &ruleContext{orig: e.OrigTokens(), cor: e.CorTokens(), opts: opts}
	category := "OTHER"
	for _, r := range cascade {
		if cat, ok := r.classify(c); ok {
			category = cat
			break
		}
	}
	e.Type = prefix(c) + ":" + category
}

// prefix derives the operation code from the span shapes.
func prefix(c *ruleContext) string {
	switch {
	case len(c.orig) == 0:
		return "M"
	case len(c.cor) == 0:
		return "U"
	}
	return "R"
}

func punctuationRule(c *ruleContext) (string, bool) {
	for _, s := range []token.Sentence{c.orig, c.cor} {
		for _, t := range s {
			if !merge.IsPunct(t) {
				return "", false
			}
		}
	}
	return "PUNCT", true
}

// orthographyRule covers case and spacing: both spans collapse to the same
// letters once whitespace and hyphens are removed and case is ignored.
func orthographyRule(c *ruleContext) (string, bool) {
	if len(c.orig) == 0 || len(c.cor) == 0 {
		return "", false
	}
	if squash(c.orig) == squash(c.cor) {
		return "ORTH", true
	}
	return "", false
}

func squash(s token.Sentence) string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(strings.ToLower(t.Text))
	}
	return strings.ReplaceAll(b.String(), "-", "")
}

// wordOrderRule fires when the same token set appears on both sides in a
// different order.
func wordOrderRule(c *ruleContext) (string, bool) {
	if len(c.orig) < 2 || len(c.orig) != len(c.cor) {
		return "", false
	}
	lo, lc := lowerTexts(c.orig), lowerTexts(c.cor)
	same := true
	for i := range lo {
		if lo[i] != lc[i] {
			same = false
			break
		}
	}
	if same {
		return "", false
	}
	sort.Strings(lo)
	sort.Strings(lc)
	for i := range lo {
		if lo[i] != lc[i] {
			return "", false
		}
	}
	return "WO", true
}

func lowerTexts(s token.Sentence) []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Lower()
	}
	return out
}

// spellingRule fires for a single-token replacement of a word the lexicon
// does not know by a known word it closely resembles.
func spellingRule(c *ruleContext) (string, bool) {
	if c.opts.Wordlist == nil || len(c.orig) != 1 || len(c.cor) != 1 {
		return "", false
	}
	o, cr := c.orig[0], c.cor[0]
	if !alphabetic(o.Text) || !alphabetic(cr.Text) {
		return "", false
	}
	if c.opts.Wordlist.Contains(o.Lower()) || !c.opts.Wordlist.Contains(cr.Lower()) {
		return "", false
	}
	if align.Similarity(o.Lower(), cr.Lower()) < spellSimilarity {
		return "", false
	}
	return "SPELL", true
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return r == '\'' || r == '-' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 0x7f
}

// contractions maps clitic forms to recognition; an edit swapping between a
// clitic and its full form is a contraction error.
var contractions = map[string]bool{
	"n't": true,
	"'re": true,
	"'ve": true,
	"'ll": true,
	"'m":  true,
	"'d":  true,
	"ca":  true,
	"wo":  true,
	"sha": true,
}

func contractionRule(c *ruleContext) (string, bool) {
	if len(c.orig) > 2 || len(c.cor) > 2 {
		return "", false
	}
	for _, s := range []token.Sentence{c.orig, c.cor} {
		for _, t := range s {
			if contractions[t.Lower()] {
				return "CONTR", true
			}
		}
	}
	return "", false
}

func possessiveRule(c *ruleContext) (string, bool) {
	if len(c.orig) == 0 && len(c.cor) == 0 {
		return "", false
	}
	for _, s := range []token.Sentence{c.orig, c.cor} {
		for _, t := range s {
			if !possessiveToken(t) {
				return "", false
			}
		}
	}
	return "NOUN:POSS", true
}

func possessiveToken(t token.Token) bool {
	if t.Tag == "POS" {
		return true
	}
	low := t.Lower()
	return low == "'s" || low == "s'"
}

// verbInflectionRule refines same-lemma verb substitutions using fine tags:
// third-person agreement, tense and non-finite form errors.
func verbInflectionRule(c *ruleContext) (string, bool) {
	o, cr, ok := singlePair(c)
	if !ok {
		return "", false
	}
	if !verbish(o.POS) || !verbish(cr.POS) {
		return "", false
	}
	if o.Lemma == "" || o.Lemma != cr.Lemma {
		return "", false
	}
	if o.Tag == "" || cr.Tag == "" || o.Tag == cr.Tag {
		return "", false
	}
	if sva(o.Tag, cr.Tag) {
		return "VERB:SVA", true
	}
	if past(o.Tag) != past(cr.Tag) {
		return "VERB:TENSE", true
	}
	return "VERB:FORM", true
}

func verbish(pos string) bool {
	return pos == "VERB" || pos == "AUX"
}

func sva(a, b string) bool {
	return (a == "VBZ" && b == "VBP") || (a == "VBP" && b == "VBZ")
}

func past(tag string) bool {
	return tag == "VBD" || tag == "VBN"
}

// nounNumberRule fires for same-lemma singular/plural noun substitutions.
func nounNumberRule(c *ruleContext) (string, bool) {
	o, cr, ok := singlePair(c)
	if !ok {
		return "", false
	}
	if o.POS != "NOUN" || cr.POS != "NOUN" {
		return "", false
	}
	if o.Lemma == "" || o.Lemma != cr.Lemma {
		return "", false
	}
	if (o.Tag == "NN" && cr.Tag == "NNS") || (o.Tag == "NNS" && cr.Tag == "NN") {
		return "NOUN:NUM", true
	}
	return "", false
}

// morphologyRule covers inflectional changes on a shared base: the surface
// forms differ but strip to the same stem. Stemmed equality is required even
// when lemmas agree, so that suppletive pairs like "is"/"am" fall through to
// part-of-speech classification instead.
func morphologyRule(c *ruleContext) (string, bool) {
	o, cr, ok := singlePair(c)
	if !ok {
		return "", false
	}
	if o.Text == cr.Text {
		return "", false
	}
	st := c.opts.Stemmer
	if st == nil {
		st = stem.English()
	}
	if st.Stem(o.Lower()) != st.Stem(cr.Lower()) {
		return "", false
	}
	if o.Lemma != "" && cr.Lemma != "" && o.Lemma != cr.Lemma {
		return "", false
	}
	return "MORPH", true
}

// posRule maps an edit whose tokens all share one part of speech onto that
// POS category. It applies to insertions and deletions as well as
// replacements.
func posRule(c *ruleContext) (string, bool) {
	cat := ""
	for _, s := range []token.Sentence{c.orig, c.cor} {
		for _, t := range s {
			mapped, ok := posCategory[t.POS]
			if !ok {
				return "", false
			}
			if cat == "" {
				cat = mapped
				continue
			}
			if cat != mapped {
				return "", false
			}
		}
	}
	if cat == "" {
		return "", false
	}
	return cat, true
}

// posCategory maps universal POS tags onto taxonomy categories. Tags absent
// from the map (INTJ, NUM, SYM, X) carry too little signal and fall through
// to OTHER.
var posCategory = map[string]string{
	"ADJ":   "ADJ",
	"ADP":   "PREP",
	"ADV":   "ADV",
	"AUX":   "VERB",
	"CCONJ": "CONJ",
	"CONJ":  "CONJ",
	"SCONJ": "CONJ",
	"DET":   "DET",
	"NOUN":  "NOUN",
	"PROPN": "NOUN",
	"PART":  "PART",
	"PRON":  "PRON",
	"PUNCT": "PUNCT",
	"VERB":  "VERB",
}

func singlePair(c *ruleContext) (token.Token, token.Token, bool) {
	if len(c.orig) != 1 || len(c.cor) != 1 {
		return token.Token{}, token.Token{}, false
	}
	return c.orig[0], c.cor[0], true
}
