// Package merge groups adjacent raw alignment operations into edits.
// Four strategies with different boundary semantics are supported; the
// default rule-based strategy merges only where a span forms one coherent
// linguistic phenomenon, so the classifier can label it as a unit.
package merge

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/annotext/errant/core/align"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/token"
)

// Strategy selects how adjacent non-match operations are grouped.
type Strategy string

const (
	// Rules merges linguistically coherent neighbours (default).
	Rules Strategy = "rules"
	// AllSplit turns every non-match operation into its own edit.
	AllSplit Strategy = "all-split"
	// AllMerge collapses every run of adjacent non-match operations.
	AllMerge Strategy = "all-merge"
	// AllEqual collapses runs of adjacent same-shaped non-match operations.
	AllEqual Strategy = "all-equal"
)

// Strategies lists the accepted strategy names in stable order.
func Strategies() []string {
	return []string{string(Rules), string(AllSplit), string(AllMerge), string(AllEqual)}
}

// ParseStrategy converts a command-line strategy name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Rules, AllSplit, AllMerge, AllEqual:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown merge strategy %q (want one of %s)",
		s, strings.Join(Strategies(), ", "))
}

// Merge collapses the alignment's operations into edits under the given
// strategy. Match operations never become part of an edit. Operation order
// and sequence coverage are preserved; the result for a given input is
// deterministic and idempotent.
func Merge(a align.Alignment, strategy Strategy) ([]edit.Edit, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	edits := []edit.Edit{}
	for _, run := range nonMatchRuns(a.Ops) {
		switch strategy {
		case AllSplit:
			for _, op := range run {
				edits = append(edits, spanEdit(a, []align.Op{op}))
			}
		case AllMerge:
			edits = append(edits, spanEdit(a, run))
		case AllEqual:
			for _, sub := range equalTypeRuns(run) {
				edits = append(edits, spanEdit(a, sub))
			}
		case Rules:
			edits = append(edits, ruleMerge(a, run)...)
		}
	}
	return edits, nil
}

// nonMatchRuns splits the operation sequence into maximal runs of non-match
// operations whose spans are contiguous on both sides. Contiguity is checked
// explicitly so that re-merging already-merged edits (whose spans are
// separated by dropped matches) leaves them untouched.
func nonMatchRuns(ops []align.Op) [][]align.Op {
	var runs [][]align.Op
	var cur []align.Op
	for _, op := range ops {
		if op.Type == align.Match {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		if len(cur) > 0 && !contiguous(cur[len(cur)-1], op) {
			runs = append(runs, cur)
			cur = nil
		}
		cur = append(cur, op)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func contiguous(prev, next align.Op) bool {
	return prev.OrigEnd == next.OrigStart && prev.CorEnd == next.CorStart
}

// equalTypeRuns splits a run into sub-runs sharing one operation kind.
func equalTypeRuns(run []align.Op) [][]align.Op {
	var out [][]align.Op
	start := 0
	for k := 1; k < len(run); k++ {
		if opKind(run[k]) != opKind(run[start]) {
			out = append(out, run[start:k])
			start = k
		}
	}
	return append(out, run[start:])
}

// opKind buckets an operation by span shape rather than by its nominal type.
// Shape survives a round trip through an edit, so transpositions and
// already-merged spans re-fed as opaque operations keep their identity
// instead of collapsing into neighbouring single-token substitutions.
func opKind(op align.Op) int {
	switch {
	case op.CorStart == op.CorEnd:
		return kindDeletion
	case op.OrigStart == op.OrigEnd:
		return kindInsertion
	case op.OrigEnd-op.OrigStart == 1 && op.CorEnd-op.CorStart == 1:
		return kindSubstitution
	}
	return kindWide
}

const (
	kindDeletion = iota
	kindInsertion
	kindSubstitution
	kindWide
)

// spanEdit builds a single edit covering the given contiguous operations.
func spanEdit(a align.Alignment, ops []align.Op) edit.Edit {
	first, last := ops[0], ops[len(ops)-1]
	return edit.New(a.Orig, a.Cor, first.OrigStart, last.OrigEnd, first.CorStart, last.CorEnd)
}

// ruleMerge clusters a run of adjacent non-match operations, joining two
// neighbouring clusters whenever a merge rule fires at their boundary. The
// pass repeats until no boundary fires, so the clustering is a fixed point:
// feeding the resulting edits back through reproduces the same spans.
func ruleMerge(a align.Alignment, run []align.Op) []edit.Edit {
	clusters := make([][]align.Op, len(run))
	for i := range run {
		clusters[i] = run[i : i+1]
	}
	for changed := true; changed; {
		changed = false
		out := make([][]align.Op, 0, len(clusters))
		cur := clusters[0]
		for _, next := range clusters[1:] {
			if mergeBoundary(a, cur, next) {
				cur = append(append([]align.Op{}, cur...), next...)
				changed = true
			} else {
				out = append(out, cur)
				cur = next
			}
		}
		clusters = append(out, cur)
	}
	edits := make([]edit.Edit, len(clusters))
	for i, c := range clusters {
		edits[i] = spanEdit(a, c)
	}
	return edits
}

// mergeBoundary decides whether the cluster next joins the cluster cur.
// Rules, in order: punctuation changes never mix with content changes;
// reordered spans stay standalone; possessive and contraction pieces merge
// with their hosts; spans that recombine into the same word (whitespace or
// hyphen differences) merge; adjacent changes sharing a lemma merge; a
// determiner change merges with an adjacent content-word change.
func mergeBoundary(a align.Alignment, cur, next []align.Op) bool {
	co, cc := spanTokens(a, cur[0], cur[len(cur)-1])
	no, nc := spanTokens(a, next[0], next[len(next)-1])

	curPunct := punctOnly(co, cc)
	nextPunct := punctOnly(no, nc)
	if curPunct != nextPunct {
		return false
	}
	if curPunct && nextPunct {
		return true
	}
	if reordered(co, cc) || reordered(no, nc) {
		return false
	}
	// A clitic binds only to the token it touches, so look at the boundary
	// tokens rather than the whole spans.
	if hasClitic(firstToken(no)) || hasClitic(firstToken(nc)) ||
		hasClitic(lastToken(co)) || hasClitic(lastToken(cc)) {
		return true
	}
	// Whole merged span collapses to one written form, e.g. "sub way" vs
	// "subway" or "well-known" vs "well known".
	mo := append(append(token.Sentence{}, co...), no...)
	mc := append(append(token.Sentence{}, cc...), nc...)
	if len(mo) > 0 && len(mc) > 0 && squash(mo) == squash(mc) {
		return true
	}
	if sharedLemma(lastToken(co), no) || sharedLemma(lastToken(cc), nc) {
		return true
	}
	if detContent(co, cc, no, nc) {
		return true
	}
	return false
}

func spanTokens(a align.Alignment, first, last align.Op) (token.Sentence, token.Sentence) {
	return a.Orig[first.OrigStart:last.OrigEnd], a.Cor[first.CorStart:last.CorEnd]
}

func firstToken(s token.Sentence) token.Sentence {
	if len(s) == 0 {
		return nil
	}
	return s[:1]
}

func lastToken(s token.Sentence) token.Sentence {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1:]
}

// punctOnly reports whether every token on both sides is punctuation. Empty
// sides are ignored; a fully empty pair is not punctuation.
func punctOnly(o, c token.Sentence) bool {
	if len(o) == 0 && len(c) == 0 {
		return false
	}
	for _, s := range []token.Sentence{o, c} {
		for _, t := range s {
			if !IsPunct(t) {
				return false
			}
		}
	}
	return true
}

// IsPunct reports whether a token is punctuation, by POS tag when present or
// by character class otherwise.
func IsPunct(t token.Token) bool {
	if t.POS != "" {
		return t.POS == "PUNCT"
	}
	if t.Text == "" {
		return false
	}
	for _, r := range t.Text {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// reordered reports whether the two spans contain the same tokens, ignoring
// case, in a different order. Such spans are word-order phenomena and are
// kept as standalone edits.
func reordered(o, c token.Sentence) bool {
	if len(o) < 2 || len(o) != len(c) {
		return false
	}
	lo, lc := lowerTexts(o), lowerTexts(c)
	same := true
	for i := range lo {
		if lo[i] != lc[i] {
			same = false
			break
		}
	}
	if same {
		return false
	}
	sort.Strings(lo)
	sort.Strings(lc)
	for i := range lo {
		if lo[i] != lc[i] {
			return false
		}
	}
	return true
}

func lowerTexts(s token.Sentence) []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Lower()
	}
	return out
}

// clitics are token forms that only exist attached to a host word; an edit
// touching one is incomplete without its neighbour.
var clitics = map[string]bool{
	"'s":  true,
	"s'":  true,
	"'":   true,
	"n't": true,
	"'re": true,
	"'ve": true,
	"'ll": true,
	"'m":  true,
	"'d":  true,
}

func hasClitic(s token.Sentence) bool {
	for _, t := range s {
		if clitics[t.Lower()] {
			return true
		}
	}
	return false
}

// squash joins span text with spaces and hyphens removed, lowercased.
func squash(s token.Sentence) string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(strings.ToLower(t.Text))
	}
	return strings.ReplaceAll(b.String(), "-", "")
}

// sharedLemma reports whether the boundary tokens share a non-empty lemma.
func sharedLemma(a, b token.Sentence) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Lemma != "" && x.Lemma == y.Lemma {
				return true
			}
		}
	}
	return false
}

// detContent reports a determiner change adjacent to a content-word change.
func detContent(co, cc, no, nc token.Sentence) bool {
	return (allPOS(co, cc, "DET") && anyContent(no, nc)) ||
		(allPOS(no, nc, "DET") && anyContent(co, cc))
}

func allPOS(o, c token.Sentence, pos string) bool {
	if len(o) == 0 && len(c) == 0 {
		return false
	}
	for _, s := range []token.Sentence{o, c} {
		for _, t := range s {
			if t.POS != pos {
				return false
			}
		}
	}
	return true
}

func anyContent(o, c token.Sentence) bool {
	for _, s := range []token.Sentence{o, c} {
		for _, t := range s {
			switch t.POS {
			case "NOUN", "PROPN", "ADJ", "NUM":
				return true
			}
		}
	}
	return false
}
