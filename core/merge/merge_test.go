package merge

import (
	"testing"

	"github.com/annotext/errant/core/align"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/token"
)

func sent(words ...string) token.Sentence {
	s := make(token.Sentence, len(words))
	for i, w := range words {
		s[i] = token.Token{Text: w, Index: i}
	}
	return s
}

func op(t align.OpType, os, oe, cs, ce int) align.Op {
	return align.Op{Type: t, OrigStart: os, OrigEnd: oe, CorStart: cs, CorEnd: ce}
}

type span struct{ os, oe, cs, ce int }

func spansOf(edits []edit.Edit) []span {
	out := make([]span, len(edits))
	for i, e := range edits {
		out[i] = span{e.OrigStart, e.OrigEnd, e.CorStart, e.CorEnd}
	}
	return out
}

func sameSpans(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reops turns merged edits back into opaque operations, typed by shape.
func reops(edits []edit.Edit) []align.Op {
	ops := make([]align.Op, len(edits))
	for i, e := range edits {
		typ := align.Substitution
		switch {
		case e.CorStart == e.CorEnd:
			typ = align.Deletion
		case e.OrigStart == e.OrigEnd:
			typ = align.Insertion
		}
		ops[i] = op(typ, e.OrigStart, e.OrigEnd, e.CorStart, e.CorEnd)
	}
	return ops
}

func TestParseStrategy(t *testing.T) {
	for _, name := range Strategies() {
		if _, err := ParseStrategy(name); err != nil {
			t.Errorf("ParseStrategy(%q) = %v", name, err)
		}
	}
	if _, err := ParseStrategy("fuse"); err == nil {
		t.Error("ParseStrategy(\"fuse\") succeeded, want error")
	}
}

func TestStrategySemantics(t *testing.T) {
	// One match followed by a contiguous run: S S D I.
	a := align.Alignment{
		Orig: sent("ok", "aa", "bb", "cc"),
		Cor:  sent("ok", "xx", "yy", "zz"),
		Ops: []align.Op{
			op(align.Match, 0, 1, 0, 1),
			op(align.Substitution, 1, 2, 1, 2),
			op(align.Substitution, 2, 3, 2, 3),
			op(align.Deletion, 3, 4, 3, 3),
			op(align.Insertion, 4, 4, 3, 4),
		},
	}
	tests := []struct {
		strategy Strategy
		want     []span
	}{
		{AllSplit, []span{{1, 2, 1, 2}, {2, 3, 2, 3}, {3, 4, 3, 3}, {4, 4, 3, 4}}},
		{AllMerge, []span{{1, 4, 1, 4}}},
		{AllEqual, []span{{1, 3, 1, 3}, {3, 4, 3, 3}, {4, 4, 3, 4}}},
		{Rules, []span{{1, 2, 1, 2}, {2, 3, 2, 3}, {3, 4, 3, 3}, {4, 4, 3, 4}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			edits, err := Merge(a, tt.strategy)
			if err != nil {
				t.Fatal(err)
			}
			if got := spansOf(edits); !sameSpans(got, tt.want) {
				t.Errorf("spans = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesNeverMergeAcross(t *testing.T) {
	a := align.Alignment{
		Orig: sent("aa", "keep", "bb"),
		Cor:  sent("xx", "keep", "yy"),
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Match, 1, 2, 1, 2),
			op(align.Substitution, 2, 3, 2, 3),
		},
	}
	for _, strategy := range []Strategy{Rules, AllSplit, AllMerge, AllEqual} {
		edits, err := Merge(a, strategy)
		if err != nil {
			t.Fatal(err)
		}
		if len(edits) != 2 {
			t.Errorf("%s: %d edits, want 2 (one each side of the match)", strategy, len(edits))
		}
	}
}

func TestRulesPunctuationBoundary(t *testing.T) {
	a := align.Alignment{
		Orig: sent("nice", ",", "!"),
		Cor:  sent("good", ";", "?"),
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Substitution, 1, 2, 1, 2),
			op(align.Substitution, 2, 3, 2, 3),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 1, 0, 1}, {1, 3, 1, 3}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want content split from merged punctuation %v", got, want)
	}
}

func TestRulesCliticMerge(t *testing.T) {
	a := align.Alignment{
		Orig: sent("Alans"),
		Cor:  sent("Alan", "'s"),
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Insertion, 1, 1, 1, 2),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 1, 0, 2}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want possessive merged with host %v", got, want)
	}
}

func TestRulesRecombinedWordMerge(t *testing.T) {
	a := align.Alignment{
		Orig: sent("sub", "way"),
		Cor:  sent("subway"),
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Deletion, 1, 2, 1, 1),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 2, 0, 1}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want whitespace difference merged %v", got, want)
	}
}

func TestRulesReorderedSpanStaysStandalone(t *testing.T) {
	a := align.Alignment{
		Orig: sent("a", "b", "xx"),
		Cor:  sent("b", "a", "yy"),
		Ops: []align.Op{
			op(align.Transposition, 0, 2, 0, 2),
			op(align.Substitution, 2, 3, 2, 3),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 2, 0, 2}, {2, 3, 2, 3}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want reordered span kept separate %v", got, want)
	}
}

func TestRulesSharedLemmaMerge(t *testing.T) {
	orig := token.Sentence{
		{Text: "run", Lemma: "run", POS: "VERB"},
		{Text: "running", Lemma: "run", POS: "VERB"},
	}
	cor := token.Sentence{{Text: "ran", Lemma: "run", POS: "VERB"}}
	a := align.Alignment{
		Orig: orig,
		Cor:  cor,
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Deletion, 1, 2, 1, 1),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 2, 0, 1}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want lemma-sharing neighbours merged %v", got, want)
	}
}

func TestRulesDeterminerContentMerge(t *testing.T) {
	orig := token.Sentence{
		{Text: "a", Lemma: "a", POS: "DET"},
		{Text: "cat", Lemma: "cat", POS: "NOUN"},
	}
	cor := token.Sentence{
		{Text: "the", Lemma: "the", POS: "DET"},
		{Text: "dog", Lemma: "dog", POS: "NOUN"},
	}
	a := align.Alignment{
		Orig: orig,
		Cor:  cor,
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Substitution, 1, 2, 1, 2),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 2, 0, 2}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want determiner merged with content change %v", got, want)
	}
}

func TestRulesCliticBindsHostOnly(t *testing.T) {
	// The possessive joins the word it attaches to, not the edit before it.
	a := align.Alignment{
		Orig: sent("aa", "bb"),
		Cor:  sent("xx", "yy", "'s"),
		Ops: []align.Op{
			op(align.Substitution, 0, 1, 0, 1),
			op(align.Substitution, 1, 2, 1, 2),
			op(align.Insertion, 2, 2, 2, 3),
		},
	}
	edits, err := Merge(a, Rules)
	if err != nil {
		t.Fatal(err)
	}
	want := []span{{0, 1, 0, 1}, {1, 2, 1, 3}}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want clitic bound to host only %v", got, want)
	}
	again, err := Merge(align.Alignment{Orig: a.Orig, Cor: a.Cor, Ops: reops(edits)}, Rules)
	if err != nil {
		t.Fatal(err)
	}
	if got := spansOf(again); !sameSpans(got, want) {
		t.Errorf("re-merge spans = %v, want %v", got, want)
	}
}

func TestAllEqualKeepsTranspositionApart(t *testing.T) {
	a := align.Alignment{
		Orig: sent("b", "a", "x"),
		Cor:  sent("a", "b", "y"),
		Ops: []align.Op{
			op(align.Transposition, 0, 2, 0, 2),
			op(align.Substitution, 2, 3, 2, 3),
		},
	}
	want := []span{{0, 2, 0, 2}, {2, 3, 2, 3}}
	edits, err := Merge(a, AllEqual)
	if err != nil {
		t.Fatal(err)
	}
	if got := spansOf(edits); !sameSpans(got, want) {
		t.Errorf("spans = %v, want transposition apart from substitution %v", got, want)
	}
	again, err := Merge(align.Alignment{Orig: a.Orig, Cor: a.Cor, Ops: reops(edits)}, AllEqual)
	if err != nil {
		t.Fatal(err)
	}
	if got := spansOf(again); !sameSpans(got, want) {
		t.Errorf("re-merge spans = %v, want %v", got, want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	alignments := []align.Alignment{
		{
			Orig: sent("ok", "aa", "bb", "cc"),
			Cor:  sent("ok", "xx", "yy", "zz"),
			Ops: []align.Op{
				op(align.Match, 0, 1, 0, 1),
				op(align.Substitution, 1, 2, 1, 2),
				op(align.Substitution, 2, 3, 2, 3),
				op(align.Deletion, 3, 4, 3, 3),
				op(align.Insertion, 4, 4, 3, 4),
			},
		},
		{
			Orig: sent("nice", ",", "!"),
			Cor:  sent("good", ";", "?"),
			Ops: []align.Op{
				op(align.Substitution, 0, 1, 0, 1),
				op(align.Substitution, 1, 2, 1, 2),
				op(align.Substitution, 2, 3, 2, 3),
			},
		},
		{
			Orig: sent("aa", "bb"),
			Cor:  sent("xx", "yy", "'s"),
			Ops: []align.Op{
				op(align.Substitution, 0, 1, 0, 1),
				op(align.Substitution, 1, 2, 1, 2),
				op(align.Insertion, 2, 2, 2, 3),
			},
		},
		{
			Orig: sent("b", "a", "x"),
			Cor:  sent("a", "b", "y"),
			Ops: []align.Op{
				op(align.Transposition, 0, 2, 0, 2),
				op(align.Substitution, 2, 3, 2, 3),
			},
		},
	}
	for _, a := range alignments {
		for _, strategy := range []Strategy{Rules, AllSplit, AllMerge, AllEqual} {
			first, err := Merge(a, strategy)
			if err != nil {
				t.Fatal(err)
			}
			again, err := Merge(align.Alignment{Orig: a.Orig, Cor: a.Cor, Ops: reops(first)}, strategy)
			if err != nil {
				t.Fatal(err)
			}
			if !sameSpans(spansOf(first), spansOf(again)) {
				t.Errorf("%s: re-merge changed spans %v -> %v", strategy, spansOf(first), spansOf(again))
			}
		}
	}
}

func TestStrategyOrdering(t *testing.T) {
	pairs := [][2]token.Sentence{
		{sent("she", "go", "the", "school"), sent("she", "went", "to", "school", "today")},
		{sent("a", "b"), sent("b", "a")},
		{sent("sub", "way", "is", "fast"), sent("subway", "was", "fast")},
	}
	for _, p := range pairs {
		a := align.Align(p[0], p[1], true)
		counts := map[Strategy]int{}
		for _, strategy := range []Strategy{AllSplit, Rules, AllMerge} {
			edits, err := Merge(a, strategy)
			if err != nil {
				t.Fatal(err)
			}
			counts[strategy] = len(edits)
		}
		if counts[AllSplit] < counts[Rules] || counts[Rules] < counts[AllMerge] {
			t.Errorf("%v -> %v: counts split=%d rules=%d merge=%d violate ordering",
				p[0].Texts(), p[1].Texts(), counts[AllSplit], counts[Rules], counts[AllMerge])
		}
	}
}

func TestIsPunct(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want bool
	}{
		{token.Token{Text: ",", POS: "PUNCT"}, true},
		{token.Token{Text: "word", POS: "PUNCT"}, true},
		{token.Token{Text: ",", POS: "NOUN"}, false},
		{token.Token{Text: "..."}, true},
		{token.Token{Text: "cat"}, false},
		{token.Token{Text: ""}, false},
	}
	for _, tt := range tests {
		if got := IsPunct(tt.tok); got != tt.want {
			t.Errorf("IsPunct(%q/%s) = %v, want %v", tt.tok.Text, tt.tok.POS, got, tt.want)
		}
	}
}
