package annotate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/core/token"
)

// wordParser splits on spaces and annotates nothing, like pre-tokenized
// plain-text input.
type wordParser struct{}

func (wordParser) Parse(text string, tokenize bool) (token.Document, error) {
	var s token.Sentence
	for i, w := range strings.Fields(text) {
		s = append(s, token.Token{Text: w, Index: i})
	}
	return token.Document{s}, nil
}

func doc(words ...string) token.Document {
	s := make(token.Sentence, len(words))
	for i, w := range words {
		s[i] = token.Token{Text: w, Index: i}
	}
	return token.Document{s}
}

func TestAnnotateSubstitution(t *testing.T) {
	a := New(Config{})
	edits, err := a.Annotate(doc("I", "is", "happy"), doc("I", "am", "happy"), false, merge.Rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 {
		t.Fatalf("%d edits, want 1", len(edits))
	}
	e := edits[0]
	if e.OrigStart != 1 || e.OrigEnd != 2 || e.CorStart != 1 || e.CorEnd != 2 {
		t.Errorf("spans = (%d,%d|%d,%d), want (1,2|1,2)", e.OrigStart, e.OrigEnd, e.CorStart, e.CorEnd)
	}
	if e.Type != "R:OTHER" {
		t.Errorf("type = %s, want R:OTHER without linguistic annotation", e.Type)
	}
	if got := e.ToM2(0); got != "A 1 2|||R:OTHER|||am|||REQUIRED|||-NONE-|||0" {
		t.Errorf("ToM2 = %q", got)
	}
}

func TestAnnotateClassifiesWithAnnotation(t *testing.T) {
	orig := token.Document{{
		{Text: "I", Lemma: "I", POS: "PRON", Index: 0},
		{Text: "is", Lemma: "be", POS: "VERB", Index: 1},
		{Text: "happy", Lemma: "happy", POS: "ADJ", Index: 2},
	}}
	cor := token.Document{{
		{Text: "I", Lemma: "I", POS: "PRON", Index: 0},
		{Text: "am", Lemma: "be", POS: "VERB", Index: 1},
		{Text: "happy", Lemma: "happy", POS: "ADJ", Index: 2},
	}}
	a := New(Config{})
	edits, err := a.Annotate(orig, cor, false, merge.Rules)
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 || edits[0].Type != "R:VERB" {
		t.Fatalf("edits = %v, want single R:VERB", edits)
	}
}

func TestAnnotateIdenticalPair(t *testing.T) {
	a := New(Config{})
	for _, strategy := range []merge.Strategy{merge.Rules, merge.AllSplit, merge.AllMerge, merge.AllEqual} {
		edits, err := a.Annotate(doc("same", "text"), doc("same", "text"), false, strategy)
		if err != nil {
			t.Fatal(err)
		}
		if len(edits) != 0 {
			t.Errorf("%s: %d edits for identical pair, want 0", strategy, len(edits))
		}
	}
}

func TestAnnotateDeterminism(t *testing.T) {
	a := New(Config{})
	orig := doc("she", "go", "to", "school", "yesterday")
	cor := doc("she", "went", "to", "the", "school")
	first, err := a.Annotate(orig, cor, false, merge.Rules)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := a.Annotate(orig, cor, false, merge.Rules)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestAnnotateBadStrategy(t *testing.T) {
	a := New(Config{})
	if _, err := a.Annotate(doc("x"), doc("y"), false, merge.Strategy("fuse")); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestParseRequiresParser(t *testing.T) {
	a := New(Config{})
	_, err := a.Parse("some text", true)
	if err == nil {
		t.Fatal("Parse without parser succeeded")
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("error %v does not wrap ErrUnsupported", err)
	}

	a = New(Config{Parser: wordParser{}})
	d, err := a.Parse("two words", true)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Tokens().Text(); got != "two words" {
		t.Errorf("parsed text = %q", got)
	}
}

func TestAnnotateDropsNoopEdits(t *testing.T) {
	// A transposition of identical-after-casing tokens is still an edit; a
	// span that is token-identical is not.
	a := New(Config{})
	edits, err := a.Annotate(doc("a", "a"), doc("a", "a"), false, merge.AllMerge)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range edits {
		if e.Type == edit.NoopType {
			t.Errorf("noop edit leaked into output: %v", e)
		}
	}
}
