// Package align computes a minimum-cost edit script between two sentences.
// It runs a modified edit-distance algorithm over annotated tokens: in the
// default mode substitution costs shrink with linguistic similarity so that
// closely related substitutions beat independent insertion+deletion pairs,
// and an adjacent-token transposition operation is available at fixed cost.
package align

import (
	"fmt"
	"math"
	"strings"

	"github.com/annotext/errant/core/token"
)

// OpType identifies one raw alignment operation.
type OpType int

const (
	// Match covers a pair of identical tokens.
	Match OpType = iota
	// Substitution replaces one original token with one corrected token.
	Substitution
	// Insertion adds one corrected token absent from the original.
	Insertion
	// Deletion removes one original token absent from the correction.
	Deletion
	// Transposition swaps two adjacent tokens.
	Transposition
)

// String returns the conventional single-letter code for the operation.
func (t OpType) String() string {
	switch t {
	case Match:
		return "M"
	case Substitution:
		return "S"
	case Insertion:
		return "I"
	case Deletion:
		return "D"
	case Transposition:
		return "T"
	}
	return "?"
}

// Op is a single raw alignment step. It references a contiguous index range
// in the original sequence and a contiguous index range in the corrected
// sequence; either range may be empty for insertions and deletions.
type Op struct {
	Type      OpType
	OrigStart int
	OrigEnd   int
	CorStart  int
	CorEnd    int
	Cost      float64
}

// Alignment is the ordered edit script between two sentences. Its operations
// partition both token sequences completely and in order.
type Alignment struct {
	Orig token.Sentence
	Cor  token.Sentence
	Ops  []Op
	Cost float64
}

// transposeCost is the fixed cost of swapping two adjacent tokens. It sits
// below the cost of two substitutions so a genuine swap is always preferred.
const transposeCost = 1.0

// openClass tags mark content words; substitutions between two content
// words are cheaper than substitutions across word classes.
var openClass = map[string]bool{
	"ADJ":  true,
	"ADV":  true,
	"NOUN": true,
	"VERB": true,
}

// Align computes the minimum-cost edit script from orig to cor. With lev set
// it uses plain Levenshtein costs (all non-matches cost 1); otherwise
// substitution costs are lowered by lemma equality, POS equality and surface
// similarity. Cost ties resolve deterministically: Match, then Transposition,
// then Substitution, then Deletion, then Insertion.
func Align(orig, cor token.Sentence, lev bool) Alignment {
	a := Alignment{Orig: orig, Cor: cor}
	n, m := len(orig), len(cor)
	switch {
	case n == 0 && m == 0:
		return a
	case n == 0:
		a.Ops = []Op{{Type: Insertion, CorEnd: m, Cost: float64(m)}}
		a.Cost = float64(m)
		return a
	case m == 0:
		a.Ops = []Op{{Type: Deletion, OrigEnd: n, Cost: float64(n)}}
		a.Cost = float64(n)
		return a
	}

	cost := make([][]float64, n+1)
	back := make([][]OpType, n+1)
	for i := 0; i <= n; i++ {
		cost[i] = make([]float64, m+1)
		back[i] = make([]OpType, m+1)
	}
	for i := 1; i <= n; i++ {
		cost[i][0] = float64(i)
		back[i][0] = Deletion
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = float64(j)
		back[0][j] = Insertion
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if orig[i-1].Text == cor[j-1].Text {
				cost[i][j] = cost[i-1][j-1]
				back[i][j] = Match
				continue
			}
			// Fixed preference order on ties: T, S, D, I.
			best, op := math.Inf(1), Transposition
			if canTranspose(orig, cor, i, j) {
				best = cost[i-2][j-2] + transposeCost
			}
			if s := cost[i-1][j-1] + subCost(orig[i-1], cor[j-1], lev); s < best {
				best, op = s, Substitution
			}
			if d := cost[i-1][j] + 1; d < best {
				best, op = d, Deletion
			}
			if ins := cost[i][j-1] + 1; ins < best {
				best, op = ins, Insertion
			}
			cost[i][j] = best
			back[i][j] = op
		}
	}

	// Backtrack from the far corner, then reverse into start-to-end order.
	var rev []Op
	i, j := n, m
	for i > 0 || j > 0 {
		op := Op{Type: back[i][j]}
		switch op.Type {
		case Match, Substitution:
			op.OrigStart, op.OrigEnd = i-1, i
			op.CorStart, op.CorEnd = j-1, j
			i, j = i-1, j-1
		case Transposition:
			op.OrigStart, op.OrigEnd = i-2, i
			op.CorStart, op.CorEnd = j-2, j
			i, j = i-2, j-2
		case Deletion:
			op.OrigStart, op.OrigEnd = i-1, i
			op.CorStart, op.CorEnd = j, j
			i--
		case Insertion:
			op.OrigStart, op.OrigEnd = i, i
			op.CorStart, op.CorEnd = j-1, j
			j--
		}
		op.Cost = cost[op.OrigEnd][op.CorEnd] - cost[op.OrigStart][op.CorStart]
		rev = append(rev, op)
	}
	for k, l := 0, len(rev)-1; k < l; k, l = k+1, l-1 {
		rev[k], rev[l] = rev[l], rev[k]
	}
	a.Ops = rev
	a.Cost = cost[n][m]
	return a
}

// canTranspose reports whether the two tokens preceding matrix cell (i,j)
// form an adjacent swap: orig[i-2:i] equals cor[j-2:j] reversed, ignoring
// case, and the pair is not degenerate.
func canTranspose(orig, cor token.Sentence, i, j int) bool {
	if i < 2 || j < 2 {
		return false
	}
	a, b := orig[i-2], orig[i-1]
	c, d := cor[j-2], cor[j-1]
	if strings.EqualFold(a.Text, b.Text) {
		return false
	}
	return strings.EqualFold(b.Text, c.Text) && strings.EqualFold(a.Text, d.Text)
}

// subCost returns the cost of substituting c for o. In Levenshtein mode all
// substitutions cost 1. Otherwise the cost is the sum of a lemma component
// (0 when lemmas agree), a POS component (0 when tags agree, reduced when
// both are content words) and a character component (low for orthographically
// close forms), so it ranges over [0, 2).
func subCost(o, c token.Token, lev bool) float64 {
	if lev {
		return 1
	}
	lemma := 0.499
	if o.Lemma != "" && o.Lemma == c.Lemma {
		lemma = 0
	}
	pos := 0.5
	switch {
	case o.POS != "" && o.POS == c.POS:
		pos = 0
	case openClass[o.POS] && openClass[c.POS]:
		pos = 0.25
	}
	char := 1 - Similarity(o.Text, c.Text)
	return lemma + pos + char
}

// Validate checks the coverage invariant: the operations partition both the
// original and corrected sequences completely, in order, with no gaps or
// overlaps. A violation is a programming error in the aligner.
func (a Alignment) Validate() error {
	oi, ci := 0, 0
	for k, op := range a.Ops {
		if op.OrigStart != oi || op.CorStart != ci {
			return fmt.Errorf("operation %d (%s) starts at (%d,%d), want (%d,%d)",
				k, op.Type, op.OrigStart, op.CorStart, oi, ci)
		}
		if op.OrigEnd < op.OrigStart || op.CorEnd < op.CorStart {
			return fmt.Errorf("operation %d (%s) has negative span", k, op.Type)
		}
		oi, ci = op.OrigEnd, op.CorEnd
	}
	if oi != len(a.Orig) || ci != len(a.Cor) {
		return fmt.Errorf("operations cover (%d,%d) tokens, want (%d,%d)",
			oi, ci, len(a.Orig), len(a.Cor))
	}
	return nil
}
