package corpus

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/annotext/errant/core/errors"
)

// Pair is one original/corrected sentence pair extracted from an XML corpus.
type Pair struct {
	Orig string
	Cor  string
}

// Default XPath expressions for learner corpora that wrap each annotated
// fragment in an element carrying the incorrect and corrected forms.
const (
	DefaultOrigPath = "//orig"
	DefaultCorPath  = "//cor"
)

// ExtractPairs pulls parallel sentence pairs out of an XML corpus. The two
// XPath expressions select the original and corrected elements; results are
// paired in document order and their counts must agree.
func ExtractPairs(r io.Reader, origPath, corPath string) ([]Pair, error) {
	origExpr, err := xpath.Compile(origPath)
	if err != nil {
		return nil, errors.NewParse("XPath", "", 0, err.Error())
	}
	corExpr, err := xpath.Compile(corPath)
	if err != nil {
		return nil, errors.NewParse("XPath", "", 0, err.Error())
	}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.NewParse("XML", "", 0, err.Error())
	}
	origNodes := xmlquery.QuerySelectorAll(doc, origExpr)
	corNodes := xmlquery.QuerySelectorAll(doc, corExpr)
	if len(origNodes) != len(corNodes) {
		return nil, errors.NewParse("XML", "", 0,
			"original and corrected element counts differ")
	}
	pairs := make([]Pair, len(origNodes))
	for i := range origNodes {
		pairs[i] = Pair{
			Orig: normalizeSpace(origNodes[i].InnerText()),
			Cor:  normalizeSpace(corNodes[i].InnerText()),
		}
	}
	return pairs, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
