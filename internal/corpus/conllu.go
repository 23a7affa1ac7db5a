package corpus

import (
	"fmt"
	"io"
	"strings"

	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/token"
)

// CoNLL-U column positions used by the toolkit.
const (
	colID     = 0
	colForm   = 1
	colLemma  = 2
	colUPOS   = 3
	colXPOS   = 4
	colDeprel = 7
	numCols   = 10
)

// ReadCoNLLU parses pre-annotated sentences in CoNLL-U format, one document
// per sentence block. Comment lines and multiword-token ranges are skipped;
// the underscore placeholder maps to an empty annotation field.
func ReadCoNLLU(r io.Reader) ([]token.Document, error) {
	var docs []token.Document
	var sent token.Sentence
	flush := func() {
		if len(sent) > 0 {
			docs = append(docs, token.Document{sent})
			sent = nil
		}
	}
	scanner := Lines(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != numCols {
			return nil, errors.NewParse("CoNLL-U", "", lineNo,
				fmt.Sprintf("want %d tab-separated columns, got %d", numCols, len(cols)))
		}
		// Multiword-token ranges (1-2) and empty nodes (1.1) are carried for
		// the benefit of parsers, not the aligner.
		if strings.ContainsAny(cols[colID], "-.") {
			continue
		}
		sent = append(sent, token.Token{
			Text:  cols[colForm],
			Lemma: field(cols[colLemma]),
			POS:   field(cols[colUPOS]),
			Tag:   field(cols[colXPOS]),
			Dep:   field(cols[colDeprel]),
			Index: len(sent),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	flush()
	return docs, nil
}

func field(s string) string {
	if s == "_" {
		return ""
	}
	return s
}
