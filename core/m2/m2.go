// Package m2 reads and writes the standard annotation file format: one block
// per sentence pair, a source line of space-joined original tokens followed
// by one annotation line per edit, blocks separated by blank lines.
package m2

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/token"
)

// WriteBlock writes one sentence block: the source line, one annotation line
// per edit (or the noop sentinel when there are none) and a trailing blank
// line.
func WriteBlock(w io.Writer, orig token.Sentence, edits []edit.Edit, annotator int) error {
	var b strings.Builder
	b.WriteString("S ")
	b.WriteString(orig.Text())
	b.WriteByte('\n')
	if len(edits) == 0 {
		b.WriteString(edit.NoopLine(annotator))
		b.WriteByte('\n')
	}
	for _, e := range edits {
		b.WriteString(e.ToM2(annotator))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// Edit is one parsed annotation line.
type Edit struct {
	Start     int
	End       int
	Type      string
	Cor       string
	Annotator int
}

// IsNoop reports whether the line is the no-edit sentinel.
func (e Edit) IsNoop() bool {
	return e.Type == edit.NoopType
}

// Block is one parsed sentence block: the source tokens and its edits.
type Block struct {
	Source []string
	Edits  []Edit
}

// editLexer tokenizes annotation lines. The span header is lexed as
// integers; after the first field separator everything between separators is
// opaque text, since replacements may contain spaces.
var editLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Marker", Pattern: `A`},
		{Name: "Int", Pattern: `-?[0-9]+`},
		{Name: "Sep", Pattern: `\|\|\|`, Action: lexer.Push("Field")},
		{Name: "Whitespace", Pattern: `[ \t]+`},
	},
	"Field": {
		{Name: "Sep", Pattern: `\|\|\|`},
		{Name: "Text", Pattern: `[^|\r\n]+`},
	},
})

// editGrammar mirrors the line layout:
//
//	A start end|||type|||replacement|||REQUIRED|||-NONE-|||annotator
type editGrammar struct {
	Start     int     `parser:"Marker @Int"`
	End       int     `parser:"@Int"`
	Type      string  `parser:"Sep @Text"`
	Cor       *string `parser:"Sep @Text?"`
	Required  string  `parser:"Sep @Text"`
	NoneField string  `parser:"Sep @Text"`
	Annotator string  `parser:"Sep @Text"`
}

var editParser = participle.MustBuild[editGrammar](
	participle.Lexer(editLexer),
	participle.Elide("Whitespace"),
)

// ParseEditLine parses one annotation line.
func ParseEditLine(line string) (Edit, error) {
	parsed, err := editParser.ParseString("", line)
	if err != nil {
		return Edit{}, errors.NewParse("M2", "", 0, fmt.Sprintf("bad annotation line %q: %v", line, err))
	}
	annotator, err := strconv.Atoi(strings.TrimSpace(parsed.Annotator))
	if err != nil {
		return Edit{}, errors.NewParse("M2", "", 0, fmt.Sprintf("bad annotator index in %q", line))
	}
	e := Edit{
		Start:     parsed.Start,
		End:       parsed.End,
		Type:      parsed.Type,
		Annotator: annotator,
	}
	if parsed.Cor != nil {
		e.Cor = *parsed.Cor
	}
	if e.Cor == "-NONE-" {
		e.Cor = ""
	}
	return e, nil
}

// Parse reads a whole annotation file into blocks.
func Parse(r io.Reader) ([]Block, error) {
	var blocks []Block
	var cur *Block
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			if cur != nil {
				blocks = append(blocks, *cur)
				cur = nil
			}
		case strings.HasPrefix(line, "S ") || line == "S":
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			cur = &Block{Source: strings.Fields(strings.TrimPrefix(line, "S "))}
		case strings.HasPrefix(line, "A "):
			if cur == nil {
				return nil, errors.NewParse("M2", "", lineNo, "annotation line before any source line")
			}
			e, err := ParseEditLine(line)
			if err != nil {
				return nil, errors.NewParse("M2", "", lineNo, err.Error())
			}
			cur.Edits = append(cur.Edits, e)
		default:
			return nil, errors.NewParse("M2", "", lineNo, fmt.Sprintf("unexpected line %q", line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks, nil
}
