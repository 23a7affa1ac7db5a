package pipeline

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/annotext/errant/core/annotate"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/core/token"
	"github.com/annotext/errant/internal/corpus"
	"github.com/annotext/errant/internal/logging"
)

// Job is one sentence group: the original line and its corrected variants.
// When the documents are already parsed, OrigDoc and CorDocs carry the
// annotated tokens and the text fields are display copies.
type Job struct {
	Line    int
	Orig    string
	Cors    []string
	OrigDoc token.Document
	CorDocs []token.Document
}

// Result is the per-pair outcome. A non-nil Err is a recoverable user or
// encoding failure; the pair is skipped and the run continues.
type Result struct {
	Job
	OrigTokens token.Sentence
	Edits      [][]edit.Edit // one slice per corrected variant
	Err        error
}

// Runner processes a parallel corpus through the annotator. Independent
// sentence groups are processed concurrently; output is written back in
// input order by a single goroutine, so the sink sees a deterministic
// sequence.
type Runner struct {
	Annotator *annotate.Annotator
	Strategy  merge.Strategy
	Lev       bool
	Tokenize  bool
	Jobs      int
	Dedupe    bool
	Sink      *Sink
}

// Summary reports what a run did.
type Summary struct {
	Pairs   int
	Edits   int
	Skipped int
	Duped   int
}

const batchSize = 256

// Run reads the original and corrected files in lockstep (stopping at the
// shortest, like the underlying corpora contract) and annotates each group.
// Per-pair failures are logged and skipped; invariant violations inside the
// core and output write failures abort the run.
func (r *Runner) Run(ctx context.Context, orig io.Reader, cors []io.Reader) (Summary, error) {
	var sum Summary
	origLines := corpus.Lines(orig)
	corLines := make([]*lineSource, len(cors))
	for i, c := range cors {
		corLines[i] = &lineSource{scanner: corpus.Lines(c)}
	}

	seen := make(map[[32]byte]struct{})
	line := 0
	batch := make([]Job, 0, batchSize)

	flush := func() error {
		err := r.drain(ctx, batch, &sum)
		batch = batch[:0]
		return err
	}

	for origLines.Scan() {
		line++
		job := Job{Line: line, Orig: origLines.Text(), Cors: make([]string, len(corLines))}
		exhausted := false
		for i, cl := range corLines {
			text, ok := cl.next()
			if !ok {
				exhausted = true
				break
			}
			job.Cors[i] = text
		}
		if exhausted {
			break
		}
		if r.Dedupe {
			key := blake3.Sum256([]byte(job.Orig + "\x00" + strings.Join(job.Cors, "\x00")))
			if _, dup := seen[key]; dup {
				sum.Duped++
				continue
			}
			seen[key] = struct{}{}
		}
		batch = append(batch, job)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := origLines.Err(); err != nil {
		return sum, errors.NewIO("read", "", err)
	}
	for _, cl := range corLines {
		if err := cl.scanner.Err(); err != nil {
			return sum, errors.NewIO("read", "", err)
		}
	}
	return sum, flush()
}

// RunDocuments is Run for corpora parsed ahead of time, such as CoNLL-U
// files: the groups are paired in input order (stopping at the shortest
// side) and the stored annotations reach the classifier untouched.
func (r *Runner) RunDocuments(ctx context.Context, orig []token.Document, cors [][]token.Document) (Summary, error) {
	var sum Summary
	n := len(orig)
	for _, c := range cors {
		if len(c) < n {
			n = len(c)
		}
	}

	seen := make(map[[32]byte]struct{})
	batch := make([]Job, 0, batchSize)
	for i := 0; i < n; i++ {
		job := Job{
			Line:    i + 1,
			Orig:    orig[i].Text(),
			Cors:    make([]string, len(cors)),
			OrigDoc: orig[i],
			CorDocs: make([]token.Document, len(cors)),
		}
		for j, c := range cors {
			job.Cors[j] = c[i].Text()
			job.CorDocs[j] = c[i]
		}
		if r.Dedupe {
			key := blake3.Sum256([]byte(job.Orig + "\x00" + strings.Join(job.Cors, "\x00")))
			if _, dup := seen[key]; dup {
				sum.Duped++
				continue
			}
			seen[key] = struct{}{}
		}
		batch = append(batch, job)
		if len(batch) == batchSize {
			if err := r.drain(ctx, batch, &sum); err != nil {
				return sum, err
			}
			batch = batch[:0]
		}
	}
	return sum, r.drain(ctx, batch, &sum)
}

// drain annotates a batch and writes its results to the sink in input order.
func (r *Runner) drain(ctx context.Context, batch []Job, sum *Summary) error {
	if len(batch) == 0 {
		return nil
	}
	results, err := r.processBatch(ctx, batch)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			logging.PairSkipped(res.Line, res.Err)
			sum.Skipped++
			continue
		}
		sum.Pairs++
		for annotator, edits := range res.Edits {
			for _, e := range edits {
				if err := r.Sink.Write(res.OrigTokens, e, annotator); err != nil {
					return err
				}
				sum.Edits++
			}
		}
	}
	return nil
}

// processBatch annotates a batch concurrently. Recoverable failures land in
// the Result; only internal invariant violations cancel the group.
func (r *Runner) processBatch(ctx context.Context, batch []Job) ([]Result, error) {
	results := make([]Result, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, job := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.annotateGroup(job)
			if results[i].Err != nil && errors.Is(results[i].Err, errors.ErrInternal) {
				return results[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// annotateGroup parses one sentence group and annotates the original against
// every corrected variant.
func (r *Runner) annotateGroup(job Job) Result {
	res := Result{Job: job}
	origDoc := job.OrigDoc
	if origDoc == nil {
		var err error
		origDoc, err = r.Annotator.Parse(job.Orig, r.Tokenize)
		if err != nil {
			res.Err = errors.Wrapf(err, "parse original line %d", job.Line)
			return res
		}
	}
	res.OrigTokens = origDoc.Tokens()
	res.Edits = make([][]edit.Edit, len(job.Cors))
	for i, cor := range job.Cors {
		var corDoc token.Document
		if job.CorDocs != nil {
			corDoc = job.CorDocs[i]
		} else {
			var err error
			corDoc, err = r.Annotator.Parse(cor, r.Tokenize)
			if err != nil {
				res.Err = errors.Wrapf(err, "parse corrected line %d", job.Line)
				return res
			}
		}
		edits, err := r.Annotator.Annotate(origDoc, corDoc, r.Lev, r.Strategy)
		if err != nil {
			res.Err = err
			return res
		}
		res.Edits[i] = edits
	}
	return res
}

func (r *Runner) workers() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.NumCPU()
}

// lineSource adapts a scanner to a pull interface.
type lineSource struct {
	scanner *bufio.Scanner
}

func (l *lineSource) next() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	return l.scanner.Text(), true
}
