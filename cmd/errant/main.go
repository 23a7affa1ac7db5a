// Command errant aligns parallel original/corrected text files, extracts the
// minimal token-level edits between them, classifies each edit into a
// grammatical error-type taxonomy and writes standard annotation output.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/annotext/errant/core/annotate"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/core/stem"
	"github.com/annotext/errant/core/token"
	"github.com/annotext/errant/internal/corpus"
	"github.com/annotext/errant/internal/logging"
	"github.com/annotext/errant/internal/pipeline"
	"github.com/annotext/errant/internal/server"
	"github.com/annotext/errant/internal/stats"
	"github.com/annotext/errant/internal/wordlist"
)

const version = "0.2.0"

// CLI defines the command-line interface for errant.
var CLI struct {
	// Global flags
	Verbose   bool   `help:"Enable debug logging"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log output format"`

	Annotate AnnotateCmd `cmd:"" help:"Annotate parallel files and bucket edits by error type"`
	Extract  ExtractCmd  `cmd:"" help:"Extract parallel sentence pairs from an XML corpus"`
	Stats    StatsCmd    `cmd:"" help:"Recount the error-type histogram of annotation files"`
	Serve    ServeCmd    `cmd:"" help:"Serve the annotator over HTTP/WebSocket"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// AnnotateCmd is the parallel-files driver: it reads the original file and
// one or more corrected files line by line, annotates each sentence group,
// and writes per-error-type .m2/.src/.trg files plus a histogram.
type AnnotateCmd struct {
	Orig     string   `required:"" help:"Path to the original text file" type:"existingfile"`
	Cor      []string `required:"" help:"Paths to one or more corrected text files"`
	Out      string   `default:"out" help:"Output directory"`
	Format   string   `enum:"text,conllu" default:"text" help:"Input format: plain text lines or pre-annotated CoNLL-U blocks"`
	Tok      bool     `help:"Word-tokenize the input on the fly (text format only)"`
	Lev      bool     `help:"Align with plain Levenshtein costs"`
	Merge    string   `enum:"rules,all-split,all-merge,all-equal" default:"rules" help:"Merging strategy for adjacent operations"`
	Lang     string   `default:"en" help:"Language code for the stemmer (en, hi)"`
	Wordlist string   `help:"Spelling lexicon path (newline-delimited words)" type:"existingfile"`
	Redis    string   `help:"Redis address contributing custom lexicon words (host:port)"`
	Jobs     int      `default:"0" help:"Worker count, 0 for one per CPU"`
	Dedupe   bool     `help:"Skip repeated identical sentence groups"`
	DB       string   `name:"db" help:"Also persist the histogram to this SQLite database"`
}

// Run executes the annotation run end to end. The output sink is finalized
// on every path so no file handle leaks, and a failing sentence pair is
// logged and skipped rather than aborting the batch.
func (c *AnnotateCmd) Run() error {
	strategy, err := merge.ParseStrategy(c.Merge)
	if err != nil {
		return err
	}
	annotator, err := c.buildAnnotator()
	if err != nil {
		return err
	}

	origFile, err := corpus.Open(c.Orig)
	if err != nil {
		return err
	}
	defer origFile.Close()
	corFiles := make([]io.ReadCloser, 0, len(c.Cor))
	defer func() {
		for _, cf := range corFiles {
			cf.Close()
		}
	}()
	for _, path := range c.Cor {
		cf, err := corpus.Open(path)
		if err != nil {
			return err
		}
		corFiles = append(corFiles, cf)
	}

	runID := uuid.NewString()
	start := time.Now()
	logging.RunStarted(runID, c.Orig, c.Cor, "merge", c.Merge, "lev", c.Lev)

	sink := pipeline.NewSink(c.Out)
	runner := &pipeline.Runner{
		Annotator: annotator,
		Strategy:  strategy,
		Lev:       c.Lev,
		Tokenize:  c.Tok,
		Jobs:      c.Jobs,
		Dedupe:    c.Dedupe,
		Sink:      sink,
	}
	sum, runErr := c.runInput(runner, origFile, readers(corFiles))
	if err := sink.Finalize(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	counts := sink.Tally()
	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return err
	}
	if err := stats.WriteFile(filepath.Join(c.Out, "error_counts.tsv"), counts); err != nil {
		return err
	}
	if c.DB != "" {
		if err := stats.SaveDB(c.DB, runID, counts); err != nil {
			return err
		}
	}
	logging.RunFinished(runID, sum.Pairs, sum.Edits, time.Since(start),
		"skipped", sum.Skipped, "duped", sum.Duped)
	fmt.Printf("Annotated %d sentence groups (%d edits, %d skipped)\n", sum.Pairs, sum.Edits, sum.Skipped)
	fmt.Printf("Output written under %s\n", c.Out)
	return nil
}

// runInput feeds the opened files to the runner in the selected format.
// CoNLL-U input is parsed up front so the stored lemma, POS and dependency
// annotations drive classification instead of the built-in heuristics.
func (c *AnnotateCmd) runInput(runner *pipeline.Runner, orig io.Reader, cors []io.Reader) (pipeline.Summary, error) {
	if c.Format != "conllu" {
		return runner.Run(context.Background(), orig, cors)
	}
	origDocs, err := corpus.ReadCoNLLU(orig)
	if err != nil {
		return pipeline.Summary{}, err
	}
	corDocs := make([][]token.Document, len(cors))
	for i, cr := range cors {
		if corDocs[i], err = corpus.ReadCoNLLU(cr); err != nil {
			return pipeline.Summary{}, err
		}
	}
	return runner.RunDocuments(context.Background(), origDocs, corDocs)
}

func (c *AnnotateCmd) buildAnnotator() (*annotate.Annotator, error) {
	cfg := annotate.Config{
		Parser:  corpus.PlainParser{},
		Stemmer: stem.ForLang(c.Lang),
	}
	if c.Wordlist != "" {
		wl, err := wordlist.Load(c.Wordlist)
		if err != nil {
			return nil, err
		}
		if c.Redis != "" {
			store := wordlist.NewCustomStore(redis.NewClient(&redis.Options{Addr: c.Redis}))
			if err := store.Merge(context.Background(), wl); err != nil {
				return nil, fmt.Errorf("load custom words from redis: %w", err)
			}
		}
		logging.Info("wordlist loaded", "path", c.Wordlist, "words", wl.Len())
		cfg.Wordlist = wl
	}
	return annotate.New(cfg), nil
}

// ExtractCmd converts an XML corpus into a pair of parallel text files that
// the annotate command consumes.
type ExtractCmd struct {
	XML      string `arg:"" help:"Path to the XML corpus" type:"existingfile"`
	OrigOut  string `default:"extracted.orig" help:"Output path for original sentences"`
	CorOut   string `default:"extracted.cor" help:"Output path for corrected sentences"`
	OrigPath string `default:"//orig" help:"XPath selecting original elements"`
	CorPath  string `default:"//cor" help:"XPath selecting corrected elements"`
}

func (c *ExtractCmd) Run() error {
	f, err := corpus.Open(c.XML)
	if err != nil {
		return err
	}
	defer f.Close()
	pairs, err := corpus.ExtractPairs(f, c.OrigPath, c.CorPath)
	if err != nil {
		return err
	}
	origOut, err := os.Create(c.OrigOut)
	if err != nil {
		return err
	}
	defer origOut.Close()
	corOut, err := os.Create(c.CorOut)
	if err != nil {
		return err
	}
	defer corOut.Close()
	for _, p := range pairs {
		if _, err := fmt.Fprintln(origOut, p.Orig); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(corOut, p.Cor); err != nil {
			return err
		}
	}
	fmt.Printf("Extracted %d sentence pairs\n", len(pairs))
	return nil
}

// StatsCmd recounts error types from existing annotation files.
type StatsCmd struct {
	M2  []string `arg:"" help:"Annotation files to recount" type:"existingfile"`
	Out string   `help:"Write the histogram to this file instead of stdout"`
	DB  string   `name:"db" help:"Also persist the histogram to this SQLite database"`
}

func (c *StatsCmd) Run() error {
	counts := make(map[string]int)
	for _, path := range c.M2 {
		f, err := corpus.Open(path)
		if err != nil {
			return err
		}
		fileCounts, err := stats.FromM2(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for label, n := range fileCounts {
			counts[label] += n
		}
	}
	if c.DB != "" {
		if err := stats.SaveDB(c.DB, uuid.NewString(), counts); err != nil {
			return err
		}
	}
	if c.Out != "" {
		return stats.WriteFile(c.Out, counts)
	}
	return stats.WriteTSV(os.Stdout, counts)
}

// ServeCmd runs the live annotation endpoint.
type ServeCmd struct {
	Addr    string   `default:":8765" help:"Listen address"`
	Lang    string   `default:"en" help:"Language code for the stemmer"`
	Merge   string   `enum:"rules,all-split,all-merge,all-equal" default:"rules" help:"Default merging strategy"`
	Origins []string `help:"Allowed browser origins; all origins are admitted when empty"`
}

func (c *ServeCmd) Run() error {
	strategy, err := merge.ParseStrategy(c.Merge)
	if err != nil {
		return err
	}
	annotator := annotate.New(annotate.Config{
		Parser:  corpus.PlainParser{},
		Stemmer: stem.ForLang(c.Lang),
	})
	srv := server.New(annotator, strategy, c.Origins...)
	logging.Info("server listening", "addr", c.Addr, "origins", c.Origins)
	return http.ListenAndServe(c.Addr, srv.Handler())
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("errant %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("errant"),
		kong.Description("Align parallel text files and extract and classify the edits."),
		kong.UsageOnError(),
	)
	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)
	ctx.FatalIfErrorf(ctx.Run())
}

func readers(cs []io.ReadCloser) []io.Reader {
	out := make([]io.Reader, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}
