// Package pipeline drives the annotation of parallel corpora: it reads
// sentence pairs in lockstep, fans the alignment work out over workers, and
// buckets the resulting edits into per-error-type output files. All shared
// state lives in an explicit Sink owned by the caller; there are no
// process-wide accumulators.
package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/errors"
	"github.com/annotext/errant/core/m2"
	"github.com/annotext/errant/core/token"
)

// typeFiles is the lazily opened output trio for one error type.
type typeFiles struct {
	m2File  *os.File
	srcFile *os.File
	trgFile *os.File
	m2Buf   *bufio.Writer
	srcBuf  *bufio.Writer
	trgBuf  *bufio.Writer
}

// Sink collects annotation output for one run: the error-type tally and the
// per-type .m2/.src/.trg files, opened on first use of each type. Writes are
// serialized internally; Finalize must be called on every exit path so no
// handle leaks.
type Sink struct {
	outDir string

	mu    sync.Mutex
	tally map[string]int
	files map[string]*typeFiles
}

// NewSink creates a sink writing under outDir.
func NewSink(outDir string) *Sink {
	return &Sink{
		outDir: outDir,
		tally:  make(map[string]int),
		files:  make(map[string]*typeFiles),
	}
}

// Write records one classified edit: it counts the error type and appends
// the sentence block, source line and target line to that type's files.
// Write failures are fatal to the run; annotation data is never dropped
// silently.
func (s *Sink) Write(orig token.Sentence, e edit.Edit, annotator int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tally[e.Type]++
	tf, err := s.typeFiles(e.Type)
	if err != nil {
		return err
	}
	if err := m2.WriteBlock(tf.m2Buf, orig, []edit.Edit{e}, annotator); err != nil {
		return errors.NewIO("write", s.typePath(e.Type)+".m2", err)
	}
	src, trg := e.ToSrcTrg()
	if _, err := tf.srcBuf.WriteString(src + "\n"); err != nil {
		return errors.NewIO("write", s.typePath(e.Type)+".src", err)
	}
	if _, err := tf.trgBuf.WriteString(trg + "\n"); err != nil {
		return errors.NewIO("write", s.typePath(e.Type)+".trg", err)
	}
	return nil
}

// Tally returns a copy of the error-type histogram.
func (s *Sink) Tally() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.tally))
	for k, v := range s.tally {
		out[k] = v
	}
	return out
}

// Labels returns the observed error types in sorted order.
func (s *Sink) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tally))
	for k := range s.tally {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Finalize flushes and closes every open output file. It returns the first
// error encountered but closes everything regardless.
func (s *Sink) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, tf := range s.files {
		record(tf.m2Buf.Flush())
		record(tf.srcBuf.Flush())
		record(tf.trgBuf.Flush())
		record(tf.m2File.Close())
		record(tf.srcFile.Close())
		record(tf.trgFile.Close())
	}
	s.files = make(map[string]*typeFiles)
	return first
}

// typePath is the per-type file path prefix; colons in labels become
// underscores so every platform accepts the directory name.
func (s *Sink) typePath(label string) string {
	name := strings.ReplaceAll(label, ":", "_")
	return filepath.Join(s.outDir, name, name)
}

func (s *Sink) typeFiles(label string) (*typeFiles, error) {
	if tf, ok := s.files[label]; ok {
		return tf, nil
	}
	prefix := s.typePath(label)
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return nil, errors.NewIO("create", filepath.Dir(prefix), err)
	}
	tf := &typeFiles{}
	var err error
	if tf.m2File, err = os.Create(prefix + ".m2"); err != nil {
		return nil, errors.NewIO("create", prefix+".m2", err)
	}
	if tf.srcFile, err = os.Create(prefix + ".src"); err != nil {
		tf.m2File.Close()
		return nil, errors.NewIO("create", prefix+".src", err)
	}
	if tf.trgFile, err = os.Create(prefix + ".trg"); err != nil {
		tf.m2File.Close()
		tf.srcFile.Close()
		return nil, errors.NewIO("create", prefix+".trg", err)
	}
	tf.m2Buf = bufio.NewWriter(tf.m2File)
	tf.srcBuf = bufio.NewWriter(tf.srcFile)
	tf.trgBuf = bufio.NewWriter(tf.trgFile)
	s.files[label] = tf
	return tf, nil
}
