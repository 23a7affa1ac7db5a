// Package corpus reads parallel correction corpora: plain parallel text
// files (optionally xz- or gzip-compressed), pre-parsed CoNLL-U files, and
// XML corpora carrying original/corrected sentence pairs.
package corpus

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/annotext/errant/core/errors"
)

// maxLine bounds a single corpus line; longer lines are a data error.
const maxLine = 4 * 1024 * 1024

// readCloser pairs a decompressing reader with the file it wraps.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a corpus file for reading, transparently decompressing .xz and
// .gz files by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	switch {
	case strings.HasSuffix(path, ".xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		return &readCloser{Reader: xzr, closers: []io.Closer{f}}, nil
	case strings.HasSuffix(path, ".gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		return &readCloser{Reader: gzr, closers: []io.Closer{gzr, f}}, nil
	}
	return f, nil
}

// Lines wraps a reader with a line scanner sized for long corpus sentences.
func Lines(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return s
}
