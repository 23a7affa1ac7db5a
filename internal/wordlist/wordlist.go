// Package wordlist loads the spelling lexicon used by the classifier. Large
// newline-delimited word lists are scanned through a memory mapping; an
// optional Redis-backed store contributes custom words on top.
package wordlist

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/annotext/errant/core/errors"
)

// Wordlist answers membership queries against a lowercased lexicon.
type Wordlist struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// Load reads a newline-delimited word list. The file is memory-mapped during
// the scan so multi-hundred-megabyte lexicons avoid double buffering.
func Load(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	w := &Wordlist{words: make(map[string]struct{})}
	if info.Size() == 0 {
		return w, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.NewIO("map", path, err)
	}
	defer m.Unmap()

	for _, line := range bytes.Split(m, []byte{'\n'}) {
		word := strings.TrimSpace(string(line))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		// Frequency-list formats carry a count column; only the word matters.
		if i := strings.IndexAny(word, " \t"); i >= 0 {
			word = word[:i]
		}
		w.words[strings.ToLower(word)] = struct{}{}
	}
	return w, nil
}

// New builds a wordlist from an in-memory slice.
func New(words []string) *Wordlist {
	w := &Wordlist{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		w.words[strings.ToLower(word)] = struct{}{}
	}
	return w
}

// Contains reports whether the lowercased word is in the lexicon.
func (w *Wordlist) Contains(word string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.words[strings.ToLower(word)]
	return ok
}

// Add inserts words into the lexicon.
func (w *Wordlist) Add(words ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, word := range words {
		w.words[strings.ToLower(word)] = struct{}{}
	}
}

// Len returns the lexicon size.
func (w *Wordlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.words)
}
