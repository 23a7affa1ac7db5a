// Package stem provides dictionary-free suffix-stripping stemmers for
// languages where the external parser supplies no lemma. Each stemmer is a
// pure function over a fixed, length-ordered suffix table: candidate
// suffixes are checked longest first and a minimum-remaining-length guard
// prevents over-stripping short words.
package stem

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Suffix pairs a candidate suffix with the number of trailing runes that are
// stripped when it matches.
type Suffix struct {
	Text  string
	Strip int
}

// Stemmer strips the longest matching suffix from a word.
type Stemmer struct {
	lang     string
	suffixes []Suffix // ordered by Strip descending
}

// New builds a stemmer from a suffix table. The table is copied and ordered
// longest first; entries with a non-positive strip length are dropped.
func New(lang string, table []Suffix) *Stemmer {
	s := &Stemmer{lang: lang}
	for _, suf := range table {
		if suf.Strip > 0 && suf.Text != "" {
			s.suffixes = append(s.suffixes, suf)
		}
	}
	sort.SliceStable(s.suffixes, func(i, j int) bool {
		return s.suffixes[i].Strip > s.suffixes[j].Strip
	})
	return s
}

// Lang returns the language code the stemmer was built for.
func (s *Stemmer) Lang() string {
	return s.lang
}

// Stem returns the word with its longest matching suffix stripped. A suffix
// only matches when more than one rune would remain after stripping, so very
// short words come back unchanged.
func (s *Stemmer) Stem(word string) string {
	n := utf8.RuneCountInString(word)
	for _, suf := range s.suffixes {
		if n <= suf.Strip+1 {
			continue
		}
		if strings.HasSuffix(word, suf.Text) {
			return word[:len(word)-len(suf.Text)]
		}
	}
	return word
}

// ForLang returns the stemmer for a language code, or nil when the language
// has no suffix table.
func ForLang(code string) *Stemmer {
	switch strings.ToLower(code) {
	case "en":
		return English()
	case "hi":
		return Hindi()
	}
	return nil
}
