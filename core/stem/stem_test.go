package stem

import "testing"

func TestEnglishStem(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"runs", "run"},
		{"walked", "walk"},
		{"walking", "walk"},
		{"studies", "stud"},
		{"quickly", "quick"},
		{"biggest", "bigg"},
		{"run", "run"},
		{"is", "is"},   // too short to strip
		{"as", "as"},   // too short to strip
		{"the", "the"}, // no matching suffix
		{"", ""},
	}
	s := English()
	for _, tt := range tests {
		if got := s.Stem(tt.word); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestLongestSuffixWins(t *testing.T) {
	// "studies" matches both "ies" and "es"; the longer strip applies.
	if got := English().Stem("studies"); got != "stud" {
		t.Errorf("Stem(studies) = %q, want %q", got, "stud")
	}
}

func TestHindiStem(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"चलकर", "चल"},   // suffix stripped
		{"कर", "कर"},    // guard keeps short words whole
		{"राम", "राम"},  // no matching suffix
		{"लडकों", "लडक"}, // plural oblique suffix
	}
	s := Hindi()
	for _, tt := range tests {
		if got := s.Stem(tt.word); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestForLang(t *testing.T) {
	if s := ForLang("en"); s == nil || s.Lang() != "en" {
		t.Error("ForLang(en) missing")
	}
	if s := ForLang("HI"); s == nil || s.Lang() != "hi" {
		t.Error("ForLang(HI) missing, want case-insensitive lookup")
	}
	if s := ForLang("zz"); s != nil {
		t.Errorf("ForLang(zz) = %v, want nil", s)
	}
}

func TestNewDropsEmptyEntries(t *testing.T) {
	s := New("xx", []Suffix{{"", 1}, {"ab", 0}, {"x", 1}})
	if got := s.Stem("box"); got != "bo" {
		t.Errorf("Stem(box) = %q, want %q", got, "bo")
	}
	if got := s.Stem("cab"); got != "cab" {
		t.Errorf("Stem(cab) = %q, want unchanged (zero-strip entry dropped)", got)
	}
}
