package stem

// englishSuffixes is a light inflectional suffix table for English. It is
// deliberately shallow: the classifier only needs stemmed-form equality for
// regular inflection pairs such as "run"/"runs" or "walk"/"walked".
var englishSuffixes = []Suffix{
	{"iest", 4},
	{"ings", 4},
	{"ies", 3},
	{"ied", 3},
	{"ing", 3},
	{"est", 3},
	{"ers", 3},
	{"ed", 2},
	{"es", 2},
	{"er", 2},
	{"ly", 2},
	{"s", 1},
}

// English returns the stemmer for English.
func English() *Stemmer {
	return New("en", englishSuffixes)
}
