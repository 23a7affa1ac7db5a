package stem

// hindiSuffixes is the fixed suffix table for Hindi. Strip lengths are in
// runes (Devanagari codepoints), matching the matra/ending being removed.
var hindiSuffixes = []Suffix{
	// 5-rune endings
	{"ाएंगी", 5}, {"ाएंगे", 5}, {"ाऊंगी", 5}, {"ाऊंगा", 5}, {"ाइयाँ", 5}, {"ाइयों", 5}, {"ाइयां", 5},
	// 4-rune endings
	{"ाएगी", 4}, {"ाएगा", 4}, {"ाओगी", 4}, {"ाओगे", 4}, {"एंगी", 4}, {"ेंगी", 4}, {"एंगे", 4},
	{"ेंगे", 4}, {"ूंगी", 4}, {"ूंगा", 4}, {"ातीं", 4}, {"नाओं", 4}, {"नाएं", 4}, {"ताओं", 4},
	{"ताएं", 4}, {"ियाँ", 4}, {"ियों", 4}, {"ियां", 4},
	// 3-rune endings
	{"ाकर", 3}, {"ाइए", 3}, {"ाईं", 3}, {"ाया", 3}, {"ेगी", 3}, {"ेगा", 3}, {"ोगी", 3}, {"ोगे", 3},
	{"ाने", 3}, {"ाना", 3}, {"ाते", 3}, {"ाती", 3}, {"ाता", 3}, {"तीं", 3}, {"ाओं", 3}, {"ाएं", 3},
	{"ुओं", 3}, {"ुएं", 3}, {"ुआं", 3},
	// 2-rune endings
	{"कर", 2}, {"ाओ", 2}, {"िए", 2}, {"ाई", 2}, {"ाए", 2}, {"ने", 2}, {"नी", 2}, {"ना", 2},
	{"ते", 2}, {"ीं", 2}, {"ती", 2}, {"ता", 2}, {"ाँ", 2}, {"ां", 2}, {"ों", 2}, {"ें", 2},
	// 1-rune endings
	{"ो", 1}, {"े", 1}, {"ू", 1}, {"ु", 1}, {"ी", 1}, {"ि", 1}, {"ा", 1},
}

// Hindi returns the stemmer for Hindi.
func Hindi() *Stemmer {
	return New("hi", hindiSuffixes)
}
