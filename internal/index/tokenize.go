package index

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`\w+`)

// stopwords are excluded from the inverted index and from query tokens.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "in": {}, "to": {}, "a": {},
}

// Tokenize lowercases the text, splits it into word tokens and drops
// stopwords. Exported so the search service can tokenize queries the same
// way documents were indexed.
func Tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	tokens := words[:0]
	for _, w := range words {
		if _, skip := stopwords[w]; !skip {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// tokenizeAll splits into lowercase word tokens without stopword removal.
// Proximity search needs every word position, stopwords included.
func tokenizeAll(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}
