package lex

import "github.com/coregx/ahocorasick"

// KeywordTable resolves an exact-match lexeme against a fixed dictionary
// (C99's reserved words, for instance) via a single Aho-Corasick automaton
// pass instead of a linear string-equality scan or an alternation-heavy
// identifier/keyword regex. It is a pure lookup table, independent of the
// Lexer's band/matcher machinery; a rule's Action consults it after its own
// identifier pattern matches, to decide whether to reclassify the lexeme as
// a keyword.
type KeywordTable struct {
	words   []string
	classes []TokenClass
	matcher *ahocorasick.Matcher
}

// NewKeywordTable builds a table from a set of exact keyword strings to the
// TokenClass each should produce.
func NewKeywordTable(keywords map[string]TokenClass) *KeywordTable {
	words := make([]string, 0, len(keywords))
	classes := make([]TokenClass, 0, len(keywords))
	for w, c := range keywords {
		words = append(words, w)
		classes = append(classes, c)
	}
	return &KeywordTable{
		words:   words,
		classes: classes,
		matcher: ahocorasick.NewStringMatcher(words),
	}
}

// Lookup reports the TokenClass of lexeme if it is exactly one of the
// declared keywords. The Aho-Corasick scan finds every dictionary entry
// that occurs anywhere in lexeme; since a keyword rule only ever cares
// about an exact whole-lexeme match, matches are filtered down to the one
// (if any) spanning the entire string.
func (kt *KeywordTable) Lookup(lexeme string) (TokenClass, bool) {
	for _, idx := range kt.matcher.Match([]byte(lexeme)) {
		if kt.words[idx] == lexeme {
			return kt.classes[idx], true
		}
	}
	return nil, false
}
