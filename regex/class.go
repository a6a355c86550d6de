package regex

import (
	"github.com/dekarrin/ictioglot/automaton"
	"github.com/dekarrin/ictioglot/rangeset"
)

// negateRanges computes the complement of the given class ranges within
// [MinChar, MaxChar] (§4.2: "complement subtracts from [MIN..MAX]"),
// delegating the actual interval algebra to the rangeset package (C1)
// rather than re-implementing merge/split here.
func negateRanges(ranges []charRangeNode) []charRangeNode {
	rs := make([]rangeset.Range, len(ranges))
	for i, r := range ranges {
		rs[i] = rangeset.Range{Lo: r.Lo, Hi: r.Hi}
	}

	comp := rangeset.Complement(rs, automaton.MinChar, automaton.MaxChar)

	out := make([]charRangeNode, len(comp))
	for i, r := range comp {
		out[i] = charRangeNode{Lo: r.Lo, Hi: r.Hi}
	}
	return out
}
