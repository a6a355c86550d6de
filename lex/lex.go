// Package lex implements the priority-layered streaming lexer (§4.6): many
// regex matchers run in parallel over a character stream, organized into
// major priority bands and, within a band, minor priority groups and
// declaration order. The longest match in the highest live band wins;
// ties within one minor group are a configuration error rather than a
// silent pick, since the rule author should have separated them into
// distinct minor groups if one was meant to dominate.
package lex

import (
	"github.com/dekarrin/ictioglot/lexerr"
	"github.com/dekarrin/ictioglot/srcpos"
)

type cachedChar struct {
	r      rune
	line   int
	col    int
	offset int
	length int
}

type band struct {
	major int
	rules []*Rule
}

// Lexer is a push-based streaming tokenizer: the caller feeds one character
// at a time via Feed, and reads back zero or more completed Tokens per
// call, plus any final token(s) on End.
type Lexer struct {
	Filename string

	bands    []band
	tracker  *srcpos.Tracker
	cursor   *srcpos.Cursor
	cache    []cachedChar
	fedCount int
	bestBand int
	lastTok  Token
}

// New returns an empty Lexer for a source named filename (used only in
// diagnostics and in Token.Filename).
func New(filename string) *Lexer {
	tracker := srcpos.New(filename)
	return &Lexer{
		Filename: filename,
		tracker:  tracker,
		cursor:   srcpos.NewCursor(tracker),
		bestBand: -1,
	}
}

// AddRule declares a rule, placing it into its major/minor band. AddRule
// must be called before the first Feed.
func (l *Lexer) AddRule(r *Rule) {
	r.declOrder = l.totalRules()
	for i := range l.bands {
		if l.bands[i].major == r.Major {
			l.bands[i].rules = append(l.bands[i].rules, r)
			l.sortBands()
			return
		}
	}
	l.bands = append(l.bands, band{major: r.Major, rules: []*Rule{r}})
	l.sortBands()
}

func (l *Lexer) totalRules() int {
	n := 0
	for _, b := range l.bands {
		n += len(b.rules)
	}
	return n
}

func (l *Lexer) sortBands() {
	// insertion sort is fine: rule sets are small (tens, not thousands) and
	// this runs only at declaration time, never per character.
	for i := 1; i < len(l.bands); i++ {
		j := i
		for j > 0 && l.bands[j-1].major > l.bands[j].major {
			l.bands[j-1], l.bands[j] = l.bands[j], l.bands[j-1]
			j--
		}
	}
	for bi := range l.bands {
		rules := l.bands[bi].rules
		for i := 1; i < len(rules); i++ {
			j := i
			for j > 0 && rankBefore(rules[j], rules[j-1]) {
				rules[j-1], rules[j] = rules[j], rules[j-1]
				j--
			}
		}
	}
}

func rankBefore(a, b *Rule) bool {
	if a.Minor != b.Minor {
		return a.Minor < b.Minor
	}
	return a.declOrder < b.declOrder
}

// Feed consumes one character, given its encoded byte form (used for
// position tracking), returning any tokens completed by consuming it. A
// '\n' rune starts a new line.
func (l *Lexer) Feed(r rune, encoded []byte) ([]Token, error) {
	pos, offset := l.cursor.Snapshot()
	l.cursor.Advance(encoded, r == '\n')
	l.cache = append(l.cache, cachedChar{r: r, line: pos.Line, col: pos.Column, offset: offset, length: len(encoded)})
	return l.drain(false)
}

// End signals that no further input is coming, finalizing any token whose
// match is still live and reporting an error if characters remain that no
// rule ever matched.
func (l *Lexer) End() ([]Token, error) {
	return l.drain(true)
}

func (l *Lexer) drain(atEOF bool) ([]Token, error) {
	var out []Token
	for {
		resolved, winner, candidates, err := l.advance()
		if err != nil {
			return out, err
		}
		if resolved {
			tok, err := l.emit(winner, candidates)
			if err != nil {
				return out, err
			}
			if tok != nil {
				l.lastTok = tok
				out = append(out, tok)
			}
			continue
		}

		// No resolution from the characters currently cached.
		if !atEOF {
			return out, nil
		}

		if l.bestBand == -1 {
			if len(l.cache) > 0 {
				c := l.cache[0]
				return out, lexerr.UnexpectedEOF(c.line, c.col)
			}
			return out, nil
		}

		// End of input with a live match in the best band: finalize using
		// whichever rules in that band have ever recorded a match,
		// regardless of whether they're still alive.
		candidates := l.finishedInBand(l.bestBand)
		if len(candidates) == 0 {
			c := l.cache[0]
			return out, lexerr.UnexpectedEOF(c.line, c.col)
		}
		tok, err := l.emit(l.bestBand, candidates)
		if err != nil {
			return out, err
		}
		if tok != nil {
			l.lastTok = tok
			out = append(out, tok)
		}
		if l.fedCount == 0 && len(l.cache) == 0 {
			return out, nil
		}
	}
}

// advance feeds cached-but-not-yet-fed characters into the live rule bands,
// one character at a time, until either a band resolves (returns true) or
// every cached character has been fed without resolution (returns false,
// more input needed).
func (l *Lexer) advance() (resolved bool, winnerBand int, candidates []*Rule, err error) {
	for l.fedCount < len(l.cache) {
		c := l.cache[l.fedCount]
		cumDead := true

		for bi := range l.bands {
			b := &l.bands[bi]
			if l.bestBand != -1 && b.major > l.bestBand {
				break
			}
			bandAnyLive := false
			var finished []*Rule

			for _, ru := range b.rules {
				if ru.suppress {
					continue
				}
				if ru.dead {
					if ru.matchLen > 0 {
						finished = append(finished, ru)
					}
					continue
				}

				ru.matcher.Feed(c.r)
				ru.feedLen++

				if ru.matcher.Dead() {
					ru.dead = true
					if ru.matchLen > 0 {
						finished = append(finished, ru)
					}
				} else {
					bandAnyLive = true
					if ru.matcher.Match() {
						ru.matchLen = ru.feedLen
						if l.bestBand == -1 || b.major < l.bestBand {
							l.bestBand = b.major
						}
					}
				}
			}

			cumDead = cumDead && !bandAnyLive
			if cumDead && len(finished) > 0 {
				l.fedCount++
				return true, b.major, finished, nil
			}
		}

		if cumDead && l.bestBand == -1 {
			return false, 0, nil, lexerr.NoMatch(c.r, c.line, c.col)
		}
		l.fedCount++
	}
	return false, 0, nil, nil
}

// finishedInBand collects every rule in the given band that has ever
// recorded a match, used at end-of-input where a rule may still be alive
// (e.g. a Star pattern that could always accept more) but no more input is
// coming.
func (l *Lexer) finishedInBand(major int) []*Rule {
	for bi := range l.bands {
		if l.bands[bi].major != major {
			continue
		}
		var out []*Rule
		for _, ru := range l.bands[bi].rules {
			if ru.matchLen > 0 {
				out = append(out, ru)
			}
		}
		return out
	}
	return nil
}

// emit resolves the winning rule among candidates (all drawn from the same
// major band), builds its token, consumes the matched prefix from the
// cache, and resets every rule for the next cycle.
func (l *Lexer) emit(major int, candidates []*Rule) (Token, error) {
	maxLen := 0
	for _, ru := range candidates {
		if ru.matchLen > maxLen {
			maxLen = ru.matchLen
		}
	}

	var winners []*Rule
	minMinor := 0
	for _, ru := range candidates {
		if ru.matchLen != maxLen {
			continue
		}
		if len(winners) == 0 || ru.Minor < minMinor {
			winners = []*Rule{ru}
			minMinor = ru.Minor
		} else if ru.Minor == minMinor {
			winners = append(winners, ru)
		}
	}

	if len(winners) > 1 {
		c := l.cache[0]
		return nil, lexerr.Conflict(winners[0].Name, winners[1].Name, maxLen, c.line, c.col)
	}
	winner := winners[0]

	start := l.cache[0]
	consumed := l.cache[:maxLen]
	lexeme := make([]rune, len(consumed))
	var byteLen int
	for i, c := range consumed {
		lexeme[i] = c.r
		byteLen += c.length
	}
	fullLine, _ := l.tracker.FullLine(start.offset)

	tok, err := winner.Act(string(lexeme), start.line, start.col, fullLine, start.offset, byteLen, l.Filename)
	if err != nil {
		return nil, err
	}

	remainder := append([]cachedChar(nil), l.cache[maxLen:]...)
	l.cache = remainder
	l.fedCount = 0
	l.bestBand = -1

	if tok != nil {
		l.lastTok = tok
	}

	for bi := range l.bands {
		for _, ru := range l.bands[bi].rules {
			ru.reset()
			if ru.Guard != nil {
				ru.suppress = !ru.Guard(l.lastTok)
			} else {
				ru.suppress = false
			}
		}
	}

	return tok, nil
}
