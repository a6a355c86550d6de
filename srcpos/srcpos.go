// Package srcpos tracks the mapping from byte offsets within a source file
// to (line, column) positions, and recovers the source text spanning any
// byte range (used to render a token's full source line in diagnostics).
// It accumulates incrementally as the lexer feeds characters, mirroring the
// line-start-offset index the reference lexer builds on the fly rather
// than scanning the whole buffer on every query.
package srcpos

import (
	"fmt"
	"sort"
)

// Pos is a 1-based (line, column) position.
type Pos struct {
	Line   int
	Column int
}

// Tracker accumulates a source file's bytes and the offsets at which each
// line begins, so that a later byte offset can be resolved to a line/column
// position in O(log lines), and so that the full text of any line (or any
// byte range) can be recovered for diagnostics.
type Tracker struct {
	filename   string
	buffer     []byte
	lineStarts []int
}

// New returns a Tracker for a source file named filename (used only for
// diagnostic messages, not opened by this package).
func New(filename string) *Tracker {
	return &Tracker{filename: filename, lineStarts: []int{0}}
}

// Filename returns the name this tracker was created with.
func (t *Tracker) Filename() string {
	return t.filename
}

// Len returns the number of bytes accumulated so far.
func (t *Tracker) Len() int {
	return len(t.buffer)
}

// PushBytes appends bytes to the tracked buffer. It does not itself detect
// newlines; callers drive Newline() explicitly as they observe '\n' bytes,
// matching how the lexer's own position-update step works character by
// character.
func (t *Tracker) PushBytes(b []byte) {
	t.buffer = append(t.buffer, b...)
}

// Newline records that the byte offset just reached (the current buffer
// length) is the start of a new line.
func (t *Tracker) Newline() {
	t.lineStarts = append(t.lineStarts, len(t.buffer))
}

// Query resolves a byte offset to its (line, column) position.
func (t *Tracker) Query(pos int) (Pos, error) {
	if pos < 0 || pos >= len(t.buffer) {
		return Pos{}, fmt.Errorf("srcpos: query position %d out of range (buffer has %d bytes)", pos, len(t.buffer))
	}

	// upper_bound: first line-start strictly greater than pos.
	idx := sort.SearchInts(t.lineStarts, pos+1)
	line := idx
	lineStart := t.lineStarts[idx-1]

	return Pos{Line: line, Column: pos - lineStart + 1}, nil
}

// LineRange returns the [begin, end) byte range of the given 1-based line
// number.
func (t *Tracker) LineRange(line int) (begin, end int, err error) {
	if line < 1 || line > len(t.lineStarts) {
		return 0, 0, fmt.Errorf("srcpos: query line %d out of range (%d lines tracked)", line, len(t.lineStarts))
	}

	begin = t.lineStarts[line-1]
	end = len(t.buffer)
	if line < len(t.lineStarts) {
		end = t.lineStarts[line]
	}
	return begin, end, nil
}

// QueryString returns the source text in byte range [from, to).
func (t *Tracker) QueryString(from, to int) (string, error) {
	if from > to || to > len(t.buffer) || from < 0 {
		return "", fmt.Errorf("srcpos: query string range [%d,%d) out of range (buffer has %d bytes)", from, to, len(t.buffer))
	}
	return string(t.buffer[from:to]), nil
}

// FullLine returns the complete source text of the line containing pos.
func (t *Tracker) FullLine(pos int) (string, error) {
	p, err := t.Query(pos)
	if err != nil {
		return "", err
	}
	begin, end, err := t.LineRange(p.Line)
	if err != nil {
		return "", err
	}
	return t.QueryString(begin, end)
}

// Cursor tracks the running (line, column, byte offset) position as a
// stream of characters is consumed one at a time, pushing each character's
// encoded bytes into an associated Tracker. This is the streaming
// counterpart to Tracker's random-access queries — the lexer advances a
// Cursor per character and only consults the Tracker later, when a
// diagnostic needs to resolve an already-consumed offset.
type Cursor struct {
	tracker *Tracker
	Line    int
	Column  int
	Offset  int
}

// NewCursor returns a Cursor starting at line 1, column 1 (no characters
// consumed yet), writing into the given Tracker.
func NewCursor(t *Tracker) *Cursor {
	return &Cursor{tracker: t, Line: 1, Column: 1}
}

// Advance consumes one character, given its encoded byte form, updating the
// running line/column/offset and feeding the bytes into the underlying
// Tracker.
func (c *Cursor) Advance(encoded []byte, isNewline bool) {
	c.tracker.PushBytes(encoded)
	c.Offset += len(encoded)

	if isNewline {
		c.Line++
		c.Column = 1
		c.tracker.Newline()
	} else {
		c.Column += len(encoded)
	}
}

// Snapshot captures the current cursor state as a Pos plus byte offset,
// suitable for stamping onto a token at the moment a rule starts matching.
func (c *Cursor) Snapshot() (Pos, int) {
	return Pos{Line: c.Line, Column: c.Column}, c.Offset
}
