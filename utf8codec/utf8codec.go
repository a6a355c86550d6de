// Package utf8codec implements a streaming, byte-at-a-time UTF-8 decoder and
// a matching encoder, hand-rolled (rather than delegating to the stdlib
// unicode/utf8 package) so that overlong encodings and out-of-range
// continuation bytes are rejected exactly per length class, per the
// toolkit's invariant 5. Feed one byte at a time; a code point is only
// returned once every continuation byte of its sequence has arrived.
package utf8codec

import (
	"github.com/dekarrin/ictioglot/utf8err"
)

// boundsByLen gives the valid [low, high] code point range for each
// encoded sequence length (0-indexed by number of continuation bytes),
// used to reject overlong encodings: a 3-byte sequence that encodes a code
// point below 0x800, for example, is well-formed bit-wise but not a
// minimal encoding and must be rejected.
var boundsByLen = [4][2]rune{
	{0x00, 0x7f},
	{0x80, 0x7ff},
	{0x800, 0xffff},
	{0x10000, 0x10ffff},
}

// Decoder accumulates the bytes of one in-progress UTF-8 sequence across
// successive Feed calls.
type Decoder struct {
	buf []byte
}

// NewDecoder returns a Decoder ready to accept bytes.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset discards any partially-accumulated sequence.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

// Pending reports how many bytes of an in-progress sequence have been
// buffered so far.
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Feed consumes one byte. It returns (r, true, nil) once c completes a
// valid code point, (0, false, nil) if c was accepted but the sequence is
// still incomplete, and a non-nil error (see package utf8err) if c makes
// the in-progress sequence invalid. On error the decoder's buffer is reset,
// so the caller may continue feeding bytes of the next sequence.
func (d *Decoder) Feed(c byte) (r rune, complete bool, err error) {
	d.buf = append(d.buf, c)
	lead := d.buf[0]

	var length int
	var val rune
	switch {
	case lead&0b10000000 == 0:
		length = 0
		val = rune(lead)
	case lead&0b11111000 == 0b11110000:
		length = 3
		val = rune(lead&0b00000111) << 18
	case lead&0b11110000 == 0b11100000:
		length = 2
		val = rune(lead&0b00001111) << 12
	case lead&0b11100000 == 0b11000000:
		length = 1
		val = rune(lead&0b00011111) << 6
	default:
		d.Reset()
		return 0, false, utf8err.InvalidLead(lead)
	}

	if length >= len(d.buf) {
		return 0, false, nil
	}

	for j := 0; j < length; j++ {
		cb := d.buf[1+j]
		if cb&0b11000000 != 0b10000000 {
			d.Reset()
			return 0, false, utf8err.InvalidContinuation(cb, j)
		}
		val |= rune(cb&0b00111111) << uint(6*(length-j-1))
	}

	lo, hi := boundsByLen[length][0], boundsByLen[length][1]
	if val < lo || val > hi {
		d.Reset()
		return 0, false, utf8err.Overlong(val, length)
	}

	d.Reset()
	return val, true, nil
}

// DecodeAll decodes every byte of b as a complete sequence of code points,
// returning an error on the first malformed sequence (and abandoning the
// trailing bytes, per spec.md's "the byte-level decoder rejects a malformed
// sequence outright" policy — there is no resynchronization/replacement-
// character recovery at this layer; that is the lexer's panic-mode
// responsibility).
func DecodeAll(b []byte) ([]rune, error) {
	d := NewDecoder()
	var out []rune
	for _, c := range b {
		r, complete, err := d.Feed(c)
		if err != nil {
			return nil, err
		}
		if complete {
			out = append(out, r)
		}
	}
	if d.Pending() > 0 {
		return nil, utf8err.Truncated(d.Pending())
	}
	return out, nil
}

// Encode returns the UTF-8 byte sequence for r. Code points outside
// [0, 0x10FFFF] encode to nil.
func Encode(r rune) []byte {
	c := uint32(r)

	switch {
	case c < 0x80:
		return []byte{byte(c)}
	case c < 0x800:
		return []byte{
			byte(0b11000000 | (c >> 6)),
			byte(0b10000000 | (c & 0b00111111)),
		}
	case c < 0x10000:
		return []byte{
			byte(0b11100000 | (c >> 12)),
			byte(0b10000000 | ((c >> 6) & 0b00111111)),
			byte(0b10000000 | (c & 0b00111111)),
		}
	case c < 0x110000:
		return []byte{
			byte(0b11110000 | (c >> 18)),
			byte(0b10000000 | ((c >> 12) & 0b00111111)),
			byte(0b10000000 | ((c >> 6) & 0b00111111)),
			byte(0b10000000 | (c & 0b00111111)),
		}
	default:
		return nil
	}
}

// EncodeString encodes every rune of s into one contiguous byte sequence.
func EncodeString(s []rune) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, Encode(r)...)
	}
	return out
}
