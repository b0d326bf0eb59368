package screen

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// maxEncodedBytes bounds the decoder's look-ahead for one character.
const maxEncodedBytes = 16

// Char is one decoded display character. Width is the number of columns the
// character occupies (0 for combining and control characters, 2 for wide
// East Asian characters). Valid is unset for a byte that could not be
// decoded; exactly one such byte has been skipped.
type Char struct {
	Rune  rune
	Width int
	Valid bool
}

// Decoder turns a raw byte stream into display characters. Malformed input
// never stalls it: a failed decode consumes exactly one byte and the
// remaining look-ahead stays in the buffer for the next call.
type Decoder struct {
	br *bufio.Reader
}

// NewDecoder wraps r for character-at-a-time decoding.
func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{br: br}
}

// Buffered exposes the stream positioned after the last decoded character,
// so escape sequences can be examined without consuming them.
func (d *Decoder) Buffered() *bufio.Reader {
	return d.br
}

// Next decodes the next character. ok is false at end of stream; read errors
// mid-stream are treated the same way. A Char with Valid unset reports one
// undecodable byte.
func (d *Decoder) Next() (Char, bool) {
	for n := 1; n <= maxEncodedBytes; n++ {
		window, err := d.br.Peek(n)
		if len(window) == n && utf8.FullRune(window) {
			r, size := utf8.DecodeRune(window)
			if r == utf8.RuneError && size == 1 {
				d.br.Discard(1)
				return Char{}, true
			}
			d.br.Discard(size)
			return Char{Rune: r, Width: runewidth.RuneWidth(r), Valid: true}, true
		}
		if err != nil {
			if len(window) == 0 {
				return Char{}, false
			}
			// stream ended inside a sequence: drop one byte and resync
			d.br.Discard(1)
			return Char{}, true
		}
	}
	d.br.Discard(1)
	return Char{}, true
}
