// Package framer turns an arbitrarily chunked byte stream into newline-delimited lines.
package framer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Framer reassembles chunks into lines. Not goroutine-safe: it is owned by a
// single read loop.
type Framer struct {
	dec     transform.Transformer
	pending []byte // undecoded tail (incomplete UTF-8 sequence)
	carry   string // decoded text after the last terminator
}

// New creates a Framer with an empty carry-over buffer.
func New() *Framer {
	return &Framer{dec: unicode.UTF8.NewDecoder()}
}

// Feed decodes chunk and returns every line completed by it, in arrival order.
// Terminators are stripped; the unterminated tail is kept for the next call.
// Invalid UTF-8 is replaced with U+FFFD rather than rejected.
func (f *Framer) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}

	text := f.carry + f.decode(chunk)
	parts := strings.Split(text, "\n")
	f.carry = parts[len(parts)-1]

	if len(parts) == 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

// decode runs src through the UTF-8 decoder. A rune cut off at the chunk
// boundary stays in pending until the rest of it arrives.
func (f *Framer) decode(chunk []byte) string {
	src := make([]byte, 0, len(f.pending)+len(chunk))
	src = append(src, f.pending...)
	src = append(src, chunk...)

	// Each invalid byte can expand to a 3-byte replacement character.
	dst := make([]byte, len(src)*3+utf8.UTFMax)
	nDst, nSrc, _ := f.dec.Transform(dst, src, false)

	f.pending = append(f.pending[:0], src[nSrc:]...)
	return string(dst[:nDst])
}

// Carry returns the current unterminated tail.
func (f *Framer) Carry() string {
	return f.carry
}

// Reset drops the carry-over and any pending partial rune. Called at
// end-of-stream: an unterminated final line is discarded, never emitted.
func (f *Framer) Reset() {
	f.carry = ""
	f.pending = f.pending[:0]
	f.dec.Reset()
}
