package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrMalformed reports source bytes that are not valid in the declared
// encoding.
var ErrMalformed = errors.New("malformed input")

// strictDecoder fails where the wrapped decoder would substitute U+FFFD.
// Output holding U+FFFD is accepted only when it re-encodes to exactly the
// bytes consumed, so a replacement character present in the source survives.
type strictDecoder struct {
	enc encoding.Encoding
	dec transform.Transformer
}

// NewStrictDecoder returns a decoder for enc that reports ErrMalformed
// instead of replacing invalid input.
func NewStrictDecoder(enc encoding.Encoding) transform.Transformer {
	return &strictDecoder{enc: enc, dec: enc.NewDecoder()}
}

func (d *strictDecoder) Reset() { d.dec.Reset() }

func (d *strictDecoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	nDst, nSrc, err := d.dec.Transform(dst, src, atEOF)
	if !bytes.ContainsRune(dst[:nDst], utf8.RuneError) {
		return nDst, nSrc, err
	}
	back, _, encErr := transform.Bytes(d.enc.NewEncoder(), dst[:nDst])
	if encErr != nil || !bytes.Equal(back, src[:nSrc]) {
		return 0, 0, fmt.Errorf("%w: not valid %s", ErrMalformed, CanonicalName(d.enc))
	}
	return nDst, nSrc, err
}
