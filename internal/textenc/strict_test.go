package textenc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/bamsammich/streams/internal/textenc"
)

func TestStrictDecoderValidInput(t *testing.T) {
	got, _, err := transform.String(textenc.NewStrictDecoder(charmap.Windows1252), "caf\xe9")
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	// An encoded U+FFFD is a real character, not a substitution.
	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	got, _, err = transform.String(textenc.NewStrictDecoder(utf16), "\xfd\xff")
	require.NoError(t, err)
	assert.Equal(t, "\ufffd", got)
}

func TestStrictDecoderRejectsInvalidInput(t *testing.T) {
	_, _, err := transform.String(textenc.NewStrictDecoder(charmap.Windows1252), "a\x81b")
	assert.ErrorIs(t, err, textenc.ErrMalformed)

	utf16 := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	_, _, err = transform.String(textenc.NewStrictDecoder(utf16), "a\x00b")
	assert.ErrorIs(t, err, textenc.ErrMalformed)
}
