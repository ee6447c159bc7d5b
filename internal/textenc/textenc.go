// Package textenc resolves named character encodings and reads files
// through them.
package textenc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/bamsammich/streams/internal/validate"
)

var ErrInvalidArgument = validate.ErrInvalidArgument

// Default is the encoding used when none is given.
const Default = "utf-8"

// Lookup resolves an encoding by IANA name or alias (ISO-8859-1, latin1,
// windows-1251, Shift_JIS, ...), falling back to WHATWG labels. Matching
// ignores case. Names that are known but have no implementation are rejected
// like unknown ones.
func Lookup(name string) (encoding.Encoding, error) {
	if err := validate.Name("encoding", name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidArgument, name)
}

// CanonicalName returns the IANA name of enc, or its WHATWG name when IANA
// has none.
func CanonicalName(enc encoding.Encoding) string {
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return name
	}
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	return ""
}

// IsUTF8 reports whether enc is UTF-8. Text in UTF-8 needs no transform and
// is passed through byte for byte.
func IsUTF8(enc encoding.Encoding) bool {
	return strings.EqualFold(CanonicalName(enc), "UTF-8")
}

// ReadAll decodes the whole file at path under the named encoding. The
// encoding is resolved before the file is opened.
func ReadAll(path, name string) (string, error) {
	if err := validate.Source(path); err != nil {
		return "", err
	}
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(enc.NewDecoder().Reader(f))
	if err != nil {
		return "", fmt.Errorf("decode %s as %s: %w", path, name, err)
	}
	return string(data), nil
}
