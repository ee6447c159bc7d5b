// Package decompress opens a file and wraps it in the streaming decoder
// selected by a compression method tag.
package decompress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bamsammich/streams/internal/validate"
)

// ErrNotFound is returned by Open when the source file does not exist.
var ErrNotFound = validate.ErrNotFound

// Method identifies the compression format of a stream.
type Method int

const (
	// None passes the file through unchanged.
	None Method = iota

	// Deflate is a raw RFC 1951 stream with no header or checksum.
	Deflate

	// GZip is an RFC 1952 stream.
	GZip

	// Brotli is an RFC 7932 stream.
	Brotli

	// Zlib is an RFC 1950 stream (deflate with a two-byte header and an
	// Adler-32 trailer).
	Zlib

	// Zstd is a Zstandard frame stream.
	Zstd

	// LZ4 is an LZ4 frame stream.
	LZ4

	// Unknown is what ParseMethod returns for names it does not know. Open
	// treats it, like any other unlisted value, as pass-through.
	Unknown Method = -1
)

var methodNames = map[Method]string{
	None:    "none",
	Deflate: "deflate",
	GZip:    "gzip",
	Brotli:  "brotli",
	Zlib:    "zlib",
	Zstd:    "zstd",
	LZ4:     "lz4",
}

// String returns the lowercase name of the method.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// ParseMethod resolves a method name, ignoring case. Unrecognized names map
// to Unknown rather than failing, so new formats fall through to raw reads.
func ParseMethod(name string) Method {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "identity", "":
		return None
	case "deflate", "flate":
		return Deflate
	case "gzip", "gz":
		return GZip
	case "brotli", "br":
		return Brotli
	case "zlib":
		return Zlib
	case "zstd", "zst", "zstandard":
		return Zstd
	case "lz4":
		return LZ4
	default:
		return Unknown
	}
}

// MethodForPath infers the method from the file extension. Files with no
// recognized extension are treated as uncompressed.
func MethodForPath(path string) Method {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".deflate":
		return Deflate
	case ".gz", ".gzip":
		return GZip
	case ".br":
		return Brotli
	case ".zz", ".zlib":
		return Zlib
	case ".zst":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// Open opens path and returns a reader producing its decompressed content.
// The caller owns the returned stream and must close it; closing releases the
// decoder and the underlying file. Methods Open does not know are read raw.
func Open(path string, m Method) (io.ReadCloser, error) {
	if err := validate.Source(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	rc, err := wrap(f, m)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s decoder for %s: %w", m, path, err)
	}
	return rc, nil
}

// NewReader wraps r in the decoder for m. Closing the result releases the
// decoder but not r.
func NewReader(r io.Reader, m Method) (io.ReadCloser, error) {
	return wrap(nopCloser{r}, m)
}

func wrap(src io.ReadCloser, m Method) (io.ReadCloser, error) {
	switch m {
	case Deflate:
		return &decoder{Reader: flate.NewReader(src), src: src}, nil

	case GZip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, err
		}
		return &decoder{Reader: zr, closeDecoder: zr.Close, src: src}, nil

	case Brotli:
		return &decoder{Reader: brotli.NewReader(src), src: src}, nil

	case Zlib:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, err
		}
		return &decoder{Reader: zr, closeDecoder: zr.Close, src: src}, nil

	case Zstd:
		zr, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &decoder{Reader: zr, closeDecoder: func() error {
			zr.Close()
			return nil
		}, src: src}, nil

	case LZ4:
		return &decoder{Reader: lz4.NewReader(src), src: src}, nil

	default:
		// None and anything unrecognized.
		return src, nil
	}
}

// decoder pairs a decompressing reader with the stream it reads from.
type decoder struct {
	io.Reader
	closeDecoder func() error
	src          io.Closer
}

// Close releases the decoder first, then the source stream.
func (d *decoder) Close() error {
	var decErr error
	if d.closeDecoder != nil {
		decErr = d.closeDecoder()
	} else if c, ok := d.Reader.(io.Closer); ok {
		decErr = c.Close()
	}
	return errors.Join(decErr, d.src.Close())
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }
