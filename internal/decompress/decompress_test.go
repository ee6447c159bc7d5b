package decompress_test

import (
	"bytes"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/streams/internal/decompress"
	"github.com/bamsammich/streams/internal/testutil"
)

// compress encodes data with the writer for m.
func compress(t *testing.T, m decompress.Method, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser

	switch m {
	case decompress.Deflate:
		fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		w = fw
	case decompress.GZip:
		w = gzip.NewWriter(&buf)
	case decompress.Brotli:
		w = brotli.NewWriter(&buf)
	case decompress.Zlib:
		w = zlib.NewWriter(&buf)
	case decompress.Zstd:
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = zw
	case decompress.LZ4:
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("no compressor for %s", m)
	}

	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func reference() []byte {
	return []byte(strings.Repeat("Streams and I/O: the quick brown fox jumps over the lazy dog.\n", 2000))
}

func TestOpenDecompressesEveryMethod(t *testing.T) {
	ref := reference()
	methods := []decompress.Method{
		decompress.Deflate,
		decompress.GZip,
		decompress.Brotli,
		decompress.Zlib,
		decompress.Zstd,
		decompress.LZ4,
	}

	for _, m := range methods {
		t.Run(m.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := testutil.WriteFile(t, dir, "ref."+m.String(), compress(t, m, ref))

			rc, err := decompress.Open(path, m)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())

			assert.Equal(t, ref, got)
			testutil.AssertReopenable(t, path)
		})
	}
}

func TestOpenNoneReturnsContentUnchanged(t *testing.T) {
	dir := t.TempDir()
	ref := reference()
	path := testutil.WriteFile(t, dir, "ref.txt", ref)

	rc, err := decompress.Open(path, decompress.None)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, ref, got)
}

func TestOpenUnknownMethodPassesThrough(t *testing.T) {
	dir := t.TempDir()
	gz := compress(t, decompress.GZip, []byte("payload"))
	path := testutil.WriteFile(t, dir, "data.bin", gz)

	for _, m := range []decompress.Method{decompress.Unknown, decompress.Method(42)} {
		rc, err := decompress.Open(path, m)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, gz, got, "unknown method must return raw bytes")
	}
	testutil.AssertClosed(t, path)
}

func TestOpenNotFound(t *testing.T) {
	_, err := decompress.Open(filepath.Join(t.TempDir(), "missing.gz"), decompress.GZip)
	assert.ErrorIs(t, err, decompress.ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenBadHeaderReleasesFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.gz", []byte("definitely not gzip"))

	rc, err := decompress.Open(path, decompress.GZip)
	require.Error(t, err)
	assert.Nil(t, rc)
	testutil.AssertReopenable(t, path)
}

func TestNewReaderLeavesSourceOpen(t *testing.T) {
	ref := reference()
	src := bytes.NewReader(compress(t, decompress.Zstd, ref))

	rc, err := decompress.NewReader(src, decompress.Zstd)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, ref, got)
}

func TestParseMethod(t *testing.T) {
	tests := map[string]decompress.Method{
		"None":    decompress.None,
		"":        decompress.None,
		"Deflate": decompress.Deflate,
		"GZip":    decompress.GZip,
		"gz":      decompress.GZip,
		"Brotli":  decompress.Brotli,
		"br":      decompress.Brotli,
		"zlib":    decompress.Zlib,
		"ZSTD":    decompress.Zstd,
		"lz4":     decompress.LZ4,
		"lzma":    decompress.Unknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, decompress.ParseMethod(name), name)
	}
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "gzip", decompress.GZip.String())
	assert.Equal(t, "brotli", decompress.Brotli.String())
	assert.Equal(t, "unknown(-1)", decompress.Unknown.String())
	assert.Equal(t, "unknown(42)", decompress.Method(42).String())
}

func TestMethodForPath(t *testing.T) {
	assert.Equal(t, decompress.GZip, decompress.MethodForPath("a/b.tar.GZ"))
	assert.Equal(t, decompress.Brotli, decompress.MethodForPath("page.html.br"))
	assert.Equal(t, decompress.Deflate, decompress.MethodForPath("x.deflate"))
	assert.Equal(t, decompress.Zlib, decompress.MethodForPath("x.zz"))
	assert.Equal(t, decompress.Zstd, decompress.MethodForPath("x.zst"))
	assert.Equal(t, decompress.LZ4, decompress.MethodForPath("x.lz4"))
	assert.Equal(t, decompress.None, decompress.MethodForPath("notes.txt"))
}
