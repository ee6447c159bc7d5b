// Package testutil holds helpers shared by package tests: fixture files and
// a probe that checks no descriptor is left open on a path.
package testutil

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(t testing.TB, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	_, err := rand.Read(data)
	require.NoError(t, err)
	return data
}

// Fixtures are source contents every copy strategy must reproduce exactly.
// The large fixtures exceed every internal buffer size.
func Fixtures(t testing.TB) map[string][]byte {
	t.Helper()
	text := make([]byte, 0, 64*1024)
	for len(text) < 60*1024 {
		text = append(text, "the quick brown fox jumps over the lazy dog, ünïcödé ✓\n"...)
	}
	return map[string][]byte{
		"empty":           {},
		"single byte":     {'x'},
		"single newline":  {'\n'},
		"no trailing nl":  []byte("first\nsecond\nthird"),
		"trailing nl":     []byte("first\nsecond\nthird\n"),
		"blank lines":     []byte("\n\n\na\n\n"),
		"crlf":            []byte("one\r\ntwo\r\nthree"),
		"exact block":     RepeatByte('b', 512),
		"block plus one":  RepeatByte('c', 513),
		"large text":      text,
		"large binary":    RandomBytes(t, 3*1024*1024+7),
		"invalid utf8":    {0xff, 0xfe, 'a', 0xc3, '\n', 0x80},
		"multibyte utf8":  []byte("Привет, мир\n日本語のテキスト\n🙂"),
		"nul bytes":       {0, 0, 0, '\n', 0},
		"trailing cr":     []byte("abc\r"),
		"only whitespace": []byte(" \t \n "),
	}
}

// RepeatByte returns n copies of b.
func RepeatByte(b byte, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}
	return data
}

// AssertClosed fails the test if the current process still holds a
// descriptor open on path. It inspects /proc/self/fd and is skipped where
// that is unavailable.
func AssertClosed(t testing.TB, path string) {
	t.Helper()
	if runtime.GOOS != "linux" {
		return
	}
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Logf("skipping handle probe: %v", err)
		return
	}
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", e.Name()))
		if err != nil {
			continue
		}
		if target == abs {
			t.Fatalf("file %s is still open (fd %s)", path, e.Name())
		}
	}
}

// AssertReopenable opens path read/write and closes it again, the way an
// external caller would after an operation returned.
func AssertReopenable(t testing.TB, path string) {
	t.Helper()
	AssertClosed(t, path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
