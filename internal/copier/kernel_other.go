//go:build !linux

package copier

import (
	"os"
)

// transfer copies with a pooled buffer. Only Linux has in-kernel paths here.
func transfer(out, in *os.File) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	n, err := copyChunks(out, in, *bufp, in.Name(), out.Name())
	return int64(n), err
}

// preallocate is a no-op on non-Linux platforms (fallocate is Linux-only).
func preallocate(_ *os.File, _ int64) {}
