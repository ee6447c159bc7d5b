package copier

import (
	"errors"
	"fmt"
	"io"

	"github.com/bamsammich/streams/internal/validate"
)

// ByteCopy copies src to dst one byte at a time directly against the file
// handles. It stops at end of stream rather than at a length taken up front,
// so a source that changes size mid-copy is still copied to its actual end.
func ByteCopy(src, dst string) (n int, err error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	in, out, err := openPair(src, dst)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	defer closeDst(out, &err)

	var b [1]byte
	for {
		r, rerr := in.Read(b[:])
		if r == 1 {
			if _, werr := out.Write(b[:]); werr != nil {
				return n, fmt.Errorf("write %s: %w", dst, werr)
			}
			n++
		}
		if errors.Is(rerr, io.EOF) {
			return n, nil
		}
		if rerr != nil {
			return n, fmt.Errorf("read %s: %w", src, rerr)
		}
	}
}
