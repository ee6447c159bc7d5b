package copier

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bamsammich/streams/internal/validate"
)

// BlockCopy copies src to dst through a reusable 512-byte buffer, writing
// exactly as many bytes as each read returned. The final block may be short.
func BlockCopy(src, dst string) (n int, err error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	in, out, err := openPair(src, dst)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	defer closeDst(out, &err)

	return copyChunks(out, in, make([]byte, blockSize), src, dst)
}

// bufferedChunk is the read/write size used on top of the bufio layer. It is
// smaller than blockSize so the decorators have small calls to coalesce.
const bufferedChunk = blockSize / 8

// BufferedCopy wraps both files in bufio decorators and copies through them
// in small chunks. The writer is flushed before the destination is closed.
func BufferedCopy(src, dst string) (n int, err error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	in, out, err := openPair(src, dst)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	defer closeDst(out, &err)

	br := bufio.NewReaderSize(in, blockSize)
	bw := bufio.NewWriterSize(out, blockSize)

	n, err = copyChunks(bw, br, make([]byte, bufferedChunk), src, dst)
	if err != nil {
		return n, err
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush %s: %w", dst, err)
	}
	return n, nil
}

// copyChunks moves data from r to w through buf until r reports io.EOF.
// io.CopyBuffer is avoided on purpose: it would hand off to WriterTo or
// ReaderFrom and bypass the buffer.
func copyChunks(w io.Writer, r io.Reader, buf []byte, src, dst string) (int, error) {
	var total int
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, fmt.Errorf("write %s: %w", dst, werr)
			}
			total += n
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, fmt.Errorf("read %s: %w", src, rerr)
		}
	}
}
