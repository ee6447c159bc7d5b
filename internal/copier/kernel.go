package copier

import (
	"fmt"
	"sync"

	"github.com/bamsammich/streams/internal/validate"
)

// transferBufferSize is the pooled buffer used when the kernel offers no
// in-kernel copy path.
const transferBufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, transferBufferSize)
		return &b
	},
}

// KernelCopy copies src to dst using the most direct transfer the platform
// offers. On Linux that is copy_file_range(2), then sendfile(2), then
// pread/pwrite, falling through on unsupported or cross-device errors.
// Elsewhere it is a buffered read/write loop.
func KernelCopy(src, dst string) (n int, err error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	in, out, err := openPair(src, dst)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	defer closeDst(out, &err)

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", src, err)
	}
	size := info.Size()
	preallocate(out, size)

	written, err := transfer(out, in)
	if err != nil {
		return int(written), fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	// Preallocation may have grown dst past what was written if src shrank.
	if written < size {
		if err := out.Truncate(written); err != nil {
			return int(written), fmt.Errorf("truncate %s: %w", dst, err)
		}
	}
	return int(written), nil
}
