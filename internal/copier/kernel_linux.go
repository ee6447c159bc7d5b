//go:build linux

package copier

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// maxTransfer bounds a single copy_file_range/sendfile request. Loops keep
// going until the kernel reports end of file.
const maxTransfer = 1 << 30

// transfer tries copy_file_range, then sendfile, then pread/pwrite. A later
// method is only tried if the earlier one failed before moving any bytes.
func transfer(out, in *os.File) (int64, error) {
	n, err := copyFileRange(out, in)
	if err == nil || n > 0 || !isFallbackErr(err) {
		return n, err
	}

	n, err = copySendfile(out, in)
	if err == nil || n > 0 || !isFallbackErr(err) {
		return n, err
	}

	return copyReadWrite(out, in)
}

//nolint:gosec // G115: fd values are small non-negative integers
func copyFileRange(out, in *os.File) (int64, error) {
	var roff, woff int64
	var total int64
	for {
		n, err := unix.CopyFileRange(int(in.Fd()), &roff, int(out.Fd()), &woff, maxTransfer, 0)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += int64(n)
	}
}

//nolint:gosec // G115: fd values are small non-negative integers
func copySendfile(out, in *os.File) (int64, error) {
	var offset int64
	var total int64
	for {
		n, err := unix.Sendfile(int(out.Fd()), int(in.Fd()), &offset, maxTransfer)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += int64(n)
	}
}

// copyReadWrite copies with pread/pwrite through a pooled buffer.
//
//nolint:gosec // G115: fd values are small non-negative integers
func copyReadWrite(out, in *os.File) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	srcFd := int(in.Fd())
	dstFd := int(out.Fd())

	var offset int64
	for {
		n, err := unix.Pread(srcFd, buf, offset)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return offset, err
		}
		if n == 0 {
			return offset, nil
		}

		written := 0
		for written < n {
			w, err := unix.Pwrite(dstFd, buf[written:n], offset+int64(written))
			if err != nil {
				return offset + int64(written), err
			}
			written += w
		}
		offset += int64(n)
	}
}

// isFallbackErr reports whether err means the method is unavailable for this
// pair of files and the next one should be tried.
func isFallbackErr(err error) bool {
	switch {
	case errors.Is(err, unix.ENOSYS),
		errors.Is(err, unix.EXDEV),
		errors.Is(err, unix.EINVAL),
		errors.Is(err, unix.ENOTSUP),
		errors.Is(err, unix.EOPNOTSUPP),
		errors.Is(err, unix.EPERM):
		return true
	}
	return false
}

// preallocate reserves space for size bytes. Errors are ignored as fallocate
// is not supported on all filesystems.
//
//nolint:gosec // G115: fd values are small non-negative integers
func preallocate(fd *os.File, size int64) {
	if size <= 0 {
		return
	}
	//nolint:errcheck // fallocate is advisory
	unix.Fallocate(int(fd.Fd()), 0, 0, size)
}
