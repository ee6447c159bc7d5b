// Package validate checks operation arguments before any file is opened.
package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrInvalidArgument reports a malformed call input: an empty or
	// whitespace path, or an unsupported encoding, algorithm or strategy name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports that the source path does not name an existing file.
	// Errors carrying it also match fs.ErrNotExist.
	ErrNotFound = errors.New("not found")
)

// Paths validates a source/destination pair. The destination is only checked
// for being well formed; it is created or truncated by the caller.
func Paths(src, dst string) error {
	if err := Name("sourcePath", src); err != nil {
		return err
	}
	if err := Name("destinationPath", dst); err != nil {
		return err
	}
	return exists(src)
}

// Source validates a single source path.
func Source(src string) error {
	if err := Name("sourcePath", src); err != nil {
		return err
	}
	return exists(src)
}

// Name rejects empty or whitespace-only string arguments. param is the
// argument name reported in the error.
func Name(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty or whitespace", ErrInvalidArgument, param)
	}
	return nil
}

func exists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: file %q: %w", ErrNotFound, path, fs.ErrNotExist)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory: %w", ErrNotFound, path, fs.ErrNotExist)
	}
	return nil
}
