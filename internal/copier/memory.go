package copier

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bamsammich/streams/internal/validate"
)

// MemoryCopy reads the whole source into memory, moves it byte by byte
// through an in-memory stream into a second buffer, and writes that buffer
// to dst in a single write. Memory use is proportional to the file size.
func MemoryCopy(src, dst string) (int, error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src, err)
	}

	var stream bytes.Buffer
	stream.Grow(len(data))
	for _, b := range data {
		stream.WriteByte(b)
	}

	result := make([]byte, stream.Len())
	for i := range result {
		// Len was checked above, ReadByte cannot run dry here.
		result[i], _ = stream.ReadByte()
	}

	if err := os.WriteFile(dst, result, 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return len(result), nil
}

// MemoryBlockCopy is the block-wise variant of MemoryCopy: each 512-byte
// block of the source is written into a reused in-memory stream, read back
// out of it and appended to the result, which is written to dst at the end.
func MemoryBlockCopy(src, dst string) (int, error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src, err)
	}

	var (
		stream bytes.Buffer
		result bytes.Buffer
		buf    [blockSize]byte
	)
	result.Grow(len(data))

	offset := 0
	for offset < len(data) {
		end := min(offset+blockSize, len(data))
		stream.Reset()
		stream.Write(data[offset:end])
		n, _ := stream.Read(buf[:end-offset])
		result.Write(buf[:n])
		offset += n
	}

	if err := os.WriteFile(dst, result.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return result.Len(), nil
}
