// Package copier implements interchangeable strategies for copying one file
// to another. Every strategy validates its arguments before opening anything,
// truncates or creates the destination, produces a byte-identical copy and
// releases every handle it opened before returning.
package copier

import (
	"fmt"
	"os"
	"strings"

	"github.com/bamsammich/streams/internal/textenc"
	"github.com/bamsammich/streams/internal/validate"
)

// Re-exported so callers can match copier errors without importing validate.
var (
	ErrInvalidArgument = validate.ErrInvalidArgument
	ErrNotFound        = validate.ErrNotFound
	ErrMalformed       = textenc.ErrMalformed
)

// blockSize is the fixed chunk used by the block-oriented strategies.
const blockSize = 512

// Strategy identifies which copy algorithm to use.
type Strategy int

const (
	ByteStream  Strategy = iota // one byte per read/write
	Memory                      // whole file round-tripped through memory
	MemoryBlock                 // memory round-trip in 512-byte blocks
	Block                       // 512-byte reusable buffer
	Buffered                    // bufio decorators on both ends
	Line                        // line by line under a text encoding
	Kernel                      // copy_file_range/sendfile where available
)

var strategyNames = []string{
	ByteStream:  "byte",
	Memory:      "memory",
	MemoryBlock: "memory-block",
	Block:       "block",
	Buffered:    "buffered",
	Line:        "line",
	Kernel:      "kernel",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return "unknown"
	}
	return strategyNames[s]
}

// ParseStrategy resolves a strategy from its name. Matching ignores case.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown copy strategy %q", ErrInvalidArgument, name)
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	all := make([]Strategy, len(strategyNames))
	for i := range all {
		all[i] = Strategy(i)
	}
	return all
}

// Result reports the outcome of a copy. Count is in bytes for every strategy
// except Line, which counts lines.
type Result struct {
	Count    int
	Strategy Strategy
}

// Func is the shared shape of every copy strategy.
type Func func(src, dst string) (int, error)

func (s Strategy) fn() Func {
	switch s {
	case ByteStream:
		return ByteCopy
	case Memory:
		return MemoryCopy
	case MemoryBlock:
		return MemoryBlockCopy
	case Block:
		return BlockCopy
	case Buffered:
		return BufferedCopy
	case Line:
		return LineCopy
	case Kernel:
		return KernelCopy
	default:
		return nil
	}
}

// Copy runs the given strategy.
func Copy(s Strategy, src, dst string) (Result, error) {
	fn := s.fn()
	if fn == nil {
		return Result{}, fmt.Errorf("%w: unknown copy strategy %d", ErrInvalidArgument, int(s))
	}
	n, err := fn(src, dst)
	return Result{Count: n, Strategy: s}, err
}

// openPair opens src for reading and creates or truncates dst. On error
// nothing is left open.
func openPair(src, dst string) (*os.File, *os.File, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", src, err)
	}
	out, err := createDst(dst)
	if err != nil {
		in.Close()
		return nil, nil, err
	}
	return in, out, nil
}

func createDst(dst string) (*os.File, error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}
	return out, nil
}

// closeDst closes the destination. A close error is reported only if the copy
// itself succeeded.
func closeDst(out *os.File, err *error) {
	if cerr := out.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", out.Name(), cerr)
	}
}
