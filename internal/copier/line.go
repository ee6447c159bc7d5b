package copier

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/transform"

	"github.com/bamsammich/streams/internal/textenc"
	"github.com/bamsammich/streams/internal/validate"
)

// LineCopy copies src to dst line by line as UTF-8 text. See LineCopyEncoded.
func LineCopy(src, dst string) (int, error) {
	return LineCopyEncoded(src, dst, textenc.Default)
}

// LineCopyEncoded copies src to dst one line at a time, decoding and
// re-encoding under the named encoding. Lines are split on '\n' only; a '\r'
// before it stays part of the line. Every terminated line is written with a
// single '\n' whatever the platform convention, and a final line without a
// terminator is written without one. Input that is not valid in the encoding
// fails with textenc.ErrMalformed. Returns the number of lines written.
func LineCopyEncoded(src, dst, encodingName string) (n int, err error) {
	if err := validate.Paths(src, dst); err != nil {
		return 0, err
	}
	enc, err := textenc.Lookup(encodingName)
	if err != nil {
		return 0, err
	}

	in, out, err := openPair(src, dst)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	defer closeDst(out, &err)

	var (
		r io.Reader = in
		w io.Writer = out
	)
	if !textenc.IsUTF8(enc) {
		r = transform.NewReader(in, textenc.NewStrictDecoder(enc))
		tw := transform.NewWriter(out, enc.NewEncoder())
		// Runs before closeDst so the encoder tail reaches the file.
		defer func() {
			if cerr := tw.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("encode %s: %w", dst, cerr)
			}
		}()
		w = tw
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return n, fmt.Errorf("read %s: %w", src, rerr)
		}
		if line != "" {
			terminated := strings.HasSuffix(line, "\n")
			if _, werr := bw.WriteString(strings.TrimSuffix(line, "\n")); werr != nil {
				return n, fmt.Errorf("write %s: %w", dst, werr)
			}
			if terminated {
				if werr := bw.WriteByte('\n'); werr != nil {
					return n, fmt.Errorf("write %s: %w", dst, werr)
				}
			}
			n++
		}
		if rerr != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush %s: %w", dst, err)
	}
	return n, nil
}
