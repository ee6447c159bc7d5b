package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bamsammich/streams/internal/decompress"
	"github.com/bamsammich/streams/internal/units"
)

func (a *app) decompressCmd() *cobra.Command {
	var (
		method string
		output string
	)

	cmd := &cobra.Command{
		Use:   "decompress [flags] <file>",
		Short: "Decompress a file to stdout or to --output",
		Long: "Decompress a file. Without --method the method is picked from the file\n" +
			"extension. Methods: none, deflate, gzip, brotli, zlib, zstd, lz4.\n" +
			"An unrecognized method copies the raw bytes through unchanged.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			applyDefault(cmd, "method", &method, a.cfg.Defaults.Method)

			src := args[0]
			m := decompress.MethodForPath(src)
			if method != "" {
				m = decompress.ParseMethod(method)
			}
			if m == decompress.Unknown {
				slog.Warn("unknown compression method, copying raw bytes", "method", method)
			}

			rc, err := decompress.Open(src, m)
			if err != nil {
				return err
			}
			defer rc.Close()

			var w io.Writer = a.stdout
			if output != "" {
				f, cerr := os.Create(output)
				if cerr != nil {
					return fmt.Errorf("create %s: %w", output, cerr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close %s: %w", output, cerr)
					}
				}()
				w = f
			}

			start := time.Now()
			n, err := io.Copy(w, rc)
			if err != nil {
				return fmt.Errorf("decompress %s: %w", src, err)
			}
			slog.Info("decompressed",
				"src", src,
				"method", m.String(),
				"size", units.Size(n),
				"rate", units.Rate(n, time.Since(start)),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "compression method (default: from file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to FILE instead of stdout")
	return cmd
}
