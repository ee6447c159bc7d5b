package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/streams/internal/copier"
	"github.com/bamsammich/streams/internal/hashing"
	"github.com/bamsammich/streams/internal/textenc"
	"github.com/bamsammich/streams/internal/units"
)

const defaultVerifyAlgorithm = "BLAKE3"

// strategyFlag is a pflag.Value that parses strategy names as they are set,
// so a bad --strategy fails during flag parsing.
type strategyFlag struct {
	value copier.Strategy
}

var _ pflag.Value = (*strategyFlag)(nil)

func (f *strategyFlag) String() string { return f.value.String() }
func (*strategyFlag) Type() string     { return "strategy" }

func (f *strategyFlag) Set(val string) error {
	s, err := copier.ParseStrategy(val)
	if err != nil {
		return err
	}
	f.value = s
	return nil
}

func (a *app) copyCmd() *cobra.Command {
	var (
		strategy  = strategyFlag{value: copier.Buffered}
		encoding  = textenc.Default
		algorithm = defaultVerifyAlgorithm
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "copy [flags] <source> <destination>",
		Short: "Copy a file using one of the copy strategies",
		Long: "Copy a file using one of the copy strategies. The destination is created\n" +
			"or truncated and always ends up byte-identical to the source.\n\n" +
			"Strategies: " + strings.Join(strategyNames(), ", "),
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.cfg.Defaults
			if !cmd.Flags().Changed("strategy") && d.Strategy != nil {
				if err := strategy.Set(*d.Strategy); err != nil {
					return fmt.Errorf("config strategy: %w", err)
				}
			}
			applyDefault(cmd, "encoding", &encoding, d.Encoding)
			applyDefault(cmd, "verify", &verify, d.Verify)
			applyDefault(cmd, "algorithm", &algorithm, d.Algorithm)

			src, dst := args[0], args[1]
			slog.Debug("starting copy",
				"src", src,
				"dst", dst,
				"strategy", strategy.value.String(),
				"encoding", encoding,
			)

			start := time.Now()
			var result copier.Result
			var err error
			if strategy.value == copier.Line {
				result.Strategy = copier.Line
				result.Count, err = copier.LineCopyEncoded(src, dst, encoding)
			} else {
				result, err = copier.Copy(strategy.value, src, dst)
			}
			if err != nil {
				return err
			}

			elapsed := time.Since(start)
			unit := "bytes"
			size := int64(result.Count)
			if result.Strategy == copier.Line {
				unit = "lines"
				if info, err := os.Stat(dst); err == nil {
					size = info.Size()
				}
			}
			slog.Info("copy complete",
				"strategy", result.Strategy.String(),
				"count", result.Count,
				"unit", unit,
				"size", units.Size(size),
				"rate", units.Rate(size, elapsed),
				"elapsed", elapsed,
			)
			fmt.Fprintf(a.stdout, "%d %s copied (%s)\n", result.Count, unit, result.Strategy)

			if verify {
				return verifyCopy(src, dst, algorithm)
			}
			return nil
		},
	}

	cmd.Flags().VarP(&strategy, "strategy", "s", "copy strategy")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", encoding, "text encoding for the line strategy")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify checksums after copy")
	cmd.Flags().StringVar(&algorithm, "algorithm", algorithm, "checksum algorithm used by --verify")
	return cmd
}

// verifyCopy compares the digests of src and dst.
func verifyCopy(src, dst, algorithm string) error {
	srcHash, err := hashing.HashFile(src, algorithm)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	dstHash, err := hashing.HashFile(dst, algorithm)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if srcHash != dstHash {
		slog.Error("verify failed", "src", srcHash, "dst", dstHash, "algorithm", algorithm)
		return fmt.Errorf("verify: %s digest mismatch: %s != %s", algorithm, srcHash, dstHash)
	}
	slog.Info("verified", "algorithm", algorithm, "digest", srcHash)
	return nil
}

func strategyNames() []string {
	all := copier.Strategies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return names
}

func (a *app) strategiesCmd() *cobra.Command {
	descriptions := map[copier.Strategy]string{
		copier.ByteStream:  "one byte per read and write, stops at end of stream",
		copier.Memory:      "whole file round-tripped through an in-memory stream",
		copier.MemoryBlock: "in-memory round-trip in 512-byte blocks",
		copier.Block:       "512-byte reusable buffer",
		copier.Buffered:    "bufio decorators on both files, flushed before close",
		copier.Line:        "line by line under a text encoding; counts lines",
		copier.Kernel:      "copy_file_range/sendfile on Linux, read/write elsewhere",
	}
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available copy strategies",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, s := range copier.Strategies() {
				fmt.Fprintf(a.stdout, "%-13s %s\n", s, descriptions[s])
			}
			return nil
		},
	}
}
