package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bamsammich/streams/internal/hashing"
)

func (a *app) hashCmd() *cobra.Command {
	algorithm := "SHA256"

	cmd := &cobra.Command{
		Use:   "hash [flags] [file...]",
		Short: "Print file digests",
		Long: "Print the digest of each file as uppercase hex, one \"DIGEST  FILE\" line\n" +
			"per file. With no files, standard input is hashed.\n\n" +
			"Algorithms: " + strings.Join(hashing.Algorithms(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDefault(cmd, "algorithm", &algorithm, a.cfg.Defaults.Algorithm)

			if len(args) == 0 {
				digest, err := hashing.Compute(a.stdin, algorithm)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s  -\n", digest)
				return nil
			}

			for _, path := range args {
				digest, err := hashing.HashFile(path, algorithm)
				if err != nil {
					return err
				}
				slog.Debug("hashed", "path", path, "algorithm", algorithm)
				fmt.Fprintf(a.stdout, "%s  %s\n", digest, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", algorithm, "hash algorithm")
	return cmd
}
