package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/streams/internal/textenc"
)

func (a *app) readCmd() *cobra.Command {
	encoding := textenc.Default

	cmd := &cobra.Command{
		Use:   "read [flags] <file>",
		Short: "Print a text file decoded under the given encoding",
		Long: "Decode a text file under the given encoding and print it as UTF-8.\n" +
			"Encoding names follow the IANA registry and the WHATWG labels\n" +
			"(utf-8, iso-8859-1, windows-1251, shift_jis, ...).",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDefault(cmd, "encoding", &encoding, a.cfg.Defaults.Encoding)

			text, err := textenc.ReadAll(args[0], encoding)
			if err != nil {
				return err
			}
			slog.Debug("decoded file", "path", args[0], "encoding", encoding, "chars", len([]rune(text)))
			_, err = fmt.Fprint(a.stdout, text)
			return err
		},
	}

	cmd.Flags().StringVarP(&encoding, "encoding", "e", encoding, "text encoding of the file")
	return cmd
}
