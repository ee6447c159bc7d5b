package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/streams/internal/config"
	"github.com/bamsammich/streams/internal/logging"
	"github.com/bamsammich/streams/internal/validate"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries state shared by every subcommand: standard streams, the loaded
// config and the global flags.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg config.Config

	verbose    bool
	quiet      bool
	logFile    string
	configPath string

	closers []io.Closer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "streams",
		Short: "Copy, decode, decompress and hash files with interchangeable I/O strategies",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(a.stdout, "streams %s\n", version)
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")
	pf.StringVar(&a.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/streams/config.toml)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(
		a.copyCmd(),
		a.readCmd(),
		a.decompressCmd(),
		a.hashCmd(),
		a.strategiesCmd(),
		a.configCmd(),
		docsCmd(),
	)
	return rootCmd
}

// setup loads the config file and installs the default logger.
func (a *app) setup() error {
	var jsonOut io.Writer
	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, lf)
		jsonOut = lf
	}
	slog.SetDefault(logging.New(a.stderr, logging.Options{
		Verbose: a.verbose,
		Quiet:   a.quiet,
		JSON:    jsonOut,
	}))

	path := a.configPath
	if path == "" {
		path = config.Path()
	}
	if path == "" {
		return nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		slog.Warn("failed to load config", "path", path, "error", err)
		return nil
	}
	a.cfg = cfg
	slog.Debug("config loaded", "path", path)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close()
	}
}

const (
	exitFailure = 1
	exitUsage   = 2
)

func usageError(err error) error {
	return fmt.Errorf("%w: %w", validate.ErrInvalidArgument, err)
}

// exitCode maps argument and missing-file errors to exitUsage and everything
// else to exitFailure.
func exitCode(err error) int {
	if errors.Is(err, validate.ErrInvalidArgument) || errors.Is(err, validate.ErrNotFound) {
		return exitUsage
	}
	return exitFailure
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// applyDefault copies a config value into target unless the flag was set
// on the command line.
func applyDefault[T any](cmd *cobra.Command, flag string, target *T, value *T) {
	if !cmd.Flags().Changed(flag) && value != nil {
		*target = *value
	}
}
