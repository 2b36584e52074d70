// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qm9-simplify CLI, which rewrites
// QM9 extended XYZ files in the basic XYZ layout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qm9-simplify/internal/convert"
	"github.com/pdiddy/qm9-simplify/internal/ledger"
	"github.com/pdiddy/qm9-simplify/internal/report"
	"github.com/pdiddy/qm9-simplify/internal/xyz"
	"github.com/pdiddy/qm9-simplify/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own viper instance so tests can execute it repeatedly.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfg types.Config

	rootCmd := &cobra.Command{
		Use:   "qm9-simplify [INPUT [OUTPUT]]",
		Short: "Simplify QM9 .xyz files from extended format to basic format",
		Long: `qm9-simplify rewrites extended XYZ files (atom count, property line,
atom lines with extra columns) as basic XYZ files holding only the atom count
and the atom lines. The property line is dropped; atom lines are trimmed and
otherwise passed through untouched.

Single-file mode converts INPUT to OUTPUT, or to <input>-simplified.xyz when
OUTPUT is omitted. Directory mode converts every .xyz file in --input_dir
(-id) into the same file name under --output_dir (-od).`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(cmd, cfg, args)
		},
	}

	rootCmd.Flags().String("input_dir", "", "directory containing .xyz files to simplify (alias -id)")
	rootCmd.Flags().String("output_dir", "", "directory where simplified .xyz files are written (alias -od)")
	rootCmd.SetGlobalNormalizationFunc(dirFlagNames)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qm9-simplify.yaml or ~/.config/qm9-simplify/qm9-simplify.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().String("suffix", types.DefaultSuffix, "suffix for the default single-file output name")
	rootCmd.PersistentFlags().String("ledger", "", "SQLite file recording every conversion (empty disables)")
	rootCmd.PersistentFlags().Bool("skip-unchanged", false, "skip inputs unchanged since their last recorded conversion (needs --ledger)")
	rootCmd.PersistentFlags().String("report", "", "write a run report to this path (.yaml/.yml for YAML, otherwise JSON)")

	rootCmd.AddCommand(newHistoryCmd(&cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func runSimplify(cmd *cobra.Command, cfg types.Config, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input_dir")
	outputDir, _ := cmd.Flags().GetString("output_dir")

	opts := convert.Options{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Suffix:    cfg.Suffix,
		Extension: cfg.Extension,
	}
	if len(args) > 0 {
		opts.InputFile = args[0]
	}
	if len(args) > 1 {
		opts.OutputFile = args[1]
	}

	if err := opts.Validate(); err != nil {
		_ = cmd.Help()
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	hooks := convert.Hooks{Logger: logger}

	if cfg.Ledger.Path != "" {
		l, err := ledger.Open(cfg.Ledger)
		if err != nil {
			return err
		}
		defer l.Close()
		hooks.Recorder = l
		if cfg.Ledger.SkipUnchanged {
			hooks.Skipper = l
		}
	} else if cfg.Ledger.SkipUnchanged {
		logger.Warn("--skip-unchanged has no effect without --ledger")
	}

	result, err := convert.Run(context.Background(), xyz.Simplifier{}, opts, cmd.OutOrStdout(), hooks)
	if err != nil && !errors.Is(err, convert.ErrFilesFailed) {
		return err
	}

	if cfg.Report.Path != "" {
		if werr := report.Write(cfg.Report.Path, result); werr != nil {
			return fmt.Errorf("writing report: %w", werr)
		}
		logger.Debug("wrote report", "path", cfg.Report.Path)
	}
	return err
}

// execute runs the CLI with args and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(normalizeArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
