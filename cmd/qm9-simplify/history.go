// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/qm9-simplify/internal/ledger"
	"github.com/pdiddy/qm9-simplify/pkg/types"
)

func newHistoryCmd(cfg *types.Config) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions recorded in the ledger",
		Long: `History reads the SQLite ledger written by runs with --ledger and
prints the most recent conversions, newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Ledger.Path == "" {
				return errors.New("no ledger configured: pass --ledger or set ledger.path")
			}

			l, err := ledger.Open(cfg.Ledger)
			if err != nil {
				return err
			}
			defer l.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := l.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return formatHistory(cmd.OutOrStdout(), entries, jsonOutput)
		},
	}

	historyCmd.Flags().Int("limit", 20, "maximum number of entries to show")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	return historyCmd
}

func formatHistory(w io.Writer, entries []ledger.Entry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []ledger.Entry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-5s  %-40s  %s\n", "When", "Status", "Atoms", "Input", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, e := range entries {
		input := e.Input
		if len(input) > 40 {
			input = "..." + input[len(input)-37:]
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-5d  %-40s  %s\n",
			e.ConvertedAt.Local().Format("2006-01-02 15:04:05"), e.Status, e.AtomCount, input, e.Output)
		if e.Err != "" {
			fmt.Fprintf(w, "%-20s  error: %s\n", "", e.Err)
		}
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}
