package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"playervalue/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that Chrome, the cache and the directory site are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{SkipSite: offline})
			out := cmd.OutOrStdout()
			printCheckResults(out, results, isTerminal(out))
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the network probe of the directory site")
	return cmd
}

func printCheckResults(out io.Writer, results []preflight.Result, colorize bool) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		state := "ok"
		switch {
		case !r.Passed && r.Optional:
			state = "warn"
		case !r.Passed:
			state = "FAIL"
		}
		rows = append(rows, []string{r.Name, state, r.Detail})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Check", "State", "Detail"},
		rows:    rows,
		highlight: func(i int) bool {
			return !results[i].Passed
		},
		colorize: colorize,
	}))
}
