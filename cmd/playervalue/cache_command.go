package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"playervalue/internal/cache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the result cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd.Context(), func(store *cache.Cache) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, cacheEntriesJSON(entries))
				}
				printCacheEntries(out, entries, isTerminal(out))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func printCacheEntries(out io.Writer, entries []cache.Entry, colorize bool) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Cached players: none")
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rec := entry.Record
		fresh := "stale"
		if entry.Fresh {
			fresh = "fresh"
		}
		rows = append(rows, []string{
			rec.OriginalName,
			rec.MatchedName,
			formatValueHuman(rec),
			string(rec.Status),
			rec.ContractEnd,
			entry.StoredAt.Local().Format(stampLayout),
			fresh,
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Name", "Matched", "Value", "Status", "Contract", "Stored", "State"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight},
		highlight: func(i int) bool {
			return !entries[i].Fresh
		},
		colorize: colorize,
	}))
	fmt.Fprintf(out, "%d cached player(s)\n", len(entries))
}

type cacheEntryJSON struct {
	resultRow
	StoredAt string `json:"stored_at"`
	Fresh    bool   `json:"fresh"`
}

func cacheEntriesJSON(entries []cache.Entry) []cacheEntryJSON {
	out := make([]cacheEntryJSON, 0, len(entries))
	for _, entry := range entries {
		out = append(out, cacheEntryJSON{
			resultRow: newResultRow(entry.Record),
			StoredAt:  entry.StoredAt.UTC().Format("2006-01-02T15:04:05Z"),
			Fresh:     entry.Fresh,
		})
	}
	return out
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the cached record for one player",
		Args:  requireArgs(1, "playervalue cache show <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return ctx.withCache(cmd.Context(), func(store *cache.Cache) error {
				entry, ok, err := store.Lookup(cmd.Context(), name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no cached record for %q", name)
				}
				return writeJSON(cmd.OutOrStdout(), cacheEntriesJSON([]cache.Entry{entry})[0])
			})
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove one player from the cache",
		Args:    requireArgs(1, "playervalue cache remove <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return ctx.withCache(cmd.Context(), func(store *cache.Cache) error {
				removed, err := store.Delete(cmd.Context(), name)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not cached\n", name)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the cache\n", name)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var staleOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd.Context(), func(store *cache.Cache) error {
				removed, err := store.Clear(cmd.Context(), staleOnly)
				if err != nil {
					return err
				}
				label := "entries"
				if staleOnly {
					label = "stale entries"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s\n", removed, label)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&staleOnly, "stale", false, "Only remove entries older than the cache TTL")
	return cmd
}
