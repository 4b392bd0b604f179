package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"playervalue/internal/browser"
	"playervalue/internal/cache"
	"playervalue/internal/logging"
	"playervalue/internal/metrics"
	"playervalue/internal/player"
	"playervalue/internal/resolver"
)

type resolveOptions struct {
	input       string
	format      string
	output      string
	noCache     bool
	concurrency int
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve [name...]",
		Short: "Resolve player names to market values",
		Long: "Resolve player names given as arguments or read from --input (one name per line, " +
			"or a CSV with a name column; - reads stdin). Results are written as CSV, JSON or a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "File of names (.txt or .csv, - for stdin)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: csv, json or table (default: table on a terminal, csv otherwise)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write results to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Ignore and do not update the result cache")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Override resolver.concurrency (browser sessions)")
	return cmd
}

func runResolve(cmd *cobra.Command, cc *commandContext, opts resolveOptions, args []string) (err error) {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	if opts.concurrency > 0 {
		cfg.Resolver.Concurrency = opts.concurrency
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	inputs := append([]string(nil), args...)
	if opts.input != "" {
		fromFile, err := readNames(opts.input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		inputs = append(inputs, fromFile...)
	}
	if len(inputs) == 0 {
		return errors.New("no player names given; pass names as arguments or use --input")
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", cerr)
			}
		}()
		out = file
	}
	format, err := outputFormat(opts.format, out)
	if err != nil {
		return err
	}

	logger, err := cc.logger()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "*.log",
		Exclude: []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
	})

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another playervalue run is using %s", cfg.Paths.CacheDir)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			logging.WarnWithContext(logger, "failed to release run lock", "run_lock_release_failed",
				logging.String("lock_path", cfg.LockPath()),
				logging.Error(uerr),
				logging.String(logging.FieldErrorHint, "delete the lock file if no run is active"),
			)
		}
	}()

	recorder := metrics.NewRecorder()
	defer func() {
		if werr := recorder.WriteTextfile(cfg.Metrics.TextfilePath); werr != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.Error(werr),
				logging.String(logging.FieldImpact, "metrics for this run are lost"),
			)
		}
	}()

	var store resolver.Store
	if cfg.Cache.Enabled && !opts.noCache {
		c, err := cache.Open(runCtx, cache.Options{
			Path:     cfg.Cache.Path,
			TTL:      cfg.CacheTTL(),
			MaxConns: cfg.Resolver.Concurrency,
		})
		if err != nil {
			return err
		}
		defer c.Close()
		store = c
	}

	pool, err := browser.OpenPool(runCtx, cfg.Resolver.Concurrency, cc.factory(cfg), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	res, err := resolver.New(pool, resolver.ConfigFrom(cfg),
		resolver.WithLogger(logger),
		resolver.WithMetrics(recorder),
	)
	if err != nil {
		return err
	}

	var serviceOpts []resolver.ServiceOption
	if isTerminal(cmd.ErrOrStderr()) {
		serviceOpts = append(serviceOpts, resolver.WithProgress(progressPrinter(cmd.ErrOrStderr())))
	}
	svc := resolver.NewService(res, store, serviceOpts...)

	results, report := svc.ResolveAll(runCtx, inputs)
	rows := buildRows(inputs, results)

	switch format {
	case formatJSON:
		err = writeJSON(out, jsonOutput{RunID: runID, Players: rows, Report: report})
	case formatTable:
		err = writeResultTable(out, rows, isTerminal(out))
	default:
		err = writeCSV(out, rows)
	}
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	writeSummary(cmd.ErrOrStderr(), report)

	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return ctxErr
	}
	return nil
}

func outputFormat(requested string, out io.Writer) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(requested)); format {
	case "":
		if isTerminal(out) {
			return formatTable, nil
		}
		return formatCSV, nil
	case formatCSV, formatJSON, formatTable:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv, json or table)", requested)
	}
}

func progressPrinter(w io.Writer) resolver.ProgressFunc {
	return func(done, total int, rec player.Record) {
		outcome := string(rec.Status)
		if rec.Matched() {
			outcome = rec.MatchedName + " · " + formatValueHuman(rec)
		}
		fmt.Fprintf(w, "[%d/%d] %s → %s\n", done, total, rec.OriginalName, outcome)
	}
}
