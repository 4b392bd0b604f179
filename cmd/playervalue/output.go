package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"playervalue/internal/names"
	"playervalue/internal/player"
	"playervalue/internal/resolver"
	"playervalue/internal/scrape"
)

// Output formats accepted by --format.
const (
	formatCSV   = "csv"
	formatJSON  = "json"
	formatTable = "table"
)

var csvHeader = []string{
	"name",
	"birth_date",
	"updated",
	"market_value",
	"display_name",
	"contract_end",
	"needs_review",
	"birth_date_iso",
	"status",
	"resolution_error",
}

const updatedLayout = "02/01/2006"

// resultRow is one output line, in input order.
type resultRow struct {
	Record       player.Record `json:"record"`
	DisplayName  string        `json:"display_name"`
	BirthDateISO string        `json:"birth_date_iso,omitempty"`
}

func buildRows(order []string, results map[string]player.Record) []resultRow {
	rows := make([]resultRow, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, name := range order {
		rec, ok := results[name]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		rows = append(rows, newResultRow(rec))
	}
	return rows
}

func newResultRow(rec player.Record) resultRow {
	row := resultRow{Record: rec, DisplayName: displayName(rec)}
	if rec.BirthDate != "" {
		if born, err := scrape.ParseBirthDate(rec.BirthDate); err == nil {
			row.BirthDateISO = born.Format("2006-01-02")
		}
	}
	return row
}

// displayName renders the surname-first name used in the sheet: from the
// directory name when matched, otherwise from the input.
func displayName(rec player.Record) string {
	if rec.Matched() {
		return names.DisplayName(rec.MatchedName)
	}
	return names.SurnameFirst(rec.OriginalName)
}

func formatValueCSV(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatValueHuman(rec player.Record) string {
	switch {
	case rec.MarketValue == player.CareerEndedValue:
		return "career ended"
	case rec.MarketValue == 0 && !rec.Matched():
		return ""
	default:
		return strconv.FormatFloat(rec.MarketValue, 'f', -1, 64) + " M€"
	}
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(updatedLayout)
}

func writeCSV(w io.Writer, rows []resultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := row.Record
		if err := cw.Write([]string{
			rec.OriginalName,
			rec.BirthDate,
			formatUpdated(rec.ResolvedAt),
			formatValueCSV(rec.MarketValue),
			row.DisplayName,
			rec.ContractEnd,
			yesNo(rec.NeedsReview),
			row.BirthDateISO,
			string(rec.Status),
			rec.ResolutionError,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonOutput struct {
	RunID   string          `json:"run_id"`
	Players []resultRow     `json:"players"`
	Report  resolver.Report `json:"report"`
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResultTable(w io.Writer, rows []resultRow, colorize bool) error {
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := row.Record
		tableRows = append(tableRows, []string{
			rec.OriginalName,
			row.DisplayName,
			formatValueHuman(rec),
			string(rec.Status),
			rec.ContractEnd,
			rec.BirthDate,
			yesNo(rec.NeedsReview),
		})
	}
	_, err := fmt.Fprintln(w, renderTable(tableSpec{
		headers: []string{"Name", "Display", "Value", "Status", "Contract", "Born", "Review"},
		rows:    tableRows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight},
		highlight: func(i int) bool {
			return !rows[i].Record.FullyResolved()
		},
		colorize: colorize,
	}))
	return err
}

func writeSummary(w io.Writer, report resolver.Report) {
	fmt.Fprintf(w, "Processed %d · cache hits %d · cached %d · unresolved %d\n",
		report.Processed, report.CacheHits, report.Updated, len(report.Unresolved))
	for _, item := range report.Unresolved {
		fmt.Fprintf(w, "  - %s: %s\n", item.Name, item.Reason)
	}
}
