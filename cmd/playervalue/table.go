package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec describes a rendered table. Rows flagged by highlight are painted
// yellow when colorize is set.
type tableSpec struct {
	headers   []string
	rows      [][]string
	aligns    []columnAlignment
	highlight func(row int) bool
	colorize  bool
}

func renderTable(spec tableSpec) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = spec.headers[i]
	}
	tw.AppendHeader(header)

	flagged := make(map[string]struct{})
	for idx, row := range spec.rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
		if spec.colorize && spec.highlight != nil && spec.highlight(idx) && len(row) > 0 {
			flagged[row[0]] = struct{}{}
		}
	}

	if len(flagged) > 0 {
		tw.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
			if key, ok := row[0].(string); ok {
				if _, hit := flagged[key]; hit {
					return text.Colors{text.FgYellow}
				}
			}
			return nil
		}))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
