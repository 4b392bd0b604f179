package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"playervalue/internal/player"
)

// ErrTableNotFound reports a search page without a result table, usually
// because nothing matched or the consent overlay is still covering it.
var ErrTableNotFound = errors.New("result table not found")

// Selectors locate the pieces of a quick-search result page.
type Selectors struct {
	ResultTable       string
	NameLink          string
	ValueCell         string
	CareerEndedMarker string
}

// DefaultSelectors matches the French quick-search page.
func DefaultSelectors() Selectors {
	return Selectors{
		ResultTable:       "table.items",
		NameLink:          "td.hauptlink a[title]",
		ValueCell:         "td.rechts.hauptlink",
		CareerEndedMarker: "Fin de carrière",
	}
}

// ExtractedRow is one candidate read from a result row.
type ExtractedRow struct {
	Name   string
	Href   string
	Value  float64
	Status player.Status
}

// CareerEnded reports whether the row carries the retired marker.
func (r ExtractedRow) CareerEnded() bool {
	return r.Status == player.StatusCareerEnded
}

// ParseDocument parses rendered HTML.
func ParseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FindResultTable returns the first result table in doc.
func FindResultTable(doc *goquery.Document, sel Selectors) (*goquery.Selection, error) {
	table := doc.Find(sel.ResultTable).First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// ResultRows lists the table's own rows after the header row. Rows of inline
// tables nested in cells are not included.
func ResultRows(table *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Closest("table").IsSelection(table) {
			rows = append(rows, row)
		}
	})
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

// ExtractRow reads one result row. The boolean is false when the row has no
// titled name link and should be skipped.
func ExtractRow(row *goquery.Selection, sel Selectors) (ExtractedRow, bool) {
	link := row.Find(sel.NameLink).First()
	name, ok := link.Attr("title")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return ExtractedRow{}, false
	}
	href, _ := link.Attr("href")
	out := ExtractedRow{Name: name, Href: strings.TrimSpace(href)}

	status := row.Find("td").First()
	if sel.CareerEndedMarker != "" && strings.Contains(status.Text(), sel.CareerEndedMarker) {
		out.Status = player.StatusCareerEnded
		out.Value = player.CareerEndedValue
		return out, true
	}

	out.Status = player.StatusActive
	if text := strings.TrimSpace(row.Find(sel.ValueCell).First().Text()); text != "" {
		out.Value = ParseMarketValue(text)
	}
	return out, true
}

// ExtractRows parses html and extracts every usable result row in document
// order. It returns ErrTableNotFound when the page has no result table.
func ExtractRows(html string, sel Selectors) ([]ExtractedRow, error) {
	doc, err := ParseDocument(html)
	if err != nil {
		return nil, err
	}
	table, err := FindResultTable(doc, sel)
	if err != nil {
		return nil, err
	}
	var out []ExtractedRow
	for _, row := range ResultRows(table) {
		if extracted, ok := ExtractRow(row, sel); ok {
			out = append(out, extracted)
		}
	}
	return out, nil
}
