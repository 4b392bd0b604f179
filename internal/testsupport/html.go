package testsupport

import (
	"fmt"
	"html"
	"strings"
)

// Row describes one search result row rendered by SearchPage.
type Row struct {
	Name        string
	Href        string
	Value       string
	CareerEnded bool
}

// SearchPage renders a quick-search result page with a table.items result
// table shaped like the live directory: a header row, then one row per
// player with the name inside a nested inline table.
func SearchPage(rows ...Row) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="fr"><body><table class="items"><thead><tr>`)
	b.WriteString(`<th>Joueur</th><th>Club</th><th>Valeur marchande</th></tr></thead><tbody>`)
	for _, row := range rows {
		club := "Club"
		if row.CareerEnded {
			club = "Fin de carrière"
		}
		fmt.Fprintf(&b, `<tr><td><table class="inline-table"><tr><td class="hauptlink"><a title="%s" href="%s">%s</a></td></tr><tr><td>%s</td></tr></table></td>`,
			html.EscapeString(row.Name), html.EscapeString(row.Href), html.EscapeString(row.Name), club)
		fmt.Fprintf(&b, `<td class="zentriert">%s</td><td class="rechts hauptlink">%s</td></tr>`,
			club, html.EscapeString(row.Value))
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

// NoResultsPage renders a search page without a result table.
func NoResultsPage() string {
	return `<!DOCTYPE html><html lang="fr"><body><p>Aucun résultat</p></body></html>`
}

// ConsentPage renders the page shown while the consent overlay hides results.
func ConsentPage() string {
	return `<!DOCTYPE html><html lang="fr"><body><iframe id="sp_message_iframe_953822"></iframe></body></html>`
}

// DetailPage renders a profile page. An empty contract renders "-" and an
// empty birth omits the birth line.
func DetailPage(name, contract, birth string) string {
	if contract == "" {
		contract = "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html><html lang="fr"><head><title>%s</title></head><body><ul>`, html.EscapeString(name))
	if birth != "" {
		fmt.Fprintf(&b, `<li>Naissance/Âge: <span itemprop="birthDate">%s</span></li>`, html.EscapeString(birth))
	}
	b.WriteString(`</ul><div class="info-table">`)
	b.WriteString(`<span>Club actuel:</span><span>Club</span>`)
	fmt.Fprintf(&b, `<span>Contrat jusqu'à:</span><span>%s</span>`, html.EscapeString(contract))
	b.WriteString(`</div></body></html>`)
	return b.String()
}
