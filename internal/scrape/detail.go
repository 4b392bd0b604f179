package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"playervalue/internal/player"
)

// Labels holds the localized label texts anchoring detail page fields.
type Labels struct {
	Contract        string
	Birth           string
	BirthDateSelect string
}

// DefaultLabels matches the French profile page.
func DefaultLabels() Labels {
	return Labels{
		Contract:        "Contrat jusqu",
		Birth:           "Naissance",
		BirthDateSelect: `[itemprop="birthDate"]`,
	}
}

// Detail carries the fields read from a player profile page.
type Detail struct {
	ContractEnd string
	BirthDate   string
}

var trailingAge = regexp.MustCompile(`\s*\(\s*\d+\s*\)\s*$`)

// ExtractDetail reads the contract end and birth date from a profile page.
// A missing or dashed contract yields player.ContractUnresolved; a missing
// birth date yields "".
func ExtractDetail(doc *goquery.Document, labels Labels) Detail {
	return Detail{
		ContractEnd: contractEnd(doc, labels.Contract),
		BirthDate:   birthDate(doc, labels),
	}
}

func contractEnd(doc *goquery.Document, label string) string {
	spans := doc.Find("span")
	value := ""
	for i := 0; i < spans.Length()-1; i++ {
		if label != "" && strings.Contains(spans.Eq(i).Text(), label) {
			value = collapseSpace(spans.Eq(i + 1).Text())
			break
		}
	}
	if value == "" || value == "-" {
		return player.ContractUnresolved
	}
	return value
}

func birthDate(doc *goquery.Document, labels Labels) string {
	if labels.BirthDateSelect == "" {
		return ""
	}
	var found string
	doc.Find("li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if labels.Birth != "" && !strings.Contains(item.Text(), labels.Birth) {
			return true
		}
		node := item.Find(labels.BirthDateSelect).First()
		if node.Length() == 0 {
			return true
		}
		found = trailingAge.ReplaceAllString(collapseSpace(node.Text()), "")
		return found == ""
	})
	return found
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
