package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

var marketValuePattern = regexp.MustCompile(`(\d+(?:,\d+)?)\s*((?i:mio\.|th\.|mil\.|k))`)

// ParseMarketValue converts a localized value such as "12,5 mio." or "750 K"
// into millions. Anything it cannot read yields 0.
func ParseMarketValue(text string) float64 {
	match := marketValuePattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	if strings.EqualFold(match[2], "mio.") {
		return value
	}
	return value / 1000
}
