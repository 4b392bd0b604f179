package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"janv.":     time.January,
	"février":   time.February,
	"fevrier":   time.February,
	"févr.":     time.February,
	"mars":      time.March,
	"avril":     time.April,
	"avr.":      time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"juil.":     time.July,
	"août":      time.August,
	"aout":      time.August,
	"septembre": time.September,
	"sept.":     time.September,
	"octobre":   time.October,
	"oct.":      time.October,
	"novembre":  time.November,
	"nov.":      time.November,
	"décembre":  time.December,
	"decembre":  time.December,
	"déc.":      time.December,
}

var frenchMonthNames = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-Jan-2006", "2-Jan-2006"}

// ParseBirthDate reads a birth date as printed on profile pages ("25 août
// 1996", optionally followed by the age in parentheses) or in one of the
// numeric layouts found in input sheets.
func ParseBirthDate(text string) (time.Time, error) {
	text = collapseSpace(trailingAge.ReplaceAllString(text, ""))
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if fields := strings.Fields(text); len(fields) == 3 {
		if month, ok := frenchMonths[strings.ToLower(fields[1])]; ok {
			day, errDay := strconv.Atoi(strings.TrimSuffix(fields[0], "er"))
			year, errYear := strconv.Atoi(fields[2])
			if errDay == nil && errYear == nil && validDay(year, month, day) {
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
			}
		}
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}

// FormatFrenchDate renders t as "25 août 1996".
func FormatFrenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonthNames[t.Month()-1], t.Year())
}

func validDay(year int, month time.Month, day int) bool {
	if day < 1 || day > 31 {
		return false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Day() == day
}
