package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Letters without a canonical decomposition that still need an ASCII form.
var ligatureReplacer = strings.NewReplacer(
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss", "ẞ", "SS",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"ł", "l", "Ł", "L",
	"þ", "th", "Þ", "TH",
	"ı", "i",
)

var disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)

// Normalize lowercases name, strips diacritics, expands ligatures, drops any
// character outside [a-zA-Z0-9 whitespace -], turns hyphens into spaces and
// collapses whitespace. It never fails: if the unicode transform errors the
// input is returned unchanged.
func Normalize(name string) (out string) {
	defer func() {
		if recover() != nil {
			out = name
		}
	}()

	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		return name
	}
	stripped = ligatureReplacer.Replace(stripped)
	stripped = disallowedChars.ReplaceAllString(stripped, "")
	stripped = strings.ToLower(stripped)
	stripped = strings.ReplaceAll(stripped, "-", " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// Length returns the number of characters in the normalized form of name.
func Length(name string) int {
	return len([]rune(Normalize(name)))
}
