package names

import (
	"strings"
	"unicode"
)

// DisplayName renders a canonical directory name surname-first, with the
// surname upper-cased: "Jude Bellingham" becomes "BELLINGHAM Jude". Names
// with three or more tokens treat the last two as the surname.
func DisplayName(canonical string) string {
	parts := strings.Fields(canonical)
	switch len(parts) {
	case 0:
		return ""
	case 1, 2:
		head := strings.ToUpper(parts[len(parts)-1])
		return strings.TrimSpace(head + " " + strings.Join(parts[:len(parts)-1], " "))
	default:
		head := strings.ToUpper(parts[len(parts)-2]) + " " + strings.ToUpper(parts[len(parts)-1])
		return head + " " + strings.Join(parts[:len(parts)-2], " ")
	}
}

// SurnameFirst moves the first all-caps token of an input name to the front
// ("Kylian MBAPPE" becomes "MBAPPE Kylian"). Names without such a token are
// returned as given.
func SurnameFirst(input string) string {
	parts := strings.Fields(input)
	for i, part := range parts {
		if !isUpperWord(part) {
			continue
		}
		rest := make([]string, 0, len(parts)-1)
		rest = append(rest, parts[:i]...)
		rest = append(rest, parts[i+1:]...)
		return strings.TrimSpace(part + " " + strings.Join(rest, " "))
	}
	return input
}

func isUpperWord(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
