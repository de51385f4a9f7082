package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lower-cases a name and collapses runs of whitespace into a
// single space.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, "microlight alpine" -> "Microlight Alpine".
func TitleCase(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	previousIsLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			if previousIsLetter {
				out.WriteRune(unicode.ToLower(r))
			} else {
				out.WriteRune(unicode.ToUpper(r))
			}
			previousIsLetter = true
			continue
		}
		out.WriteRune(r)
		previousIsLetter = false
	}
	return out.String()
}
