package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases input, folds accents to their base letters and joins the
// remaining alphanumeric runs with dashes.
func Make(input string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.TrimSpace(input)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	s := nonAlphaNum.ReplaceAllString(b.String(), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "workout"
	}
	return s
}
