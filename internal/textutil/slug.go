package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	slugStripPattern  = regexp.MustCompile(`[^a-z0-9.\-]`)
	lowerCaser        = cases.Lower(language.Und)
)

// Slugify folds a display name into a stored filename: lower case, runs of
// whitespace become '-', and only [a-z0-9.-] survive. Accented letters are
// reduced to their base letter before stripping, so "Café Pad.wav" yields
// "cafe-pad.wav".
func Slugify(name string) string {
	folded := foldDiacritics(strings.TrimSpace(name))
	folded = lowerCaser.String(folded)
	folded = whitespacePattern.ReplaceAllString(folded, "-")
	return slugStripPattern.ReplaceAllString(folded, "")
}

func foldDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}
