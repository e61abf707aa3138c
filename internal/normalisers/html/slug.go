package html

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSlugLength is the maximum slug length in runes.
const MaxSlugLength = 50

// untitledSlug is used when a title yields no usable characters.
const untitledSlug = "untitled"

var (
	slugInvalid    = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}-]`)
	slugSeparators = regexp.MustCompile(`[-\s\p{Z}]+`)
	lower          = cases.Lower(language.Und)
)

// Slug derives a filename-safe identifier from a title.
// It is lowercase, hyphen separated and at most MaxSlugLength runes.
// Separators are trimmed before the cap, so a cut that lands on a
// separator keeps the trailing hyphen.
func Slug(title string) string {
	s := lower.String(strings.TrimSpace(title))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if runes := []rune(s); len(runes) > MaxSlugLength {
		s = string(runes[:MaxSlugLength])
	}
	if s == "" {
		return untitledSlug
	}
	return s
}
