package tasks

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// invisible lists zero-width, bidi-control and BOM code points that are
// stripped regardless of their Unicode category.
var invisible = []*unicode.RangeTable{
	{R16: []unicode.Range16{
		{Lo: 0x200b, Hi: 0x200f, Stride: 1},
		{Lo: 0x202a, Hi: 0x202e, Stride: 1},
		{Lo: 0x2060, Hi: 0x2064, Stride: 1},
		{Lo: 0x2066, Hi: 0x2069, Stride: 1},
		{Lo: 0xfeff, Hi: 0xfeff, Stride: 1},
		{Lo: 0xfff9, Hi: 0xfffb, Stride: 1},
	}},
}

var stripper = runes.Remove(runes.Predicate(isInvisible))

func isInvisible(r rune) bool {
	return unicode.Is(unicode.C, r) || unicode.In(r, invisible...)
}

// Sanitize removes control, format and other invisible characters from s and
// trims surrounding whitespace. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	cleaned, _, err := transform.String(stripper, s)
	if err != nil {
		cleaned = strings.Map(func(r rune) rune {
			if isInvisible(r) {
				return -1
			}
			return r
		}, s)
	}

	return strings.TrimSpace(cleaned)
}
