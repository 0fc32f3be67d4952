package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// maxSlugLength keeps slugs readable in URLs; a numeric suffix may still be appended
const maxSlugLength = 80

// GenerateSlug converts a book title into a URL-safe slug.
// "Nguyễn Nhật Ánh" -> "nguyen-nhat-anh", "The Left Hand of Darkness" -> "the-left-hand-of-darkness".
func GenerateSlug(input string) string {
	// Step 1: Decompose accented characters, then drop the combining marks
	s := norm.NFKD.String(input)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == 'đ':
			return 'd'
		case r == 'Đ':
			return 'D'
		case r > unicode.MaxASCII:
			return -1
		}
		return r
	}, s)

	// Step 2: Lowercase and replace everything else with hyphens
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Step 3: Trim and cap
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}

	return s
}
