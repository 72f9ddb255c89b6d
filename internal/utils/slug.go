package utils

import (
	"regexp"
	"strings"
)

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
)

// Slugify: нижний регистр, пробельные последовательности в "-", всё кроме [A-Za-z0-9_-] удаляется.
// Крайние "-" и "_" срезаются, поэтому заголовок без латиницы и цифр даёт пустой slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	return strings.Trim(s, "-_")
}
