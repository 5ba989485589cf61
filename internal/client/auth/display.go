package auth

import (
	"math"
	"strings"
	"unicode"
)

// Initials returns the upper-cased first letters of the first two words of
// name, or "JS" when name is blank.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Split(name, " ") {
		if part == "" {
			continue
		}
		r := []rune(part)[0]
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "JS"
	}
	return string(out)
}

// UsagePercent is usage/quota as a whole percentage capped at 100.
func UsagePercent(sub Subscription) int {
	if sub.Quota <= 0 {
		return 0
	}
	p := int(math.Round(float64(sub.Usage) / float64(sub.Quota) * 100))
	if p > 100 {
		return 100
	}
	return p
}
