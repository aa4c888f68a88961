package models

import "strings"

// Slugify lowercases s, turns spaces and underscores into hyphens and drops
// everything that is not an ASCII letter, digit or hyphen.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}
