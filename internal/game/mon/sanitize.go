package mon

import "strings"

// SanitizeName canonicalizes a name for lookups: lowercase, alphanumerics
// only. "Light Screen", "LIGHTSCREEN", and "lightscreen" all collapse to the
// same key, so data files and route files can disagree on spelling.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
