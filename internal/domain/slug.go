package domain

import "strings"

// Normalize lowercases and collapses runs of whitespace so hand-typed
// names ("Past  Papers", "past papers") compare equal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Slugify converts a topic name to its URL slug: lowercase, any run of
// non-alphanumerics becomes a single dash, no leading/trailing dashes.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
