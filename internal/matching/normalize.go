package matching

import (
	"strings"
	"unicode"
)

// Normalize lowercases a raw ingredient token, trims it, strips punctuation
// and collapses internal whitespace. It is deterministic and has no failure
// mode: malformed input normalizes to the empty string and is filtered by the
// caller. Plural folding is not done here: it needs the alias table to know
// whether the singular exists (see AliasResolver.Resolve).
func Normalize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lower))
	lastSpace := false
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if b.Len() > 0 && !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// singularCandidates returns possible singular forms of a token, most
// specific first. The candidates are only suggestions: the caller folds a
// plural only when the singular is independently present in the alias table,
// so irreducible plurals like "peas" are never stemmed away.
func singularCandidates(token string) []string {
	var out []string
	if strings.HasSuffix(token, "es") && len(token) > 3 {
		out = append(out, token[:len(token)-2])
	}
	if strings.HasSuffix(token, "s") && len(token) > 2 {
		out = append(out, token[:len(token)-1])
	}
	return out
}
