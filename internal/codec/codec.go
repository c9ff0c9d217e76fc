// Package codec escapes free-text fields so they can share one
// delimiter-separated line.
//
// Only two characters are special: the escape character (backslash) and
// the field delimiter. Line breaks are not escaped; callers keep fields on
// a single line.
package codec

import "strings"

const (
	Delimiter  = '|'
	EscapeChar = '\\'
)

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// Escape doubles every backslash and prefixes every delimiter with a backslash.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape copies the character after each backslash verbatim and drops the
// backslash. A trailing lone backslash is dropped.
func Unescape(s string) string {
	if strings.IndexByte(s, EscapeChar) < 0 {
		return s
	}
	b := make([]byte, 0, len(s))
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			b = append(b, c)
			escaped = false
		case c == EscapeChar:
			escaped = true
		default:
			b = append(b, c)
		}
	}
	return string(b)
}

// SplitEscaped splits line on unescaped occurrences of delim. Escape
// sequences are kept in the returned fields, so each field still has to go
// through Unescape. minParts only sizes the result.
func SplitEscaped(line string, delim byte, minParts int) []string {
	parts := make([]string, 0, max(minParts, 1))
	start := 0
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == EscapeChar:
			escaped = true
		case c == delim:
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}

// JoinEscaped escapes every field and joins them with Delimiter.
func JoinEscaped(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, string(Delimiter))
}
