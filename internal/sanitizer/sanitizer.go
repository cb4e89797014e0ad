// Package sanitizer normalises text before it is chunked, embedded or persisted.
package sanitizer

import (
	"strings"
	"unicode/utf8"
)

// Placeholder replaces invalid UTF-8 sequences and surrogate code points.
const Placeholder = '�'

// Clean removes NUL bytes, replaces invalid encodings with Placeholder and
// normalises CRLF and CR line endings to LF.
//
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if isClean(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			// Go decodes UTF-8 encoded surrogates (ED A0..BF xx) as three
			// single-byte errors; collapse them into one placeholder.
			if n := surrogateLen(s[i:]); n > 0 {
				size = n
			}
			b.WriteRune(Placeholder)
		case r == 0:
		case r == '\r':
			b.WriteByte('\n')
			if i+1 < len(s) && s[i+1] == '\n' {
				size++
			}
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}

	return b.String()
}

// isClean reports whether s needs no changes.
func isClean(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsAny(s, "\x00\r")
}

// surrogateLen returns 3 if s starts with a UTF-8 encoded surrogate code point.
func surrogateLen(s string) int {
	if len(s) < 3 || s[0] != 0xED {
		return 0
	}
	if s[1] < 0xA0 || s[1] > 0xBF || s[2] < 0x80 || s[2] > 0xBF {
		return 0
	}
	return 3
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
