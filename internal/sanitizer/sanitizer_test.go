package sanitizer

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text unchanged", "Cholesterol 5.2 mmol/L", "Cholesterol 5.2 mmol/L"},
		{"null bytes removed", "HbA1c\x00 6.1%\x00", "HbA1c 6.1%"},
		{"crlf normalised", "line one\r\nline two", "line one\nline two"},
		{"bare cr normalised", "line one\rline two", "line one\nline two"},
		{"mixed endings", "a\r\n\rb\n", "a\n\nb\n"},
		{"invalid byte replaced", "dose\xff5mg", "dose�5mg"},
		{"encoded high surrogate replaced once", "x\xed\xa0\x80y", "x�y"},
		{"encoded low surrogate replaced once", "x\xed\xbf\xbfy", "x�y"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"normal text",
		"\x00\x00",
		"a\r\nb\rc\n",
		"\xed\xa0\x80\xed\xb0\x80",
		"\xff\xfe\xfd",
		"trailing cr\r",
		"\r\r\n\n\x00\xc3",
		"already � replaced",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héé", Truncate("hééllo", 3))
}
