package textscore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"collapses whitespace", "Hello,   world!\n\nNew\tline.", "Hello, world! New line."},
		{"drops symbols between spaces", "Price: $5 @ store #1", "Price: 5 store 1"},
		{"drops symbols inside words", "a@b", "ab"},
		{"keeps allowed punctuation", `(yes); "no" - it's: fine?`, `(yes); "no" - it's: fine?`},
		{"typographic quotes and dashes", "“Smart” quotes — and ‘single’ – ok", `"Smart" quotes - and 'single' - ok`},
		{"composes accents", "cafe\u0301 au lait", "caf\u00e9 au lait"},
		{"keeps other scripts", "Привет, мир! 東京", "Привет, мир! 東京"},
		{"invalid utf8", "ok\xffay", "okay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"  leading and trailing  ",
		"emoji 🎉 party 🎉 time",
		"a @ b # c $ d",
		"“quoted” — dashed\n\n\tindented",
		"é́ double mark",
		"ᄀ@ᅡ jamo split by a symbol",
		strings.Repeat("Buy now!!! ", 50),
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeLower(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeLower("  Hello   WORLD\n"))
	assert.Equal(t, "", NormalizeLower(" \n "))
}
