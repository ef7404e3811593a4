// Package textscore scores campaign copy: it normalizes raw text, derives a
// lexical profile (words, sentences, syllables, keywords, sentiment words)
// and aggregates it into readability indices and a composite statistics
// report.
//
// Every function in this package is a pure function of its input plus the
// fixed lexicon tables, so all of them are safe for concurrent use by
// multiple goroutines. Work is linear in the length of the input.
package textscore

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// typographic maps curly quotes, primes and dashes to ASCII so they survive
// the character filter.
var typographic = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
	"‒", "-", "–", "-", "—", "-", "―", "-", "−", "-",
)

// isWordRune matches the word characters of the tokenizer: letters, numbers
// and underscore in any script.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isKeptPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '(', ')', '\'', '"', '-':
		return true
	}
	return false
}

// Normalize cleans raw text for analysis. Whitespace runs become a single
// space, the ends are trimmed, typographic quotes and dashes become ASCII
// and every character other than word characters, whitespace and
// . , ! ? ; : ( ) ' " - is removed.
//
// Normalize never fails and Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToValidUTF8(raw, "")
	s = typographic.Replace(s)
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case isWordRune(r) || isKeptPunct(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	// Dropping combining marks can leave composable sequences behind.
	return norm.NFC.String(b.String())
}

// NormalizeLower lowercases text and collapses its whitespace without
// removing any characters.
func NormalizeLower(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
