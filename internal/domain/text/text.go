// Package text provides tokenization and normalization for mixed
// English/Thai content. Thai has no word spacing, so contiguous Thai
// runs are kept as single tokens; proper word segmentation is left to
// the ingestion pipeline, which stores pre-segmented chunk text.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold canonicalizes text for comparison: Unicode NFC plus lowercasing.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Tokenize splits folded text into ordered tokens. A token is a run of
// Thai script, a run of non-Thai letters, or a run of digits; everything
// else (whitespace, punctuation, Thai-aware delimiters) separates tokens.
func Tokenize(s string) []string {
	folded := Fold(s)

	var tokens []string
	var b strings.Builder
	current := classNone

	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}

	for _, r := range folded {
		c := classify(r)
		if c == classNone {
			flush()
			current = classNone
			continue
		}
		if c != current {
			flush()
			current = c
		}
		b.WriteRune(r)
	}
	flush()

	return tokens
}

type runeClass int

const (
	classNone runeClass = iota
	classThai
	classLetter
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case isThaiRune(r):
		return classThai
	case unicode.IsLetter(r):
		return classLetter
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classNone
	}
}
