package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Thai combining marks stripped for approximate comparison. Tone marks
// (mai ek..mai chattawa) and thanthakhat carry no lexical identity for
// fuzzy matching purposes.
const (
	maiEk       = '่'
	maiTho      = '้'
	maiTri      = '๊'
	maiChattawa = '๋'
	thanthakhat = '์'
	nikhahit    = 'ํ'
	saraAa      = 'า'
	saraAm      = 'ำ'
	saraE       = 'เ'
	saraAe      = 'แ'
)

// ContainsThai reports whether s has at least one Thai-script rune.
func ContainsThai(s string) bool {
	for _, r := range s {
		if isThaiRune(r) {
			return true
		}
	}
	return false
}

func isThaiRune(r rune) bool {
	return r >= '฀' && r <= '๿'
}

// NormalizeThai produces the canonical form used for approximate Thai
// comparison: NFC, tone marks and thanthakhat stripped, doubled sara e
// collapsed to sara ae, nikhahit+sara aa rewritten to sara am, and runs
// of repeated sara aa collapsed. The result is for matching only and is
// never shown to users.
func NormalizeThai(s string) string {
	s = norm.NFC.String(s)

	// nikhahit + sara aa is a common misspelling of sara am
	s = strings.ReplaceAll(s, string(nikhahit)+string(saraAa), string(saraAm))
	// doubled sara e is visually identical to sara ae
	s = strings.ReplaceAll(s, string(saraE)+string(saraE), string(saraAe))

	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		switch r {
		case maiEk, maiTho, maiTri, maiChattawa, thanthakhat:
			continue
		case saraAa:
			if prev == saraAa {
				continue
			}
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
