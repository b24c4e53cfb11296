// Package term turns raw query text into weighted search terms.
package term

import (
	"strings"

	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/text"
)

// Term weighting. Quoted phrases dominate, very short tokens are
// down-weighted, machine-suggested terms never outrank user-typed ones.
const (
	PhraseWeight     = 2.0
	DefaultWeight    = 1.0
	ShortWeight      = 0.7
	ExpandedWeight   = 0.8
	ContextualWeight = 0.6

	// shortTokenLen: tokens with fewer runes get ShortWeight.
	shortTokenLen = 3
	// fuzzyMinLen: minimum rune count for fuzzy eligibility.
	fuzzyMinLen = 4
	// minTokenLen: shorter tokens are dropped outright.
	minTokenLen = 2
)

// Source tells where a term came from.
type Source int

const (
	// SourceOriginal terms were typed by the user.
	SourceOriginal Source = iota
	// SourceExpanded terms came from the expansion collaborator.
	SourceExpanded
	// SourceContextual terms came from expansion informed by chat history.
	SourceContextual
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceOriginal:
		return "original"
	case SourceExpanded:
		return "expanded"
	case SourceContextual:
		return "contextual"
	default:
		return "unknown"
	}
}

// Term is a single weighted search term. Immutable once created.
type Term struct {
	text          string
	weight        float64
	fuzzyEligible bool
	source        Source
}

// Text returns the folded term text. Multi-word phrases use single
// spaces between tokens.
func (t *Term) Text() string { return t.text }

// Weight returns the term's scoring weight.
func (t *Term) Weight() float64 { return t.weight }

// FuzzyEligible reports whether the term may match approximately.
func (t *Term) FuzzyEligible() bool { return t.fuzzyEligible }

// Source returns the term origin.
func (t *Term) Source() Source { return t.source }

// IsPhrase reports whether the term spans multiple tokens.
func (t *Term) IsPhrase() bool { return strings.ContainsRune(t.text, ' ') }

// Parse tokenizes a query into weighted terms. Quoted substrings become
// atomic phrase terms before the remaining text is tokenized; tokens of
// a single rune and stop words are dropped. An empty or whitespace-only
// query yields no terms.
func Parse(query string, stops text.StopWordSet) []Term {
	phrases, remainder := extractPhrases(query)

	seen := make(map[string]struct{})
	var terms []Term

	add := func(t Term) {
		if _, dup := seen[t.text]; dup {
			return
		}
		seen[t.text] = struct{}{}
		terms = append(terms, t)
	}

	for _, p := range phrases {
		tokens := text.Tokenize(p)
		if len(tokens) == 0 {
			continue
		}
		canonical := strings.Join(tokens, " ")
		add(Term{
			text:          canonical,
			weight:        PhraseWeight,
			fuzzyEligible: len(tokens) == 1 && runeLen(canonical) >= fuzzyMinLen,
			source:        SourceOriginal,
		})
	}

	for _, tok := range text.Tokenize(remainder) {
		n := runeLen(tok)
		if n < minTokenLen || stops.Contains(tok) {
			continue
		}
		weight := DefaultWeight
		if n < shortTokenLen {
			weight = ShortWeight
		}
		add(Term{
			text:          tok,
			weight:        weight,
			fuzzyEligible: n >= fuzzyMinLen,
			source:        SourceOriginal,
		})
	}

	return terms
}

// MergeExpansion appends collaborator-suggested terms that are not
// already present. Contextual expansions (history-dependent) weigh less
// than plain synonym expansions.
func MergeExpansion(terms []Term, exp domain.Expansion, stops text.StopWordSet) []Term {
	seen := make(map[string]struct{}, len(terms))
	for i := range terms {
		seen[terms[i].text] = struct{}{}
	}

	source := SourceExpanded
	weight := ExpandedWeight
	if exp.Contextual {
		source = SourceContextual
		weight = ContextualWeight
	}

	for _, raw := range exp.Terms {
		tokens := text.Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		canonical := strings.Join(tokens, " ")
		if _, dup := seen[canonical]; dup {
			continue
		}
		if len(tokens) == 1 && stops.Contains(canonical) {
			continue
		}
		seen[canonical] = struct{}{}
		terms = append(terms, Term{
			text:          canonical,
			weight:        weight,
			fuzzyEligible: len(tokens) == 1 && runeLen(canonical) >= fuzzyMinLen,
			source:        source,
		})
	}

	return terms
}

// extractPhrases pulls out "…" substrings and returns them alongside the
// query text with the quoted parts removed. An unbalanced quote is
// treated as literal text.
func extractPhrases(query string) (phrases []string, remainder string) {
	var rest strings.Builder
	for {
		open := strings.IndexRune(query, '"')
		if open < 0 {
			rest.WriteString(query)
			break
		}
		closing := strings.IndexRune(query[open+1:], '"')
		if closing < 0 {
			rest.WriteString(query)
			break
		}
		rest.WriteString(query[:open])
		rest.WriteByte(' ')
		if p := strings.TrimSpace(query[open+1 : open+1+closing]); p != "" {
			phrases = append(phrases, p)
		}
		query = query[open+closing+2:]
	}
	return phrases, rest.String()
}

func runeLen(s string) int { return len([]rune(s)) }
