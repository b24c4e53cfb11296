package search

import (
	"context"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/siamtext/docrank/internal/domain/chunk"
	"github.com/siamtext/docrank/internal/domain/search/score"
	"github.com/siamtext/docrank/internal/domain/search/term"
	"github.com/siamtext/docrank/internal/domain/text"
)

// termHits counts how a single term matched one chunk.
type termHits struct {
	exact     int
	fuzzy     int
	positions []int
}

// scoreLexical computes a TF-IDF score per chunk for the given term
// list. Tokenization and term matching fan out per chunk (Levenshtein
// is the dominant cost); document frequencies and final scores are
// aggregated afterwards. Chunks with no matched term are not emitted.
func scoreLexical(
	ctx context.Context, terms []term.Term, chunks []chunk.Chunk, t Tuning,
) ([]score.ChunkScore, error) {
	if len(terms) == 0 || len(chunks) == 0 {
		return nil, nil
	}

	hits := make([][]termHits, len(chunks))
	tokenCounts := make([]int, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if t.Concurrency > 0 {
		g.SetLimit(t.Concurrency)
	}
	for i := range chunks {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens := text.Tokenize(chunks[i].Content())
			tokenCounts[i] = len(tokens)
			hits[i] = matchTerms(terms, tokens, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Document frequency per term across the corpus subset, floored at 1
	// so idf stays computable for unmatched terms.
	idf := make([]float64, len(terms))
	total := float64(len(chunks))
	for ti := range terms {
		df := 0
		for ci := range chunks {
			if h := hits[ci][ti]; h.exact > 0 || h.fuzzy > 0 {
				df++
			}
		}
		if df < 1 {
			df = 1
		}
		idf[ti] = math.Log(total / float64(df))
	}

	out := make([]score.ChunkScore, 0, len(chunks))
	for ci := range chunks {
		tokenCount := tokenCounts[ci]
		if tokenCount < 1 {
			tokenCount = 1
		}

		var sum float64
		var anyExact bool
		var matches []score.Match

		for ti := range terms {
			h := hits[ci][ti]
			if h.exact == 0 && h.fuzzy == 0 {
				continue
			}
			tf := (float64(h.exact) + t.FuzzyPenalty*float64(h.fuzzy)) / float64(tokenCount)
			contribution := tf * idf[ti] * terms[ti].Weight()
			sum += contribution
			if h.exact > 0 {
				anyExact = true
			}
			matches = append(matches, score.Match{
				Term:      terms[ti].Text(),
				Score:     contribution,
				Positions: h.positions,
				Fuzzy:     h.exact == 0,
			})
		}

		if len(matches) == 0 {
			continue
		}
		if anyExact {
			sum *= t.ExactBoost
		}

		out = append(out, score.ChunkScore{
			DocumentID: chunks[ci].DocumentID(),
			ChunkIndex: chunks[ci].Index(),
			Content:    chunks[ci].Content(),
			Lexical:    sum,
			Matches:    matches,
		})
	}

	return out, nil
}

// matchTerms counts exact and fuzzy occurrences of every term in the
// token list. Fuzzy matching only runs for fuzzy-eligible terms with
// zero exact matches in this chunk.
func matchTerms(terms []term.Term, tokens []string, t Tuning) []termHits {
	res := make([]termHits, len(terms))
	for ti := range terms {
		tm := &terms[ti]
		if tm.IsPhrase() {
			res[ti] = matchPhrase(tm.Text(), tokens)
			continue
		}

		var h termHits
		for pos, tok := range tokens {
			if tok == tm.Text() {
				h.exact++
				h.positions = append(h.positions, pos)
			}
		}
		if h.exact == 0 && tm.FuzzyEligible() {
			for pos, tok := range tokens {
				if t.Fuzzy.Match(tm.Text(), tok) {
					h.fuzzy++
					h.positions = append(h.positions, pos)
				}
			}
		}
		res[ti] = h
	}
	return res
}

// matchPhrase counts occurrences of a multi-word phrase as a run of
// consecutive tokens. Phrases match exactly only.
func matchPhrase(phrase string, tokens []string) termHits {
	words := strings.Split(phrase, " ")
	var h termHits
	for start := 0; start+len(words) <= len(tokens); start++ {
		matched := true
		for j, w := range words {
			if tokens[start+j] != w {
				matched = false
				break
			}
		}
		if matched {
			h.exact++
			h.positions = append(h.positions, start)
		}
	}
	return h
}
