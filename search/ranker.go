package search

import (
	"math"
	"sort"

	"github.com/arsipa/arsipa/core"
)

const (
	// scoreThreshold is the minimum (exclusive) cosine similarity a
	// candidate must reach to appear in results.
	scoreThreshold = 0.15

	// maxResults caps the number of returned results.
	maxResults = 10
)

// CosineSimilarity computes the cosine similarity of two vectors over their
// common prefix: the first min(len(a), len(b)) dimensions, with the norms
// taken over that same prefix. Truncating instead of failing keeps vectors
// produced by different provider versions comparable.
//
// When either prefix has zero magnitude the result is NaN, which fails
// every threshold comparison and so drops the candidate from results.
func CosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Rank scores the candidates against the query vector and returns the
// filtered, ordered result set: candidates scoring strictly above the
// threshold, sorted by score descending with ties keeping candidate order,
// truncated to the top ten.
//
// This is deliberately a full, unindexed scan. The corpus of accepted,
// embedded documents is assumed small; correctness wins over scale.
func Rank(query []float32, candidates []*core.Document) []*core.SearchResult {
	results := make([]*core.SearchResult, 0, len(candidates))
	for _, doc := range candidates {
		score := CosineSimilarity(query, doc.Vector)
		if score > scoreThreshold {
			results = append(results, &core.SearchResult{
				Document: doc,
				Score:    score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}
