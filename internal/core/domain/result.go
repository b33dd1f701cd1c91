package domain

import "math"

// RankedResult is one scored hit from either retrieval engine.
type RankedResult struct {
	// Filename identifies the matched corpus leaflet.
	Filename string

	// ProductName is the cleaned name of the matched leaflet.
	ProductName string

	// Score is a cosine similarity rounded to 3 decimal places.
	Score float64
}

// SimilarityGroup holds the ranked corpus matches for one new document.
type SimilarityGroup struct {
	// Filename is the new document the group belongs to.
	Filename string

	// Results are the matches in index-return order.
	Results []RankedResult
}

// RoundScore rounds a score to 3 decimal places, half away from zero.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// FilterAbove returns the results whose score is strictly greater than
// threshold, preserving order.
func FilterAbove(results []RankedResult, threshold float64) []RankedResult {
	filtered := make([]RankedResult, 0, len(results))
	for _, r := range results {
		if r.Score > threshold {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
