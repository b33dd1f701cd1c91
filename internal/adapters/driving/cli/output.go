package cli

import (
	"fmt"
	"io"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/services"
)

// formatResult renders one result as filename,"Name",score.
func formatResult(r domain.RankedResult) string {
	return fmt.Sprintf("%s,\"%s\",%.3f", r.Filename, domain.ProductName(r.ProductName), r.Score)
}

// printLexical writes the results scoring above threshold in rank order.
func printLexical(w io.Writer, results []domain.RankedResult, threshold float64) {
	for _, r := range domain.FilterAbove(results, threshold) {
		fmt.Fprintln(w, formatResult(r))
	}
}

// printSimilarity writes one block per new document, each followed by a
// blank line.
func printSimilarity(w io.Writer, groups []domain.SimilarityGroup) {
	for _, g := range groups {
		fmt.Fprintf(w, "Results for file: %s\n", g.Filename)
		for _, r := range g.Results {
			fmt.Fprintln(w, formatResult(r))
		}
		fmt.Fprintln(w)
	}
}

func printInvalidPath(w io.Writer) {
	fmt.Fprintln(w, services.InvalidPathMessage)
}
