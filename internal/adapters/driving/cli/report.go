package cli

import (
	"fmt"
	"io"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

// printReport writes a summary of a load and one line per file that was
// skipped or lost pages.
func printReport(w io.Writer, report *domain.ProcessingReport, styled bool) {
	st := newReportStyles(defaultTheme(), !styled)

	fmt.Fprintln(w, st.Title.Render("Processing report: "+report.Source))
	if report.InvalidPath {
		fmt.Fprintln(w, st.Error.Render("  not a folder"))
		return
	}
	fmt.Fprintf(w, "  %s  %s  %s\n",
		st.Success.Render(fmt.Sprintf("%d loaded", report.Loaded())),
		st.Warning.Render(fmt.Sprintf("%d skipped", report.Skipped())),
		st.Muted.Render(fmt.Sprintf("%d pages dropped", report.SkippedPages())),
	)

	for _, o := range report.Outcomes {
		switch {
		case o.Status == domain.OutcomeSkipped:
			fmt.Fprintf(w, "  %s %s\n", st.Error.Render("skip"), o.Filename+": "+o.Reason)
		case len(o.SkippedPages) > 0:
			for _, p := range o.SkippedPages {
				fmt.Fprintf(w, "  %s %s\n", st.Warning.Render("page"),
					fmt.Sprintf("%s p.%d: %s", o.Filename, p.Page, p.Reason))
			}
		}
	}
	fmt.Fprintln(w, st.Muted.Render("  run "+report.RunID))
}
