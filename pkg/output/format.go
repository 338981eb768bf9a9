// Package output provides utilities for formatting and displaying projection
// results.
package output

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anahmed/career-forecast/internal/engine"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, batch *engine.BatchResult) {
	p := message.NewPrinter(language.English)

	_, _ = p.Fprintf(w, "--- Baseline: stay in %s ---\n", batch.Baseline.Country)
	_, _ = p.Fprintf(w, "12-year net worth: $%.1fK (starting $%.1fK, %.0f%% annual growth)\n\n",
		batch.Baseline.TotalNetWorthK, batch.Baseline.StartSalaryK, batch.Baseline.GrowthRate*100)

	_, _ = p.Fprintf(w, "--- Programs ranked by %s ---\n", batch.Assumptions.SortBy)
	_, _ = fmt.Fprintf(w, "Rank | University                     | Program                  | Net Worth    | vs Baseline\n")
	_, _ = fmt.Fprintf(w, "____ | __________                     | _______                  | _________    | ___________\n")
	for _, r := range batch.Programs {
		_, _ = p.Fprintf(w, "%4d | %-30s | %-24s | $%10.1fK | $%10.1fK\n",
			r.Rank, truncate(r.University, 30), truncate(r.Program, 24), r.TotalNetWorthK, r.NetBenefitK)
	}

	if len(batch.Failures) > 0 {
		_, _ = fmt.Fprintf(w, "\n--- Skipped programs ---\n")
		for _, f := range batch.Failures {
			_, _ = fmt.Fprintf(w, "%d (%s): %s\n", f.ProgramID, f.University, f.Reason)
		}
	}

	_, _ = p.Fprintf(w, "\n%d of %d programs beat the baseline\n",
		batch.Summary.BeatBaseline, batch.Summary.Projected)
}

// CsvFormat writes in comma-separated value format.
func CsvFormat(w io.Writer, batch *engine.BatchResult) {
	_, _ = fmt.Fprintf(w, `"rank","program_id","university","program","field","funding_tier","work_country","work_city","study_cost_k","initial_capital_usd","networth_12y_k","net_benefit_k"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, r := range batch.Programs {
		_, _ = fmt.Fprintf(w, `"%d","%d","%s","%s","%s","%s","%s","%s","%.2f","%d","%.2f","%.2f"`,
			r.Rank, r.ProgramID, r.University, r.Program, r.Field, r.FundingTier,
			r.WorkCountry, r.WorkCity, r.StudyCostK, r.InitialCapitalUSD, r.TotalNetWorthK, r.NetBenefitK)
		_, _ = fmt.Fprintf(w, "\n")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
