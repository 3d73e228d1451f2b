// Package observability provides formatted console output for the final
// candidate report.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxCandidatesToShow is the number of top candidates displayed
	maxCandidatesToShow = 5
)

// Printer handles formatted output for the end-of-run report
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTopCandidates outputs the top ranked candidates with their role,
// confidence and, when evaluated, JD match score and recommendation.
func (p *Printer) PrintTopCandidates(records []*types.CandidateRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(records), maxCandidatesToShow)
	for i := 0; i < count; i++ {
		rec := records[i]
		ai := rec.AIAnalysis

		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.PersonalInfo.FullName))
		sb.WriteString(fmt.Sprintf("    Role: %s (confidence: %.2f)\n", ai.MatchedRole, ai.Confidence))
		if ai.Seniority != "" {
			sb.WriteString(fmt.Sprintf("    Seniority: %s\n", ai.Seniority))
		}
		if ai.JDMatchScore != nil {
			sb.WriteString(fmt.Sprintf("    JD Match: %.1f/100\n", *ai.JDMatchScore))
		}
		if ai.Recommendation != nil {
			sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", *ai.Recommendation))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(records) > maxCandidatesToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(records)-maxCandidatesToShow))
	}

	p.printBox("TOP CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the attempted/extracted/dropped/exported counts.
// It is printed on every run, including partial failures.
func (p *Printer) PrintSummary(attempted, extracted, dropped, exported int) {
	content := fmt.Sprintf(
		"Attempted:  %d\nExtracted:  %d\nDropped:    %d\nExported:   %d",
		attempted, extracted, dropped, exported)
	p.printBox("RUN SUMMARY", content)
}
