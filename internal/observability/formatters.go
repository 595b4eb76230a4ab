// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-builder-cli/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCV outputs a human-readable summary of one CV document.
func (p *Printer) PrintCV(doc *types.CVDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", doc.Name))
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", doc.Contact.FullName))
	if doc.IsPrimary {
		sb.WriteString("Primary:   yes\n")
	}
	sb.WriteString(fmt.Sprintf("Sections:  %d experience, %d education, %d projects\n",
		len(doc.Experience), len(doc.Education), len(doc.Projects)))
	if doc.LatestScore != nil {
		sb.WriteString(fmt.Sprintf("Score:     %d/100\n", doc.LatestScore.OverallScore))
	}

	if len(doc.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s — %s (%d bullets)\n", item.Role, item.Company, len(item.Bullets)))
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
	}

	p.printBox("CV: "+doc.Name, sb.String())
}

// PrintScore outputs the full score breakdown and recommendations.
func (p *Printer) PrintScore(score *types.CVScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d/100\n\n", score.OverallScore))
	for _, cat := range score.Breakdown.Categories() {
		sb.WriteString(fmt.Sprintf("  %-22s %5.1f\n", cat.Name, cat.Score))
	}

	if len(score.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		count := min(len(score.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, score.Recommendations[i]))
		}
		if len(score.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(score.Recommendations)-maxItemsToShow))
		}
	}

	p.printBox("ATS Score", sb.String())
}

// PrintSuggestions outputs pending enhancement suggestions for one item.
func (p *Printer) PrintSuggestions(itemID string, suggestions []types.EnhancementSuggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("%d. - %s\n", i+1, s.Original))
		sb.WriteString(fmt.Sprintf("   + %s\n", s.Enhanced))
		if s.Explanation != "" {
			sb.WriteString(fmt.Sprintf("   (%s)\n", s.Explanation))
		}
	}

	p.printBox("Suggestions for "+itemID, sb.String())
}

// PrintTemplates outputs the template catalog.
func (p *Printer) PrintTemplates(templates []types.CVTemplate) {
	var sb strings.Builder
	for _, t := range templates {
		marker := " "
		if t.ATSFriendly {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %s, %dpt\n", marker, t.ID, t.Styling.FontFamily, t.Styling.FontSize))
	}
	sb.WriteString("\n* = ATS friendly\n")

	p.printBox("Templates", sb.String())
}
