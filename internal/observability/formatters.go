// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillbridge/internal/types"
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// shorten cuts s to at most n runes, marking the cut with "...".
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// scoreBar renders a 0-100 score as a 20-cell bar.
func scoreBar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// writeList writes up to maxItemsToShow items as bullets.
func writeList(sb *strings.Builder, heading string, items []string) {
	sb.WriteString(heading + ":\n")
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintSkillGap outputs the scores, strengths and missing skills of an analysis.
func (p *Printer) PrintSkillGap(gap *types.SkillGap) {
	if gap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:    %3d %s\n", gap.OverallScore(), scoreBar(gap.OverallScore())))
	sb.WriteString(fmt.Sprintf("Skills:     %3d %s\n", gap.SkillsScore(), scoreBar(gap.SkillsScore())))
	sb.WriteString(fmt.Sprintf("Experience: %3d %s\n", gap.ExperienceScore(), scoreBar(gap.ExperienceScore())))
	sb.WriteString(fmt.Sprintf("Education:  %3d %s\n", gap.EducationScore(), scoreBar(gap.EducationScore())))
	sb.WriteString("\n")

	writeList(&sb, "Strengths", gap.Strengths())
	sb.WriteString("\n")
	writeList(&sb, "Missing skills", gap.MissingSkills())
	sb.WriteString("\n")
	sb.WriteString(gap.GapSummary())

	p.printBox("SKILL GAP ANALYSIS", sb.String())
}

// PrintRecommendations outputs the videos recommended for the selected skill.
func (p *Printer) PrintRecommendations(rec *types.RecommendationSet) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skill: %s\n", rec.SelectedSkill))
	sb.WriteString(fmt.Sprintf("Query: %s\n\n", rec.Query))

	if rec.Empty() {
		sb.WriteString("No videos found.")
		p.printBox("LEARNING RESOURCES", sb.String())
		return
	}

	for i, v := range rec.Videos {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, v.Title))
		meta := v.Channel
		if v.Duration != "" {
			if meta != "" {
				meta += " · "
			}
			meta += v.Duration
		}
		if meta != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", meta))
		}
		sb.WriteString(fmt.Sprintf("    %s", v.URL))
		if i < len(rec.Videos)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("LEARNING RESOURCES", sb.String())
}

// PrintReport outputs a short summary of an assembled report.
func (p *Printer) PrintReport(r types.Report, path string) {
	if r.SkillGap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))
	sb.WriteString(fmt.Sprintf("Overall score: %d/100\n", r.SkillGap.OverallScore()))
	sb.WriteString(fmt.Sprintf("Missing skills: %d\n", len(r.SkillGap.MissingSkills())))
	if r.Recommendation != nil {
		sb.WriteString(fmt.Sprintf("Videos for %s: %d\n", r.Recommendation.SelectedSkill, len(r.Recommendation.Videos)))
	} else {
		sb.WriteString("Videos: none requested\n")
	}
	if path != "" {
		sb.WriteString(fmt.Sprintf("Saved to: %s", path))
	}

	p.printBox("REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs content warnings, if any.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString("⚠ " + w + "\n")
	}
	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}
