// Package observability provides formatted output utilities for the CLI's --pretty mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-coach/internal/roadmap"
	"github.com/jonathan/career-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for pretty mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to limit items under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintResumeAnalysis outputs a human-readable summary of a resume analysis.
func (p *Printer) PrintResumeAnalysis(result *types.AssessmentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score:  %d/100 (%s)\n", result.Score, result.Source))
	sb.WriteString("\n")

	s := result.SectionScores
	w := types.SectionWeights
	sb.WriteString("Sections:\n")
	sb.WriteString(fmt.Sprintf("  Contact     %2d/%d\n", s.Contact, w[types.SectionContact]))
	sb.WriteString(fmt.Sprintf("  Summary     %2d/%d\n", s.Summary, w[types.SectionSummary]))
	sb.WriteString(fmt.Sprintf("  Experience  %2d/%d\n", s.Experience, w[types.SectionExperience]))
	sb.WriteString(fmt.Sprintf("  Skills      %2d/%d\n", s.Skills, w[types.SectionSkills]))
	sb.WriteString(fmt.Sprintf("  Education   %2d/%d\n", s.Education, w[types.SectionEducation]))
	sb.WriteString("\n")

	writeList(&sb, "Quick wins", result.QuickWins, maxItemsToShow)
	writeList(&sb, "Missing keywords", result.MissingKeywords, maxItemsToShow)
	writeList(&sb, "Missing from job description", result.KeywordGap.MissingFromJobDescription, maxItemsToShow)

	if result.Example.Before != "" {
		sb.WriteString("Rewrite example:\n")
		sb.WriteString(fmt.Sprintf("  - %s\n", result.Example.Before))
		sb.WriteString(fmt.Sprintf("  + %s\n", result.Example.After))
	}

	p.printBox("RESUME ANALYSIS", strings.TrimRight(sb.String(), "\n"))
}

// PrintFeedback outputs the feedback for one interview answer.
func (p *Printer) PrintFeedback(feedback *types.FeedbackResult) {
	if feedback == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:  %d/100 (%s)\n", feedback.Score, feedback.Source))
	sb.WriteString("\n")

	b := feedback.Breakdown
	sb.WriteString(fmt.Sprintf("Clarity %d  Accuracy %d  Communication %d  Structure %d\n",
		b.Clarity, b.TechnicalAccuracy, b.Communication, b.Structure))
	sb.WriteString("\n")

	writeList(&sb, "Highlights", feedback.Highlights, types.MaxFeedbackItems)
	writeList(&sb, "Improvements", feedback.Improvements, types.MaxFeedbackItems)

	if feedback.ModelAnswer != "" {
		sb.WriteString("Model answer:\n")
		sb.WriteString("  " + feedback.ModelAnswer + "\n")
	}

	p.printBox("ANSWER FEEDBACK", strings.TrimRight(sb.String(), "\n"))
}

// PrintRoadmap outputs each phase with its milestones and overall progress.
func (p *Printer) PrintRoadmap(data *types.RoadmapData) {
	if data == nil {
		return
	}

	progress := roadmap.ComputeProgress(data)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:      %s\n", data.TargetRole))
	if data.SkillLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:     %s\n", data.SkillLevel))
	}
	sb.WriteString(fmt.Sprintf("Progress:  %d%% (%d/%d)\n", progress.Percent, progress.Done, progress.Total))

	for _, phase := range data.Phases {
		sb.WriteString("\n")
		sb.WriteString(phase.Title + "\n")
		for _, m := range phase.Milestones {
			mark := "[ ]"
			if m.Done {
				mark = "[x]"
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, m.Title))
		}
	}

	p.printBox("LEARNING ROADMAP", strings.TrimRight(sb.String(), "\n"))
}
