// Package observability provides formatted output for the CLI.
package observability

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output of generation results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// wrap splits s into lines of at most width runes, breaking on spaces
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-fills s with spaces to width runes; fmt pads by bytes
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintSummary outputs a generated career summary
func (p *Printer) PrintSummary(summary string) {
	p.printBox("CAREER SUMMARY", strings.Join(wrap(summary, boxWidth-4), "\n"))
}

// PrintBulletPoints outputs the responsibilities of one experience entry
func (p *Printer) PrintBulletPoints(exp resume.Experience) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s\n\n", exp.JobTitle, exp.Company))
	for _, r := range exp.Responsibilities {
		sb.WriteString(fmt.Sprintf("• %s\n", r.Text))
	}
	p.printBox("BULLET POINTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDrafted reports how many experience entries DraftAllBulletPoints filled
func (p *Printer) PrintDrafted(drafted int) {
	p.printBox("BULLET POINTS", fmt.Sprintf("Drafted bullet points for %d experience entries", drafted))
}

// PrintSkills reports the outcome of a skill suggestion round. skills is the
// list after merging; the last added entries are the new ones.
func (p *Printer) PrintSkills(added int, skills []string) {
	if added == 0 {
		p.printBox("SKILLS", "No new skills to add")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Added %d new skills:\n", added))
	fresh := skills[max(len(skills)-added, 0):]
	count := min(len(fresh), maxItemsToShow)
	for _, name := range fresh[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", name))
	}
	if len(fresh) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fresh)-maxItemsToShow))
	}
	p.printBox("SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProjectDescription outputs the description of one project
func (p *Printer) PrintProjectDescription(project resume.Project) {
	var sb strings.Builder
	sb.WriteString(project.Name + "\n")
	if len(project.Technologies) > 0 {
		sb.WriteString(fmt.Sprintf("[%s]\n", truncate(strings.Join(project.Technologies, ", "), 40)))
	}
	sb.WriteString("\n")
	for _, line := range generation.SplitLines(project.Description) {
		sb.WriteString(strings.Join(wrap(line, boxWidth-4), "\n") + "\n")
	}
	p.printBox("PROJECT DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatuses lists keys that are generating or failed, sorted by key
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatuses(statuses map[string]generation.Status) {
	if len(statuses) == 0 {
		return
	}
	keys := make([]string, 0, len(statuses))
	for k := range statuses {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%-12s %s\n", statuses[k], k))
	}
	p.printBox("GENERATION STATUS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailures lists the failures joined into err, one per entry
func (p *Printer) PrintFailures(err error) {
	if err == nil {
		return
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d step(s) failed:\n\n", len(errs)))
	for i, e := range errs {
		marker := "⚠"
		var pre *generation.PreconditionNotMetError
		if errors.As(e, &pre) {
			marker = "✗"
		}
		for j, line := range wrap(e.Error(), boxWidth-6) {
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%s %s\n", marker, line))
			} else {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("FAILURES", strings.TrimSuffix(sb.String(), "\n"))
}
