package tracking

import (
	"fmt"
	"strings"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

// RenderSummary renders the end-of-session report for the terminal.
func RenderSummary(log *ChangeLog) string {
	if log.Attempted() == 0 {
		return fmt.Sprintf("%sNo changes in this session%s", terminal.Color(terminal.Dim), terminal.Color(terminal.Reset))
	}

	width := terminal.ReportWidth()
	var lines []string

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s%sSession summary%s %s(%s)%s",
		terminal.Color(terminal.Cyan), terminal.Color(terminal.Bold), terminal.Color(terminal.Reset),
		terminal.Color(terminal.Dim), log.SessionID(), terminal.Color(terminal.Reset)))
	lines = append(lines, terminal.Ruler(width, "━"))
	lines = append(lines, fmt.Sprintf("  %d attempted, %s%d succeeded%s, %s%d failed%s",
		log.Attempted(),
		terminal.Color(terminal.Green), log.Succeeded(), terminal.Color(terminal.Reset),
		terminal.Color(terminal.Red), log.Failed(), terminal.Color(terminal.Reset)))

	if successful := log.Successful(); len(successful) > 0 {
		lines = append(lines, "")
		for _, r := range successful {
			lines = append(lines, fmt.Sprintf("  %s✓%s %s %s %s(%s)%s",
				terminal.Color(terminal.Green), terminal.Color(terminal.Reset),
				r.Target, r.Field,
				terminal.Color(terminal.Dim), r.Operation, terminal.Color(terminal.Reset)))
			if r.RevisionURL != "" {
				lines = append(lines, fmt.Sprintf("    %sreview: %s%s",
					terminal.Color(terminal.Dim), r.RevisionURL, terminal.Color(terminal.Reset)))
			}
		}
	}

	if failed := log.FailedRecords(); len(failed) > 0 {
		lines = append(lines, "")
		for _, r := range failed {
			lines = append(lines, fmt.Sprintf("  %s✗%s %s %s %s— %s%s",
				terminal.Color(terminal.Red), terminal.Color(terminal.Reset),
				r.Target, r.Field,
				terminal.Color(terminal.Dim), terminal.Truncate(r.Error, 60), terminal.Color(terminal.Reset)))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderMarkdown renders a markdown session summary suitable for pasting
// into Slack or a PR comment.
func RenderMarkdown(log *ChangeLog) string {
	if log.Attempted() == 0 {
		return "No changes recorded."
	}

	methods := map[string]bool{}
	for _, r := range log.Records() {
		if r.Method != "" {
			methods[r.Method] = true
		}
	}
	var methodNames []string
	for m := range methods {
		methodNames = append(methodNames, m)
	}

	var lines []string
	lines = append(lines, "## Content Changes Summary")
	lines = append(lines, fmt.Sprintf("**Session:** %s", log.SessionID()))
	if len(methodNames) > 0 {
		lines = append(lines, fmt.Sprintf("**Method:** %s", strings.Join(methodNames, ", ")))
	}
	lines = append(lines, fmt.Sprintf("**Changes:** %d successful, %d failed", log.Succeeded(), log.Failed()))

	if successful := log.Successful(); len(successful) > 0 {
		lines = append(lines, "")
		lines = append(lines, "| Target | Field | Change | Review |")
		lines = append(lines, "|--------|-------|--------|--------|")
		for _, r := range successful {
			change := describeChange(r)
			review := "-"
			if r.RevisionURL != "" {
				review = fmt.Sprintf("[Review](%s)", r.RevisionURL)
			}
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s |", r.Target, r.Field, change, review))
		}
	}

	if failed := log.FailedRecords(); len(failed) > 0 {
		lines = append(lines, "")
		lines = append(lines, "### Failed")
		for _, r := range failed {
			lines = append(lines, fmt.Sprintf("- %s %s: %s", r.Target, r.Field, r.Error))
		}
	}

	return strings.Join(lines, "\n")
}

func describeChange(r Record) string {
	if r.OldValue == "" && r.NewValue == "" {
		return r.Operation
	}
	old := terminal.Truncate(r.OldValue, 20)
	updated := terminal.Truncate(r.NewValue, 20)
	if old == "" {
		return fmt.Sprintf("%q", updated)
	}
	return fmt.Sprintf("%q → %q", old, updated)
}
