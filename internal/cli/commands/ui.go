package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// issueReport is the JSON shape of a validated root.
type issueReport struct {
	Root    string       `json:"root"`
	Summary issueSummary `json:"summary"`
	Issues  []core.Issue `json:"issues"`
}

type issueSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

func summarizeIssues(issues []core.Issue) issueSummary {
	counts := core.CountBySeverity(issues)
	return issueSummary{
		Total:    len(issues),
		Critical: counts[core.SeverityCritical],
		Major:    counts[core.SeverityMajor],
		Minor:    counts[core.SeverityMinor],
	}
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityCritical:
		return r.Styles().Error.Render("critical")
	case core.SeverityMajor:
		return r.Styles().Warning.Render("major   ")
	case core.SeverityMinor:
		return r.Styles().Info.Render("minor   ")
	default:
		return r.Styles().Muted.Render("unknown ")
	}
}

// renderIssues prints the issue list for one root and returns whether
// any issues were printed. Issues are ordered critical first, then by
// ID for stable output.
func renderIssues(r *output.Renderer, root string, issues []core.Issue) bool {
	if len(issues) == 0 {
		r.Success(fmt.Sprintf("%s: no issues found", root))
		return false
	}

	sorted := make([]core.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity < sorted[j].Severity
		}
		return sorted[i].ID < sorted[j].ID
	})

	r.Println(r.Styles().Path.Render(root))
	for _, iss := range sorted {
		r.Printf("  %s  %s  %s\n",
			severityStyle(r, iss.Severity),
			r.Styles().Bold.Render(iss.ID),
			iss.Message,
		)
		if iss.Suggestion != "" {
			r.Printf("            %s\n", r.Styles().Muted.Render(iss.Suggestion))
		}
	}
	r.Println("")

	s := summarizeIssues(issues)
	parts := []string{fmt.Sprintf("%d issues", s.Total)}
	if s.Critical > 0 {
		parts = append(parts, fmt.Sprintf("%d critical", s.Critical))
	}
	if s.Major > 0 {
		parts = append(parts, fmt.Sprintf("%d major", s.Major))
	}
	if s.Minor > 0 {
		parts = append(parts, fmt.Sprintf("%d minor", s.Minor))
	}
	r.Printf("Summary: %s\n", strings.Join(parts, ", "))

	return true
}

// failAbove reports whether any issue is at or above the threshold
// severity named by failOn ("critical", "major" or "minor").
func failAbove(issues []core.Issue, failOn string) bool {
	threshold, _ := core.ParseSeverity(failOn)
	for _, iss := range issues {
		if iss.Severity <= threshold {
			return true
		}
	}
	return false
}
