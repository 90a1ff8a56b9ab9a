package core

// Issue is a single QA finding. Issues are append-only: every stage of
// the pipeline accumulates them and none are removed or mutated once
// created. Severity is never downgraded after assignment.
type Issue struct {
	// ID is a stable string code, e.g. "CT001_CONTROL_FILE_MISSING".
	// Downstream consumers key on these codes; they never change.
	ID         string         `json:"id" yaml:"id"`
	Severity   Severity       `json:"severity" yaml:"severity"`
	Category   string         `json:"category" yaml:"category"`
	Message    string         `json:"message" yaml:"message"`
	Suggestion string         `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	File       string         `json:"file,omitempty" yaml:"file,omitempty"`
	Line       int            `json:"line,omitempty" yaml:"line,omitempty"`
	Details    map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewIssue constructs an Issue with an empty (non-nil) details map.
func NewIssue(id string, severity Severity, category, message string) Issue {
	return Issue{
		ID:       id,
		Severity: severity,
		Category: category,
		Message:  message,
		Details:  map[string]any{},
	}
}

// WithSuggestion returns a copy of the issue with the suggestion set.
func (i Issue) WithSuggestion(s string) Issue {
	i.Suggestion = s
	return i
}

// WithFile returns a copy of the issue with the source file set.
func (i Issue) WithFile(path string) Issue {
	i.File = path
	return i
}

// WithLine returns a copy of the issue with the source line set.
func (i Issue) WithLine(line int) Issue {
	i.Line = line
	return i
}

// WithDetail returns a copy of the issue with one detail entry added.
func (i Issue) WithDetail(key string, value any) Issue {
	details := make(map[string]any, len(i.Details)+1)
	for k, v := range i.Details {
		details[k] = v
	}
	details[key] = value
	i.Details = details
	return i
}

// CountBySeverity tallies issues per severity level.
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}
