package control

import (
	"fmt"
	"sort"
	"strings"
)

// PlaceholderSeverity is the outcome level of placeholder-coverage
// validation. It is deliberately separate from core.Severity: this is
// a go/no-go policy decision, not a QA finding.
type PlaceholderSeverity int

// Placeholder validation outcomes.
const (
	// PlaceholderOK means every detected placeholder has a value.
	PlaceholderOK PlaceholderSeverity = iota
	// PlaceholderWarning means values are missing but the requested
	// operation can proceed with placeholders left as-is.
	PlaceholderWarning
	// PlaceholderError means values are missing and the requested
	// operation needs fully-resolved paths.
	PlaceholderError
)

// String returns the lower-case name of the severity.
func (s PlaceholderSeverity) String() string {
	switch s {
	case PlaceholderOK:
		return "none"
	case PlaceholderWarning:
		return "warning"
	case PlaceholderError:
		return "error"
	default:
		return "unknown"
	}
}

// PlaceholderValidation is the result of ValidatePlaceholders.
type PlaceholderValidation struct {
	Detected    []string
	Missing     []string
	Required    bool
	Severity    PlaceholderSeverity
	Message     string
	OKToProceed bool
}

// ValidatePlaceholders checks placeholder coverage for a root path
// before a scan or run. The whole path is inspected, not only the
// basename, since parent directories may be parameterised too.
//
// The policy is a three-state table: when the caller is about to run
// the solver or must build concrete paths, missing values are an
// error; otherwise missing values degrade to a warning and the
// operation proceeds with placeholders left verbatim.
func ValidatePlaceholders(rootPath string, values map[string]string, runRequiresExecution, pathsMustBeBuilt bool) PlaceholderValidation {
	detected := FindPlaceholders(rootPath)

	var missing []string
	for _, name := range detected {
		if v, ok := values[name]; !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	required := runRequiresExecution || pathsMustBeBuilt

	result := PlaceholderValidation{
		Detected: detected,
		Missing:  missing,
		Required: required,
	}

	if len(missing) == 0 {
		result.Severity = PlaceholderOK
		result.OKToProceed = true
		return result
	}

	var names, hints []string
	for _, m := range missing {
		names = append(names, fmt.Sprintf("~%s~", m))
		hints = append(hints, fmt.Sprintf("~%s~=VALUE", m))
	}
	result.Message = fmt.Sprintf("Missing placeholder values: %s\n\nProvide values with --set, e.g. -s %s",
		strings.Join(names, ", "), strings.Join(hints, " -s "))

	if required {
		result.Severity = PlaceholderError
		result.OKToProceed = false
		return result
	}

	result.Severity = PlaceholderWarning
	result.OKToProceed = true
	result.Message += "\nProceeding without substituting these values."
	return result
}
