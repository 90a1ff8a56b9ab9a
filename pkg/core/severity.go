package core

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a QA finding.
type Severity int

// Severity levels for findings.
const (
	// SeverityCritical indicates an issue that blocks confidence in the
	// model's validity and must be resolved before running.
	SeverityCritical Severity = iota
	// SeverityMajor indicates a likely problem that needs review.
	SeverityMajor
	// SeverityMinor indicates advisory feedback.
	SeverityMinor
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityMajor:
		return "major"
	case SeverityMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityMajor and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical, true
	case "major":
		return SeverityMajor, true
	case "minor":
		return SeverityMinor, true
	default:
		return SeverityMajor, false
	}
}

// MarshalText implements encoding.TextMarshaler so severities render as
// their names in YAML and JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
