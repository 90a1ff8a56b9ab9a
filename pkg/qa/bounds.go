package qa

import (
	"fmt"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// Parameter is one labeled value for bounds checking. Value nil means
// the parameter was never reported; nil values are skipped, never
// flagged.
type Parameter struct {
	Label string
	Value *float64
	Name  string
}

// BoundsChecker classifies labeled values against an acceptable range
// and optional critical limits. A single invocation emits at most one
// issue: a CRITICAL one when any value breaches a critical limit,
// else a MAJOR one when any value falls outside the acceptable range.
// The offending labels ride along in the issue details.
type BoundsChecker struct {
	IDPrefix string
	Category string

	MinAcceptable float64
	MaxAcceptable float64
	// CriticalMin and CriticalMax are exclusive limits; nil disables
	// the corresponding critical test.
	CriticalMin *float64
	CriticalMax *float64
}

// Check classifies the given parameters. sourceFile is attached to
// the emitted issue for traceability.
func (c BoundsChecker) Check(params []Parameter, sourceFile string) []core.Issue {
	var (
		values   []float64
		critical []string
		major    []string
	)

	for _, p := range params {
		if p.Value == nil {
			continue
		}
		v := *p.Value
		values = append(values, v)

		switch {
		case c.CriticalMin != nil && v < *c.CriticalMin:
			critical = append(critical, fmt.Sprintf("%s: %s=%.3f (< %v)", p.Label, p.Name, v, *c.CriticalMin))
		case c.CriticalMax != nil && v > *c.CriticalMax:
			critical = append(critical, fmt.Sprintf("%s: %s=%.3f (> %v)", p.Label, p.Name, v, *c.CriticalMax))
		case v < c.MinAcceptable || v > c.MaxAcceptable:
			major = append(major, fmt.Sprintf("%s: %s=%.3f (outside [%v, %v])",
				p.Label, p.Name, v, c.MinAcceptable, c.MaxAcceptable))
		}
	}

	if len(values) == 0 {
		return nil
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	switch {
	case len(critical) > 0:
		issue := core.NewIssue(c.IDPrefix+"01", core.SeverityCritical, c.Category,
			fmt.Sprintf("Critical values detected (range: %.3f-%.3f).", minVal, maxVal)).
			WithSuggestion(fmt.Sprintf("Review and correct non-physical %s values.", strings.ToLower(c.Category))).
			WithFile(sourceFile).
			WithDetail("values", critical)
		return []core.Issue{issue}
	case len(major) > 0:
		issue := core.NewIssue(c.IDPrefix+"02", core.SeverityMajor, c.Category,
			fmt.Sprintf("Out-of-range values (range: %.3f-%.3f). Acceptable: [%v, %v].",
				minVal, maxVal, c.MinAcceptable, c.MaxAcceptable)).
			WithSuggestion(fmt.Sprintf("Confirm that extreme %s values are intentional and documented.", strings.ToLower(c.Category))).
			WithFile(sourceFile).
			WithDetail("values", major)
		return []core.Issue{issue}
	}

	return nil
}

func floatPtr(v float64) *float64 { return &v }

// ManningNChecker bounds Manning's roughness coefficients. Values
// above 0.5 are physically implausible for open-channel flow.
func ManningNChecker() BoundsChecker {
	return BoundsChecker{
		IDPrefix:      "N",
		Category:      "ManningN",
		MinAcceptable: 0.01,
		MaxAcceptable: 0.25,
		CriticalMax:   floatPtr(0.5),
	}
}

// SoilInitialLossChecker bounds soil initial loss in mm. Negative
// losses are impossible; above 500 mm is extreme.
func SoilInitialLossChecker() BoundsChecker {
	return BoundsChecker{
		IDPrefix:      "IL",
		Category:      "SoilInitialLoss",
		MinAcceptable: 0.0,
		MaxAcceptable: 200.0,
		CriticalMin:   floatPtr(0.0),
		CriticalMax:   floatPtr(500.0),
	}
}

// SoilContinuingLossChecker bounds soil continuing loss in mm/hr.
func SoilContinuingLossChecker() BoundsChecker {
	return BoundsChecker{
		IDPrefix:      "CL",
		Category:      "SoilContinuingLoss",
		MinAcceptable: 0.0,
		MaxAcceptable: 50.0,
		CriticalMin:   floatPtr(0.0),
		CriticalMax:   floatPtr(200.0),
	}
}
