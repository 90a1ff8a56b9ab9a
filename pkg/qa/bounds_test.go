package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

func params(values ...float64) []Parameter {
	out := make([]Parameter, len(values))
	for i, v := range values {
		out[i] = Parameter{Label: "Material", Value: floatPtr(v), Name: "Manning's n"}
	}
	return out
}

func TestBoundsChecker_CriticalWinsOverMajor(t *testing.T) {
	// 0.03 is fine, 0.6 breaches the critical cap: exactly one
	// CRITICAL issue, no MAJOR issue.
	issues := ManningNChecker().Check(params(0.03, 0.6), "run.tlf")

	require.Len(t, issues, 1)
	assert.Equal(t, "N01", issues[0].ID)
	assert.Equal(t, core.SeverityCritical, issues[0].Severity)
	values, ok := issues[0].Details["values"].([]string)
	require.True(t, ok)
	require.Len(t, values, 1)
	assert.Contains(t, values[0], "0.600")
}

func TestBoundsChecker_MajorOutsideAcceptable(t *testing.T) {
	issues := ManningNChecker().Check(params(0.3), "run.tlf")

	require.Len(t, issues, 1)
	assert.Equal(t, "N02", issues[0].ID)
	assert.Equal(t, core.SeverityMajor, issues[0].Severity)
}

func TestBoundsChecker_AllWithinBoundsNoIssue(t *testing.T) {
	issues := ManningNChecker().Check(params(0.03, 0.1, 0.25), "run.tlf")
	assert.Empty(t, issues)
}

func TestBoundsChecker_NilValuesSkipped(t *testing.T) {
	issues := ManningNChecker().Check([]Parameter{
		{Label: "Material 1", Value: nil, Name: "Manning's n"},
	}, "run.tlf")
	assert.Empty(t, issues)
}

func TestBoundsChecker_CriticalMinForNegativeLosses(t *testing.T) {
	issues := SoilInitialLossChecker().Check([]Parameter{
		{Label: "Soil 1", Value: floatPtr(-5.0), Name: "Initial Loss (mm)"},
	}, "run.tlf")

	require.Len(t, issues, 1)
	assert.Equal(t, "IL01", issues[0].ID)
	assert.Equal(t, core.SeverityCritical, issues[0].Severity)
}

func TestBoundsChecker_ContinuingLossMajorRange(t *testing.T) {
	issues := SoilContinuingLossChecker().Check([]Parameter{
		{Label: "Soil 1", Value: floatPtr(80.0), Name: "Continuing Loss (mm/hr)"},
	}, "run.tlf")

	require.Len(t, issues, 1)
	assert.Equal(t, "CL02", issues[0].ID)
	assert.Equal(t, core.SeverityMajor, issues[0].Severity)
}
