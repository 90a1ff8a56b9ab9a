package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/hydrostack-labs/tuflowqa/pkg/runlog"
)

func materials(values ...float64) []runlog.Material {
	out := make([]runlog.Material, len(values))
	for i, v := range values {
		out[i] = runlog.Material{Index: i + 1, Name: "Material", ManningN: floatPtr(v)}
	}
	return out
}

func ilclSoil(name string, il, cl float64) runlog.Soil {
	return runlog.Soil{
		Index:                 1,
		Name:                  name,
		Approach:              "Initial Loss/Continuing Loss",
		InitialLossMm:         floatPtr(il),
		ContinuingLossMmPerHr: floatPtr(cl),
	}
}

func TestParameterChecks_CleanRun(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.Materials = materials(0.03, 0.1)
		s.Soils = []runlog.Soil{ilclSoil("Soil 1", 10.0, 2.5)}
	})

	issues := RunParameterSanityChecks(run, healthyHpc())
	assert.Empty(t, issues)
}

func TestParameterChecks_NoMaterialsIsAdvisory(t *testing.T) {
	issues := RunParameterSanityChecks(runSummary(nil), healthyHpc())

	require.Len(t, issues, 1)
	assert.Equal(t, "N00", issues[0].ID)
	assert.Equal(t, core.SeverityMinor, issues[0].Severity)
}

func TestParameterChecks_MaterialsWithoutValues(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.Materials = []runlog.Material{{Index: 1, Name: "Material 1"}}
	})

	issues := RunParameterSanityChecks(run, healthyHpc())

	require.Len(t, issues, 1)
	// Distinct from the bounds checker's N01/N02 so severities stay
	// unambiguous per ID.
	assert.Equal(t, "N03", issues[0].ID)
	assert.Equal(t, core.SeverityMinor, issues[0].Severity)
}

func TestParameterChecks_RoughnessCritical(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.Materials = materials(0.03, 0.6)
	})

	issues := RunParameterSanityChecks(run, healthyHpc())

	require.Len(t, issues, 1)
	assert.Equal(t, "N01", issues[0].ID)
	assert.Equal(t, core.SeverityCritical, issues[0].Severity)
}

func TestParameterChecks_SoilApproachFilter(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.Materials = materials(0.03)
		s.Soils = []runlog.Soil{
			// Not the IL/CL approach: out-of-range values must be
			// ignored for this soil.
			{Index: 1, Name: "GA Soil", Approach: "Green-Ampt", InitialLossMm: floatPtr(900.0)},
			ilclSoil("Soil 2", 300.0, 2.5),
		}
	})

	issues := RunParameterSanityChecks(run, healthyHpc())

	require.Len(t, issues, 1)
	assert.Equal(t, "IL02", issues[0].ID)
	assert.Equal(t, core.SeverityMajor, issues[0].Severity)
}

func TestParameterChecks_GPUTrouble(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) { s.Materials = materials(0.03) })

	hpc := healthyHpc()
	hpc.GPU = runlog.GPUNotFound
	hpc.GPUErrors = []string{"ERROR: CUDA device not found"}

	issues := RunParameterSanityChecks(run, hpc)

	require.Len(t, issues, 1)
	assert.Equal(t, "SOLV01", issues[0].ID)
	assert.Equal(t, core.SeverityMajor, issues[0].Severity)
	assert.Equal(t, hpc.GPUErrors, issues[0].Details["gpu_errors"])
}

func TestParameterChecks_GPURulesSkippedForClassic(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.SolutionScheme = "Classic"
		s.Materials = materials(0.03)
	})

	hpc := healthyHpc()
	hpc.GPU = runlog.GPUNotFound

	issues := RunParameterSanityChecks(run, hpc)
	assert.Empty(t, issues)
}

func TestEngine_FullBatteryEvaluatesBothFamilies(t *testing.T) {
	run := runSummary(func(s *runlog.RunSummary) {
		s.HasRunningLine = false
		s.Materials = materials(0.6)
	})

	engine := NewEngine(DefaultThresholds())
	issues := engine.Evaluate(Inputs{Run: run, Hpc: healthyHpc()})

	ids := issueIDs(issues)
	assert.Contains(t, ids, "TIME02")
	assert.Contains(t, ids, "N01")
}
