package qa

import (
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/hydrostack-labs/tuflowqa/pkg/runlog"
)

func parameterSanityRules() []RuleDef {
	return []RuleDef{
		{ID: "manning-n", Description: "Manning's roughness within plausible bounds", Check: checkManningN},
		{ID: "soil-losses", Description: "soil initial/continuing losses within plausible bounds", Check: checkSoilLosses},
		{ID: "solver-hardware", Description: "GPU detected and healthy for HPC runs", Check: checkSolverHardware},
	}
}

func checkManningN(in Inputs, _ Thresholds) []core.Issue {
	if in.Run == nil {
		return nil
	}

	if len(in.Run.Materials) == 0 {
		return []core.Issue{core.NewIssue("N00", core.SeverityMinor, "ManningN",
			"No material values reported in the run log; roughness sanity check skipped.").
			WithSuggestion("Confirm that materials are defined and that the run log contains material values.").
			WithFile(in.Run.Path)}
	}

	var params []Parameter
	for _, mat := range in.Run.Materials {
		if mat.ManningN != nil {
			params = append(params, Parameter{Label: mat.Name, Value: mat.ManningN, Name: "Manning's n"})
		}
	}
	if len(params) == 0 {
		// N01/N02 are the bounds checker's slots; the no-values
		// finding gets its own ID.
		return []core.Issue{core.NewIssue("N03", core.SeverityMinor, "ManningN",
			"No roughness values could be read from the material values block.").
			WithSuggestion("Check the material definitions in the control files.").
			WithFile(in.Run.Path)}
	}

	return ManningNChecker().Check(params, in.Run.Path)
}

func checkSoilLosses(in Inputs, _ Thresholds) []core.Issue {
	if in.Run == nil {
		return nil
	}

	// Only the initial loss/continuing loss approach carries IL/CL
	// values worth bounding.
	var soils []runlog.Soil
	for _, s := range in.Run.Soils {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.Approach)), "initial loss/continuing loss") {
			soils = append(soils, s)
		}
	}
	if len(soils) == 0 {
		return nil
	}

	var issues []core.Issue

	var il []Parameter
	for _, s := range soils {
		if s.InitialLossMm != nil {
			il = append(il, Parameter{Label: s.Name, Value: s.InitialLossMm, Name: "Initial Loss (mm)"})
		}
	}
	if len(il) > 0 {
		issues = append(issues, SoilInitialLossChecker().Check(il, in.Run.Path)...)
	}

	var cl []Parameter
	for _, s := range soils {
		if s.ContinuingLossMmPerHr != nil {
			cl = append(cl, Parameter{Label: s.Name, Value: s.ContinuingLossMmPerHr, Name: "Continuing Loss (mm/hr)"})
		}
	}
	if len(cl) > 0 {
		issues = append(issues, SoilContinuingLossChecker().Check(cl, in.Run.Path)...)
	}

	return issues
}

func checkSolverHardware(in Inputs, _ Thresholds) []core.Issue {
	if in.Run == nil || NormalizeScheme(in.Run.SolutionScheme) != SchemeHPC {
		return nil
	}
	if in.Hpc == nil {
		// Missing hardware log is SCHEME01's finding.
		return nil
	}

	if in.Hpc.GPU != runlog.GPUNotFound && len(in.Hpc.GPUErrors) == 0 {
		return nil
	}

	issue := core.NewIssue("SOLV01", core.SeverityMajor, "SolverHardware",
		"HPC solver encountered GPU/driver issues; check CUDA / GPU configuration.").
		WithSuggestion("Review the hardware log for CUDA / GPU errors and confirm the correct GPU drivers are installed.").
		WithFile(in.Hpc.Path)
	if len(in.Hpc.GPUErrors) > 0 {
		issue = issue.WithDetail("gpu_errors", in.Hpc.GPUErrors)
	}
	return []core.Issue{issue}
}
