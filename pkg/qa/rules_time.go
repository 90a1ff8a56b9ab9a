package qa

import (
	"fmt"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// Scheme names after normalization.
const (
	SchemeHPC     = "HPC"
	SchemeClassic = "CLASSIC"
)

// NormalizeScheme maps the free-text solution scheme onto its
// canonical name. Unknown schemes pass through trimmed; empty input
// stays empty.
func NormalizeScheme(raw string) string {
	upper := strings.ToUpper(raw)
	switch {
	case raw == "":
		return ""
	case strings.Contains(upper, "HPC"):
		return SchemeHPC
	case strings.Contains(upper, "CLASSIC"):
		return SchemeClassic
	default:
		return strings.TrimSpace(raw)
	}
}

func timeAndTimestepRules() []RuleDef {
	return []RuleDef{
		{ID: "run-success", Description: "run test reached the running stage without errors", Check: checkRunSuccess},
		{ID: "time-window", Description: "start/end times present and duration plausible", Check: checkTimeWindow},
		{ID: "output-cadence", Description: "map and time-series output volume within bounds", Check: checkOutputIntervals},
		{ID: "scheme-logs", Description: "hardware log present for the HPC scheme", Check: checkSchemeLogs},
		{ID: "timestep-hpc", Description: "HPC timestep bounds sane", Check: checkTimestepHPC},
		{ID: "timestep-classic", Description: "Classic timestep Courant estimate", Check: checkTimestepClassic},
	}
}

func checkRunSuccess(in Inputs, _ Thresholds) []core.Issue {
	var issues []core.Issue

	if in.Messages.ErrorCount > 0 {
		issues = append(issues, core.NewIssue("TIME00", core.SeverityCritical, "TimeControl",
			fmt.Sprintf("Run test reported %d error(s) in the message file.", in.Messages.ErrorCount)).
			WithSuggestion("Review the error messages and the linked reference pages, then fix the model setup.").
			WithFile(in.MessagesPath))
	}

	if in.Run == nil {
		issues = append(issues, core.NewIssue("TIME01", core.SeverityCritical, "TimeControl",
			"No run log found; cannot confirm run-test success.").
			WithSuggestion("Check Log Folder settings and that the run completed to the log-writing stage."))
		return issues
	}

	if !in.Run.HasRunningLine {
		issues = append(issues, core.NewIssue("TIME02", core.SeverityCritical, "TimeControl",
			"Run test did not reach the 'Running TUFLOW' stage.").
			WithSuggestion("Review the message file for errors and ensure the model passes the solver's own checks.").
			WithFile(in.Run.Path))
	}

	return issues
}

func checkTimeWindow(in Inputs, th Thresholds) []core.Issue {
	if in.Run == nil {
		return nil
	}

	start, end, dur := in.Run.StartTimeH, in.Run.EndTimeH, in.Run.DurationH

	if start == nil || end == nil {
		return []core.Issue{core.NewIssue("TIME10", core.SeverityCritical, "TimeControl",
			"Start Time (h) or End Time (h) not reported in the run log.").
			WithSuggestion("Check that Start Time and End Time are defined in the control files.").
			WithFile(in.Run.Path)}
	}

	if dur == nil {
		return []core.Issue{core.NewIssue("TIME11", core.SeverityCritical, "TimeControl",
			"Simulation duration could not be computed from Start/End times.").
			WithSuggestion("Check Start Time and End Time definitions in the control files.").
			WithFile(in.Run.Path)}
	}

	switch {
	case *dur <= 0:
		return []core.Issue{core.NewIssue("TIME12", core.SeverityCritical, "TimeControl",
			fmt.Sprintf("Simulation duration is non-positive (Start=%v h, End=%v h).", *start, *end)).
			WithSuggestion("Confirm Start Time and End Time are correct and in hours.").
			WithFile(in.Run.Path)}
	case *dur > th.MaxDurationHoursMajor:
		return []core.Issue{core.NewIssue("TIME13", core.SeverityMajor, "TimeControl",
			fmt.Sprintf("Simulation duration is %.1f h, which exceeds %v h.", *dur, th.MaxDurationHoursMajor)).
			WithSuggestion("Confirm that the End Time is correct and that the long duration is intentional.").
			WithFile(in.Run.Path)}
	case *dur > th.MaxDurationHoursMinor:
		return []core.Issue{core.NewIssue("TIME14", core.SeverityMinor, "TimeControl",
			fmt.Sprintf("Simulation duration is %.1f h (above %v h).", *dur, th.MaxDurationHoursMinor)).
			WithSuggestion("Check that the simulation duration is appropriate for the event being modelled.").
			WithFile(in.Run.Path)}
	}

	return nil
}

func checkOutputIntervals(in Inputs, th Thresholds) []core.Issue {
	if in.Run == nil {
		return nil
	}

	var issues []core.Issue
	issues = append(issues, checkOneInterval(in, th, in.Run.MapOutputIntervalS,
		"Map", [4]string{"OUT01", "OUT02", "OUT03", "OUT04"})...)
	issues = append(issues, checkOneInterval(in, th, in.Run.TSOutputIntervalS,
		"Time series", [4]string{"OUT05", "OUT06", "OUT07", "OUT08"})...)
	return issues
}

// checkOneInterval applies the cadence rule to one interval: ids are
// [missing, non-positive, too many outputs, too few outputs].
func checkOneInterval(in Inputs, th Thresholds, interval *float64, kind string, ids [4]string) []core.Issue {
	dur := in.Run.DurationH

	if interval == nil {
		return []core.Issue{core.NewIssue(ids[0], core.SeverityMinor, "OutputInterval",
			fmt.Sprintf("%s output interval not reported in the run log (solver defaults may apply).", kind)).
			WithSuggestion(fmt.Sprintf("Consider explicitly setting the %s output interval in the control files.", strings.ToLower(kind))).
			WithFile(in.Run.Path)}
	}
	if *interval <= 0 {
		return []core.Issue{core.NewIssue(ids[1], core.SeverityCritical, "OutputInterval",
			fmt.Sprintf("%s output interval is non-positive: %v s.", kind, *interval)).
			WithSuggestion(fmt.Sprintf("Set a positive %s output interval in seconds.", strings.ToLower(kind))).
			WithFile(in.Run.Path)}
	}
	if dur == nil || *dur <= 0 {
		return nil
	}

	n := *dur * 3600.0 / *interval
	switch {
	case n > th.MaxOutputsMajor:
		return []core.Issue{core.NewIssue(ids[2], core.SeverityMajor, "OutputInterval",
			fmt.Sprintf("%s outputs count ~%.0f, which exceeds %.0f.", kind, n, th.MaxOutputsMajor)).
			WithSuggestion(fmt.Sprintf("Increase the %s output interval to reduce output volume and improve performance.", strings.ToLower(kind))).
			WithFile(in.Run.Path)}
	case n < th.MinOutputsMinor:
		return []core.Issue{core.NewIssue(ids[3], core.SeverityMinor, "OutputInterval",
			fmt.Sprintf("%s outputs count ~%.1f (very few; may miss temporal behaviour).", kind, n)).
			WithSuggestion(fmt.Sprintf("Decrease the %s output interval if more temporal detail is required.", strings.ToLower(kind))).
			WithFile(in.Run.Path)}
	}

	return nil
}

func checkSchemeLogs(in Inputs, _ Thresholds) []core.Issue {
	if in.Run == nil {
		return nil
	}
	if NormalizeScheme(in.Run.SolutionScheme) != SchemeHPC {
		return nil
	}
	if in.Hpc != nil {
		return nil
	}

	return []core.Issue{core.NewIssue("SCHEME01", core.SeverityMajor, "SolverScheme",
		"2D Solution Scheme is HPC but the hardware companion log is missing.").
		WithSuggestion("Check Log Folder settings and ensure the HPC solver is executed.").
		WithFile(in.Run.Path)}
}

func checkTimestepHPC(in Inputs, th Thresholds) []core.Issue {
	if in.Run == nil || NormalizeScheme(in.Run.SolutionScheme) != SchemeHPC {
		return nil
	}
	if in.Hpc == nil {
		// Missing hardware log is SCHEME01's finding.
		return nil
	}

	var issues []core.Issue
	dtMin, dtMax, dx := in.Hpc.TimestepMinS, in.Hpc.TimestepMaxS, in.Hpc.CellSizeM

	switch {
	case dtMin != nil && *dtMin <= 0:
		issues = append(issues, core.NewIssue("HPC_TS01", core.SeverityCritical, "TimestepHPC",
			fmt.Sprintf("HPC minimum timestep is non-positive: %v s.", *dtMin)).
			WithSuggestion("Review the model stability and timestep controls.").
			WithFile(in.Hpc.Path))
	case dtMin != nil && *dtMin < th.MinHPCTimestepTinyS:
		issues = append(issues, core.NewIssue("HPC_TS02", core.SeverityMajor, "TimestepHPC",
			fmt.Sprintf("HPC minimum timestep is extremely small: %v s.", *dtMin)).
			WithSuggestion("Investigate local instabilities or highly restrictive conditions in the model.").
			WithFile(in.Hpc.Path))
	}

	if dx != nil && dtMax != nil && *dtMax > th.HPCDtMaxFactor**dx {
		issues = append(issues, core.NewIssue("HPC_TS03", core.SeverityMinor, "TimestepHPC",
			fmt.Sprintf("HPC maximum timestep (%v s) is large relative to cell size (%v m).", *dtMax, *dx)).
			WithSuggestion("Consider capping Timestep Maximum to around 0.5 * cell size (in seconds) if stability issues occur.").
			WithFile(in.Hpc.Path))
	}

	return issues
}

func checkTimestepClassic(in Inputs, th Thresholds) []core.Issue {
	if in.Run == nil || NormalizeScheme(in.Run.SolutionScheme) == SchemeHPC {
		return nil
	}

	dx, dt := in.Run.CellSizeM, in.Run.TimestepS
	if dx == nil || dt == nil || *dx == 0 {
		// Cannot estimate a Courant number without both values.
		return nil
	}

	courant := *dt * th.CourantWaveSpeedMS / *dx

	switch {
	case courant > th.CourantMajor:
		return []core.Issue{core.NewIssue("CLASSIC_TS01", core.SeverityMajor, "TimestepClassic",
			fmt.Sprintf("Estimated Courant number C ~ %.2f (dx=%v m, dt=%v s) exceeds %v.", courant, *dx, *dt, th.CourantMajor)).
			WithSuggestion("Reduce the timestep or increase cell size to improve numerical stability.").
			WithFile(in.Run.Path)}
	case courant > th.CourantMinor:
		return []core.Issue{core.NewIssue("CLASSIC_TS02", core.SeverityMinor, "TimestepClassic",
			fmt.Sprintf("Estimated Courant number C ~ %.2f (dx=%v m, dt=%v s) exceeds %v.", courant, *dx, *dt, th.CourantMinor)).
			WithSuggestion("Consider reducing the timestep if the model shows signs of instability.").
			WithFile(in.Run.Path)}
	}

	return nil
}
