// Package runlog extracts structured summaries from the solver's
// textual output: the free-text run log, the companion hardware log
// and the fixed-column message file. Extraction never fails on
// malformed content; fields that cannot be read stay absent.
package runlog

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Material is one entry of the run log's material values block.
// ManningN is nil when no roughness line followed the header.
type Material struct {
	Index    int      `json:"index" yaml:"index"`
	Name     string   `json:"name" yaml:"name"`
	ManningN *float64 `json:"manning_n,omitempty" yaml:"manning_n,omitempty"`
}

// Soil is one entry of the run log's soil values block.
type Soil struct {
	Index                 int      `json:"index" yaml:"index"`
	Name                  string   `json:"name" yaml:"name"`
	Approach              string   `json:"approach,omitempty" yaml:"approach,omitempty"`
	InitialLossMm         *float64 `json:"initial_loss_mm,omitempty" yaml:"initial_loss_mm,omitempty"`
	ContinuingLossMmPerHr *float64 `json:"continuing_loss_mm_per_hr,omitempty" yaml:"continuing_loss_mm_per_hr,omitempty"`
}

// RunSummary is the structured view of one solver run log. Nil
// pointer fields mean the log never reported the value; DurationH is
// derived from start and end and is never set from partial data.
type RunSummary struct {
	Path           string `json:"path" yaml:"path"`
	HasRunningLine bool   `json:"has_running_line" yaml:"has_running_line"`
	SolutionScheme string `json:"solution_scheme,omitempty" yaml:"solution_scheme,omitempty"`

	StartTimeH *float64 `json:"start_time_h,omitempty" yaml:"start_time_h,omitempty"`
	EndTimeH   *float64 `json:"end_time_h,omitempty" yaml:"end_time_h,omitempty"`
	DurationH  *float64 `json:"duration_h,omitempty" yaml:"duration_h,omitempty"`

	MapOutputIntervalS *float64 `json:"map_output_interval_s,omitempty" yaml:"map_output_interval_s,omitempty"`
	TSOutputIntervalS  *float64 `json:"ts_output_interval_s,omitempty" yaml:"ts_output_interval_s,omitempty"`
	CellSizeM          *float64 `json:"cell_size_m,omitempty" yaml:"cell_size_m,omitempty"`

	TimestepS *float64 `json:"timestep_s,omitempty" yaml:"timestep_s,omitempty"`

	Materials []Material `json:"materials,omitempty" yaml:"materials,omitempty"`
	Soils     []Soil     `json:"soils,omitempty" yaml:"soils,omitempty"`
}

// floatRe matches the first float-like value in a line, including
// scientific notation.
var floatRe = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[Ee][-+]?\d+)?`)

// firstFloat extracts the first float-like value from text, nil when
// no parsable number is present.
func firstFloat(text string) *float64 {
	m := floatRe.FindString(text)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// blockState is the parser position inside the materials/soils pass.
type blockState int

const (
	stateNone blockState = iota
	stateMaterial
	stateSoil
)

// SummarizeRunLog parses the solver run log at path. A missing file
// yields (nil, nil): absence is expected when the run never started
// and is judged by the rule layer, not here.
func SummarizeRunLog(path string) (*RunSummary, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	summary := &RunSummary{Path: path}

	// Scalar pass. Deliberately independent of the block pass below so
	// a malformed block cannot hide scalar fields.
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if strings.Contains(line, "Running TUFLOW") {
			summary.HasRunningLine = true
		}
		if strings.Contains(line, "2D Solution Scheme") && strings.Contains(line, "==") {
			_, value, _ := strings.Cut(line, "==")
			summary.SolutionScheme = strings.TrimSpace(value)
		}
		if strings.HasPrefix(line, "Start Time (h)") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.StartTimeH = v
			}
		}
		if strings.HasPrefix(line, "End Time (h)") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.EndTimeH = v
			}
		}
		if strings.Contains(line, "ASC Map Output Interval (s)") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.MapOutputIntervalS = v
			}
		}
		if strings.Contains(line, "Time Series Output Interval (s)") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.TSOutputIntervalS = v
			}
		}
		if strings.HasPrefix(line, "Cell Size") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.CellSizeM = v
			}
		}
		if (strings.Contains(line, "Time Step") || strings.Contains(line, "TimeStep")) &&
			strings.Contains(line, "(s)") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil && summary.TimestepS == nil {
				summary.TimestepS = v
			}
		}
	}

	if summary.StartTimeH != nil && summary.EndTimeH != nil {
		d := *summary.EndTimeH - *summary.StartTimeH
		summary.DurationH = &d
	}

	// Block pass: materials and soils.
	state := stateNone
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "#") && strings.Contains(line, "Material") {
			idx, name := parseBlockHeader(line)
			summary.Materials = append(summary.Materials, Material{Index: idx, Name: name})
			state = stateMaterial
			continue
		}
		if strings.HasPrefix(line, "#") && strings.Contains(line, "Soil") {
			idx, name := parseBlockHeader(line)
			summary.Soils = append(summary.Soils, Soil{Index: idx, Name: name})
			state = stateSoil
			continue
		}

		switch state {
		case stateMaterial:
			mat := &summary.Materials[len(summary.Materials)-1]
			if strings.Contains(line, "Fixed Manning's n") && strings.Contains(line, "=") {
				if v := firstFloat(line); v != nil {
					mat.ManningN = v
				}
			}
		case stateSoil:
			soil := &summary.Soils[len(summary.Soils)-1]
			switch {
			case strings.HasPrefix(line, "Soil Approach"):
				if _, value, ok := strings.Cut(line, ":"); ok {
					soil.Approach = strings.TrimSpace(value)
				}
			case strings.HasPrefix(line, "Initial Loss") && strings.Contains(line, "="):
				if v := firstFloat(line); v != nil {
					soil.InitialLossMm = v
				}
			case strings.HasPrefix(line, "Continuing Loss") && strings.Contains(line, "="):
				if v := firstFloat(line); v != nil {
					soil.ContinuingLossMmPerHr = v
				}
			}
		}
	}

	return summary, nil
}

// parseBlockHeader splits "#1 - Material 1:" into index and name. A
// header that does not fit the pattern yields index -1 and the raw
// line as the name, never an error.
func parseBlockHeader(line string) (int, string) {
	body := strings.TrimSpace(strings.TrimLeft(line, "#"))
	idxPart, namePart, ok := strings.Cut(body, "-")
	if !ok {
		return -1, line
	}
	idx, err := strconv.Atoi(strings.TrimSpace(idxPart))
	if err != nil {
		return -1, line
	}
	return idx, strings.TrimRight(strings.TrimSpace(namePart), ":")
}
