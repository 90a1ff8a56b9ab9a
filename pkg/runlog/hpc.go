package runlog

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// GPUStatus is the tri-state GPU detection outcome read from the
// hardware log.
type GPUStatus int

const (
	// GPUUnknown means the log never mentioned device detection.
	GPUUnknown GPUStatus = iota
	GPUFound
	GPUNotFound
)

func (s GPUStatus) String() string {
	switch s {
	case GPUFound:
		return "found"
	case GPUNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// HpcSummary is the structured view of the hardware companion log.
type HpcSummary struct {
	Path         string    `json:"path" yaml:"path"`
	CellSizeM    *float64  `json:"cell_size_m,omitempty" yaml:"cell_size_m,omitempty"`
	TimestepMinS *float64  `json:"timestep_min_s,omitempty" yaml:"timestep_min_s,omitempty"`
	TimestepMaxS *float64  `json:"timestep_max_s,omitempty" yaml:"timestep_max_s,omitempty"`
	GPU          GPUStatus `json:"gpu" yaml:"gpu"`
	GPUErrors    []string  `json:"gpu_errors,omitempty" yaml:"gpu_errors,omitempty"`
}

var gpuFailureMarkers = []string{"FAILED", "ERROR", "NOT FOUND", "UNABLE"}

// SummarizeHpcLog parses the hardware companion log at path. A missing
// file yields (nil, nil); absence is normal for non-HPC runs.
func SummarizeHpcLog(path string) (*HpcSummary, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &HpcSummary{Path: path}

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "Cell Size") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.CellSizeM = v
			}
		}
		if strings.HasPrefix(line, "Timestep Minimum") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.TimestepMinS = v
			}
		}
		if strings.HasPrefix(line, "Timestep Maximum") && strings.Contains(line, "==") {
			if v := firstFloat(line); v != nil {
				summary.TimestepMaxS = v
			}
		}

		// GPU trouble is flagged only when a failure marker co-occurs
		// with a CUDA mention; a plain "CUDA" line is not an error.
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "CUDA") {
			if strings.Contains(upper, "DEVICE") && strings.Contains(upper, "FOUND") &&
				!strings.Contains(upper, "NOT FOUND") {
				summary.GPU = GPUFound
			}
			for _, marker := range gpuFailureMarkers {
				if strings.Contains(upper, marker) {
					summary.GPUErrors = append(summary.GPUErrors, line)
					if summary.GPU == GPUUnknown {
						summary.GPU = GPUNotFound
					}
					break
				}
			}
		}
	}

	return summary, nil
}
