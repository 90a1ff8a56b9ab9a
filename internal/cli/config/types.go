// Package config loads CLI configuration from file, environment and flags.
package config

import (
	"github.com/hydrostack-labs/tuflowqa/pkg/qa"
)

// Defaults applied before any config source is loaded.
const (
	DefaultHistoryPath = ".tuflowqa/history.db"
	DefaultOutput      = "auto"
)

// ThresholdLimits mirrors the tunable QA limits in the config file.
// Zero values fall back to the built-in defaults.
type ThresholdLimits struct {
	DurationMajorHours   float64 `koanf:"duration_major_hours"`
	DurationMinorHours   float64 `koanf:"duration_minor_hours"`
	HPCTinyTimestepS     float64 `koanf:"hpc_tiny_timestep_s"`
	HPCMaxTimestepFactor float64 `koanf:"hpc_max_timestep_factor"`
	CourantWaveSpeedMS   float64 `koanf:"courant_wave_speed_ms"`
	CourantMajor         float64 `koanf:"courant_major"`
	CourantMinor         float64 `koanf:"courant_minor"`
	MaxOutputsMajor      int     `koanf:"max_outputs_major"`
	MinOutputsMinor      int     `koanf:"min_outputs_minor"`
}

// Config is the fully resolved CLI configuration.
type Config struct {
	// SolverExe is the solver binary used for test runs.
	SolverExe string `koanf:"solver_exe"`

	// HistoryPath is the validation history database location.
	HistoryPath string `koanf:"history_path"`

	// Placeholders maps placeholder names to values. Keys may be
	// written with or without tildes ("~e1~" or "e1"); the loader
	// normalizes them to bare names, which is what substitution
	// looks up.
	Placeholders map[string]string `koanf:"placeholders"`

	// Thresholds overrides individual QA limits.
	Thresholds ThresholdLimits `koanf:"thresholds"`

	Output  string `koanf:"output"`
	Verbose bool   `koanf:"verbose"`
	Debug   bool   `koanf:"debug"`
}

// QAThresholds converts the configured overrides into a threshold set,
// keeping the built-in default for every zero-valued field.
func (c *Config) QAThresholds() qa.Thresholds {
	th := qa.DefaultThresholds()
	o := c.Thresholds
	if o.DurationMajorHours > 0 {
		th.MaxDurationHoursMajor = o.DurationMajorHours
	}
	if o.DurationMinorHours > 0 {
		th.MaxDurationHoursMinor = o.DurationMinorHours
	}
	if o.HPCTinyTimestepS > 0 {
		th.MinHPCTimestepTinyS = o.HPCTinyTimestepS
	}
	if o.HPCMaxTimestepFactor > 0 {
		th.HPCDtMaxFactor = o.HPCMaxTimestepFactor
	}
	if o.CourantWaveSpeedMS > 0 {
		th.CourantWaveSpeedMS = o.CourantWaveSpeedMS
	}
	if o.CourantMajor > 0 {
		th.CourantMajor = o.CourantMajor
	}
	if o.CourantMinor > 0 {
		th.CourantMinor = o.CourantMinor
	}
	if o.MaxOutputsMajor > 0 {
		th.MaxOutputsMajor = float64(o.MaxOutputsMajor)
	}
	if o.MinOutputsMinor > 0 {
		th.MinOutputsMinor = float64(o.MinOutputsMinor)
	}
	return th
}
