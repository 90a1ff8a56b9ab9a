package qa

import (
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/hydrostack-labs/tuflowqa/pkg/runlog"
)

// Inputs bundles the summaries a rule can consume. Run and Hpc are
// nil when the corresponding log was absent; Messages is always
// present (a missing message file tallies to zero).
type Inputs struct {
	Run      *runlog.RunSummary
	Hpc      *runlog.HpcSummary
	Messages runlog.MessageSummary
	// MessagesPath locates the message file for issue attribution.
	MessagesPath string
}

// CheckFunc evaluates one rule against the summaries. Implementations
// are pure and total: no I/O, no panics, empty result when the needed
// data is absent.
type CheckFunc func(in Inputs, th Thresholds) []core.Issue

// RuleDef is one entry of the rule battery.
type RuleDef struct {
	ID          string
	Description string
	Check       CheckFunc
}

// Engine evaluates a fixed rule battery against run summaries. Each
// Engine owns its rule list and thresholds; there is no process-wide
// rule registry, so tests can build engines with a reduced battery
// without leaking state.
type Engine struct {
	thresholds Thresholds
	rules      []RuleDef
}

// NewEngine builds an engine with the full battery and the given
// thresholds.
func NewEngine(th Thresholds) *Engine {
	return &Engine{
		thresholds: th,
		rules:      append(timeAndTimestepRules(), parameterSanityRules()...),
	}
}

// NewEngineWithRules builds an engine with an explicit rule list.
func NewEngineWithRules(th Thresholds, rules []RuleDef) *Engine {
	return &Engine{thresholds: th, rules: rules}
}

// Rules returns the battery in evaluation order.
func (e *Engine) Rules() []RuleDef {
	out := make([]RuleDef, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate runs every rule and concatenates the findings in battery
// order.
func (e *Engine) Evaluate(in Inputs) []core.Issue {
	var issues []core.Issue
	for _, rule := range e.rules {
		issues = append(issues, rule.Check(in, e.thresholds)...)
	}
	return issues
}

// RunTimeAndTimestepChecks evaluates the run-success, time-window,
// output-cadence, scheme-consistency and timestep rules with default
// thresholds.
func RunTimeAndTimestepChecks(run *runlog.RunSummary, hpc *runlog.HpcSummary, messages runlog.MessageSummary) []core.Issue {
	engine := NewEngineWithRules(DefaultThresholds(), timeAndTimestepRules())
	return engine.Evaluate(Inputs{Run: run, Hpc: hpc, Messages: messages})
}

// RunParameterSanityChecks evaluates the roughness, soil-loss and
// hardware rules with default thresholds.
func RunParameterSanityChecks(run *runlog.RunSummary, hpc *runlog.HpcSummary) []core.Issue {
	engine := NewEngineWithRules(DefaultThresholds(), parameterSanityRules())
	return engine.Evaluate(Inputs{Run: run, Hpc: hpc})
}
