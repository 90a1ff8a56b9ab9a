// Package engine orchestrates the validation pipeline: graph
// resolution, input scanning, optional solver test runs, log
// extraction and rule evaluation. Stages run synchronously;
// cancellation is checked between stages, never inside one.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hydrostack-labs/tuflowqa/internal/runner"
	"github.com/hydrostack-labs/tuflowqa/internal/state"
	"github.com/hydrostack-labs/tuflowqa/pkg/control"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/hydrostack-labs/tuflowqa/pkg/qa"
	"github.com/hydrostack-labs/tuflowqa/pkg/runlog"
	"github.com/hydrostack-labs/tuflowqa/pkg/scan"
)

// Config holds engine configuration.
type Config struct {
	// Registry supplies directive and extension tables; nil selects
	// the defaults.
	Registry *control.Registry
	// Placeholders maps ~name~ tokens to values for this run.
	Placeholders map[string]string
	// Debug enables the per-token audit log during scans.
	Debug bool
	// Thresholds for the QA rule battery; zero value selects defaults.
	Thresholds *qa.Thresholds
	// SolverExe is the external solver executable; required only for
	// Run.
	SolverExe string
	// HistoryPath is the validation history database; empty disables
	// history recording.
	HistoryPath string
	// Logger is the structured logger (nil discards).
	Logger *slog.Logger
}

// Engine runs validation pipelines. Engines share no mutable state
// across Validate calls, so one engine can serve concurrent roots.
type Engine struct {
	registry     *control.Registry
	placeholders map[string]string
	debug        bool
	rules        *qa.Engine
	solverExe    string
	logger       *slog.Logger
	store        state.Store
}

// New creates an engine. The history store is opened and migrated
// eagerly when configured so a broken database surfaces here, not
// mid-validation.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := cfg.Registry
	if reg == nil {
		reg = control.DefaultRegistry()
	}

	th := qa.DefaultThresholds()
	if cfg.Thresholds != nil {
		th = *cfg.Thresholds
	}

	e := &Engine{
		registry:     reg,
		placeholders: cfg.Placeholders,
		debug:        cfg.Debug,
		rules:        qa.NewEngine(th),
		solverExe:    cfg.SolverExe,
		logger:       logger,
	}

	if cfg.HistoryPath != "" {
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.HistoryPath); err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		if err := store.Migrate(); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate history store: %w", err)
		}
		e.store = store
	}

	return e, nil
}

// History exposes the validation history store, nil when history is
// disabled.
func (e *Engine) History() state.Store {
	return e.store
}

// Close releases the history store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Result is the outcome of one validation pipeline.
type Result struct {
	Root string

	Scan *scan.Result

	Logs     runner.RunLogs
	Run      *runlog.RunSummary
	Hpc      *runlog.HpcSummary
	Messages runlog.MessageSummary

	Issues []core.Issue

	// HistoryID is the recorded run's ID when history is enabled.
	HistoryID string
}

// Counts tallies the result's issues per severity.
func (r *Result) Counts() map[core.Severity]int {
	return core.CountBySeverity(r.Issues)
}

// ResolveControlGraph resolves the include graph rooted at rootPath.
func (e *Engine) ResolveControlGraph(rootPath string) *control.ControlGraph {
	return control.NewResolver(e.registry, e.placeholders).Resolve(rootPath)
}

// ScanInputs resolves the graph and scans every file for input
// references.
func (e *Engine) ScanInputs(rootPath string) *scan.Result {
	return scan.NewScanner(scan.Options{
		Registry:     e.registry,
		Placeholders: e.placeholders,
		Debug:        e.debug,
		Logger:       e.logger,
	}).Scan(rootPath)
}

// ValidatePlaceholders applies the placeholder coverage policy to
// rootPath under this engine's placeholder values.
func (e *Engine) ValidatePlaceholders(rootPath string, runRequiresExecution, pathsMustBeBuilt bool) control.PlaceholderValidation {
	return control.ValidatePlaceholders(rootPath, e.placeholders, runRequiresExecution, pathsMustBeBuilt)
}

// Check runs the static pipeline: scan the model, pick up any
// existing run logs and evaluate the rule battery. The solver is not
// invoked.
func (e *Engine) Check(ctx context.Context, rootPath string) (*Result, error) {
	return e.validate(ctx, rootPath, false)
}

// Run executes the solver in test mode first, then analyses the logs
// it wrote. Requires SolverExe.
func (e *Engine) Run(ctx context.Context, rootPath string) (*Result, error) {
	if e.solverExe == "" {
		return nil, fmt.Errorf("no solver executable configured")
	}
	return e.validate(ctx, rootPath, true)
}

func (e *Engine) validate(ctx context.Context, rootPath string, execute bool) (*Result, error) {
	result := &Result{Root: rootPath}

	historyID, err := e.beginHistory(rootPath)
	if err != nil {
		return nil, err
	}
	result.HistoryID = historyID

	finish := func(res *Result, ferr error) (*Result, error) {
		e.endHistory(historyID, res, ferr)
		return res, ferr
	}

	// Stage 0: placeholder coverage.
	pv := e.ValidatePlaceholders(rootPath, execute, execute)
	if !pv.OKToProceed {
		return finish(result, fmt.Errorf("unresolved placeholders: %v", pv.Missing))
	}

	// Stage 1: graph + input scan.
	e.logger.Info("scanning model", "root", rootPath)
	result.Scan = e.ScanInputs(rootPath)
	result.Issues = append(result.Issues, result.Scan.Graph.Issues...)

	if err := ctx.Err(); err != nil {
		return finish(result, err)
	}

	// Stage 2: solver test run.
	if execute {
		e.logger.Info("starting solver test run", "root", rootPath)
		run, err := runner.New(e.solverExe, e.logger).TestRun(ctx, rootPath, e.placeholders)
		if err != nil {
			return finish(result, fmt.Errorf("solver test run: %w", err))
		}
		e.logger.Debug("solver test run finished", "exit_code", run.ExitCode)
	}

	if err := ctx.Err(); err != nil {
		return finish(result, err)
	}

	// Stage 3: log extraction.
	result.Logs = runner.FindRunLogs(rootPath, e.placeholders, result.Scan.Graph)
	if result.Logs.TLF != "" {
		if result.Run, err = runlog.SummarizeRunLog(result.Logs.TLF); err != nil {
			return finish(result, fmt.Errorf("summarize run log: %w", err))
		}
	}
	if result.Logs.HpcTLF != "" {
		if result.Hpc, err = runlog.SummarizeHpcLog(result.Logs.HpcTLF); err != nil {
			return finish(result, fmt.Errorf("summarize hardware log: %w", err))
		}
	}
	if result.Logs.MessagesCSV != "" {
		if result.Messages, err = runlog.SummarizeMessageLog(result.Logs.MessagesCSV); err != nil {
			return finish(result, fmt.Errorf("summarize message log: %w", err))
		}
	}

	if err := ctx.Err(); err != nil {
		return finish(result, err)
	}

	// Stage 4: rule battery. Skipped when nothing was run and no log
	// exists: a purely static scan should not report "run log absent".
	if execute || result.Logs.TLF != "" || result.Logs.MessagesCSV != "" {
		result.Issues = append(result.Issues, e.rules.Evaluate(qa.Inputs{
			Run:          result.Run,
			Hpc:          result.Hpc,
			Messages:     result.Messages,
			MessagesPath: result.Logs.MessagesCSV,
		})...)
	}

	return finish(result, nil)
}

func (e *Engine) beginHistory(rootPath string) (string, error) {
	if e.store == nil {
		return "", nil
	}
	run, err := e.store.CreateRun(rootPath)
	if err != nil {
		return "", fmt.Errorf("record validation run: %w", err)
	}
	return run.ID, nil
}

func (e *Engine) endHistory(id string, result *Result, ferr error) {
	if e.store == nil || id == "" {
		return
	}

	status := state.RunStatusCompleted
	errMsg := ""
	if ferr != nil {
		status = state.RunStatusFailed
		errMsg = ferr.Error()
	}
	if err := e.store.CompleteRun(id, status, result.Issues, errMsg); err != nil {
		e.logger.Warn("failed to record validation outcome", "id", id, "error", err)
	}
}
