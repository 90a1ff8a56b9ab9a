package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/internal/state"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// buildModel creates a minimal two-file model and returns the root.
func buildModel(t *testing.T) string {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "Geometry Control File == model.tgc\n"+
		"BC Database == bc_dbase.csv\n")
	writeFile(t, filepath.Join(dir, "model.tgc"), "Read GIS == model.gpkg | 2d_code\n")
	writeFile(t, filepath.Join(dir, "bc_dbase.csv"), "name,source\n")
	writeFile(t, filepath.Join(dir, "model.gpkg"), "")
	return root
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func issueIDs(issues []core.Issue) []string {
	ids := make([]string, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
	}
	return ids
}

func TestCheck_StaticScanOnly(t *testing.T) {
	root := buildModel(t)
	e := newEngine(t, Config{})

	res, err := e.Check(context.Background(), root)
	require.NoError(t, err)

	// No run logs exist: the rule battery must stay quiet and the
	// scan must carry the model contents.
	assert.Empty(t, res.Issues)
	require.NotNil(t, res.Scan)
	assert.Len(t, res.Scan.Graph.Files(), 2)
	assert.NotEmpty(t, res.Scan.Inputs)
	assert.Empty(t, res.Logs.TLF)
}

func TestCheck_MissingControlFileSurfacesAsIssue(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "Geometry Control File == missing.tgc\n")

	e := newEngine(t, Config{})
	res, err := e.Check(context.Background(), root)
	require.NoError(t, err)

	assert.Contains(t, issueIDs(res.Issues), "CT001_CONTROL_FILE_MISSING")
}

func TestCheck_WithRunLogsEvaluatesRules(t *testing.T) {
	root := buildModel(t)
	dir := filepath.Dir(root)

	// Negative duration run log next to the root.
	writeFile(t, filepath.Join(dir, "model.tlf"),
		"Running TUFLOW\n"+
			"2D Solution Scheme == Classic\n"+
			"Start Time (h) == 5.\n"+
			"End Time (h) == 2.\n")

	e := newEngine(t, Config{})
	res, err := e.Check(context.Background(), root)
	require.NoError(t, err)

	require.NotNil(t, res.Run)
	assert.Contains(t, issueIDs(res.Issues), "TIME12")
}

func TestCheck_CancelledBetweenStages(t *testing.T) {
	root := buildModel(t)
	e := newEngine(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Check(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RequiresSolverExe(t *testing.T) {
	e := newEngine(t, Config{})

	_, err := e.Run(context.Background(), buildModel(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver executable")
}

func TestCheck_RecordsHistory(t *testing.T) {
	root := buildModel(t)
	historyPath := filepath.Join(t.TempDir(), "history.db")

	e := newEngine(t, Config{HistoryPath: historyPath})

	res, err := e.Check(context.Background(), root)
	require.NoError(t, err)
	require.NotEmpty(t, res.HistoryID)

	run, err := e.History().GetRun(res.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, state.RunStatusCompleted, run.Status)
	assert.Equal(t, root, run.ModelPath)
}

func TestCheckAll_IndependentRoots(t *testing.T) {
	rootA := buildModel(t)
	rootB := buildModel(t)

	e := newEngine(t, Config{})
	results, err := e.CheckAll(context.Background(), []string{rootA, rootB}, 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	got := []string{results[0].Root, results[1].Root}
	assert.ElementsMatch(t, []string{rootA, rootB}, got)
	assert.LessOrEqual(t, results[0].Root, results[1].Root)
}
