package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/pkg/control"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildLogStem(t *testing.T) {
	stem := BuildLogStem(`C:\models\run_~e1~_~s1~.tcf`, map[string]string{
		"e1": "100yr",
		"s1": "exg",
	})
	assert.Equal(t, "run_100yr_exg", stem)

	// Unmapped placeholders stay verbatim in the stem.
	assert.Equal(t, "run_~e1~", BuildLogStem("/m/run_~e1~.tcf", nil))
}

func TestFindLogFolder_DirectiveInRootWins(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	tgc := filepath.Join(dir, "model.tgc")
	writeFile(t, root, "Log Folder == logs\nGeometry Control File == model.tgc\n")
	writeFile(t, tgc, "Log Folder == other_logs\n")

	graph := control.NewResolver(nil, nil).Resolve(root)

	got := FindLogFolder(root, nil, graph)
	assert.Equal(t, filepath.Join(dir, "logs"), got)
}

func TestFindLogFolder_FallsBackToOtherControlFiles(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	tgc := filepath.Join(dir, "sub", "model.tgc")
	writeFile(t, root, "Geometry Control File == sub/model.tgc\n")
	writeFile(t, tgc, "Log Folder == logs\n")

	graph := control.NewResolver(nil, nil).Resolve(root)

	got := FindLogFolder(root, nil, graph)
	assert.Equal(t, filepath.Join(dir, "sub", "logs"), got)
}

func TestFindLogFolder_DefaultsToRootDir(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "Timestep == 2.5\n")

	graph := control.NewResolver(nil, nil).Resolve(root)

	assert.Equal(t, dir, FindLogFolder(root, nil, graph))
}

func TestFindRunLogs(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "run_~e1~.tcf")
	writeFile(t, root, "Log Folder == logs\n")
	writeFile(t, filepath.Join(dir, "logs", "run_100yr.tlf"), "Running TUFLOW\n")
	writeFile(t, filepath.Join(dir, "logs", "run_100yr_messages.csv"), "")

	logs := FindRunLogs(root, map[string]string{"e1": "100yr"}, nil)

	assert.Equal(t, filepath.Join(dir, "logs"), logs.Dir)
	assert.Equal(t, filepath.Join(dir, "logs", "run_100yr.tlf"), logs.TLF)
	assert.Empty(t, logs.HpcTLF)
	assert.Equal(t, filepath.Join(dir, "logs", "run_100yr_messages.csv"), logs.MessagesCSV)
}
