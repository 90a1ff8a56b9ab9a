package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeModel lays out a minimal two-file model and returns the tcf path.
func writeModel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	tgc := filepath.Join(dir, "model.tgc")
	require.NoError(t, os.WriteFile(tgc, []byte("Cell Size == 5\n"), 0644))

	tcf := filepath.Join(dir, "model.tcf")
	content := "Geometry Control File == model.tgc\n"
	require.NoError(t, os.WriteFile(tcf, []byte(content), 0644))

	return tcf
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_ScanJSON(t *testing.T) {
	tcf := writeModel(t)

	out, err := execute(t, "scan", "--format", "json", "--history=", tcf)
	require.NoError(t, err)

	var report struct {
		Root   string   `json:"root"`
		Files  []string `json:"control_files"`
		Inputs []struct {
			Path string `json:"path"`
		} `json:"inputs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, tcf, report.Root)
	assert.Len(t, report.Files, 2)
}

func TestRootCmd_SetFlagSubstitutesPlaceholders(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dem_Q100.tif"), []byte("grid"), 0644))
	tcf := filepath.Join(dir, "model.tcf")
	require.NoError(t, os.WriteFile(tcf, []byte("Read Grid == dem_~e1~.tif\n"), 0644))

	// The flag value may carry tildes around the name.
	out, err := execute(t, "scan", "--format", "json", "-s", "~e1~=Q100", "--history=", tcf)
	require.NoError(t, err)

	var report struct {
		Inputs []struct {
			Path   string `json:"path"`
			Exists bool   `json:"exists"`
		} `json:"inputs"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	require.Len(t, report.Inputs, 1)
	assert.Equal(t, filepath.Join(dir, "dem_Q100.tif"), report.Inputs[0].Path)
	assert.True(t, report.Inputs[0].Exists)
	assert.Empty(t, report.Missing)
}

func TestRootCmd_CheckFailsOnMissingControlFile(t *testing.T) {
	dir := t.TempDir()
	tcf := filepath.Join(dir, "model.tcf")
	require.NoError(t, os.WriteFile(tcf, []byte("Geometry Control File == gone.tgc\n"), 0644))

	_, err := execute(t, "check", "--history=", tcf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestRootCmd_CheckPassesCleanModel(t *testing.T) {
	tcf := writeModel(t)

	out, err := execute(t, "check", "--history=", tcf)
	require.NoError(t, err)
	assert.Contains(t, out, "no issues found")
}

func TestRootCmd_TreeYAML(t *testing.T) {
	tcf := writeModel(t)

	out, err := execute(t, "tree", "--yaml", "--history=", tcf)
	require.NoError(t, err)
	assert.Contains(t, out, "Model Structure")
	assert.Contains(t, out, "model.tgc")
}

func TestRootCmd_SetFlagRejectsBadPair(t *testing.T) {
	tcf := writeModel(t)

	_, err := execute(t, "scan", "-s", "no-equals-sign", "--history=", tcf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --set")
}
