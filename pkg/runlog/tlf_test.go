package runlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleTLF = `Input File == model.tcf
Start Time (h) == 0.
End Time (h) == 3.
2D Solution Scheme == HPC
Cell Size == 5.
ASC Map Output Interval (s) == 300.
Time Series Output Interval (s) == 60.

Material Values
#1 - Material 1:
   Fixed Manning's n = 0.030
#2 - Roads:
   Fixed Manning's n = 0.015

Soil Values
#1 - Soil 1:
   Soil Approach: Initial Loss/Continuing Loss
   Initial Loss = 10.0 mm
   Continuing Loss = 2.5 mm/hr

Running TUFLOW...
`

func TestSummarizeRunLog_Scalars(t *testing.T) {
	path := writeLog(t, "run.tlf", sampleTLF)

	s, err := SummarizeRunLog(path)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.True(t, s.HasRunningLine)
	assert.Equal(t, "HPC", s.SolutionScheme)
	require.NotNil(t, s.StartTimeH)
	require.NotNil(t, s.EndTimeH)
	require.NotNil(t, s.DurationH)
	assert.Equal(t, 0.0, *s.StartTimeH)
	assert.Equal(t, 3.0, *s.EndTimeH)
	assert.Equal(t, 3.0, *s.DurationH)
	require.NotNil(t, s.MapOutputIntervalS)
	assert.Equal(t, 300.0, *s.MapOutputIntervalS)
	require.NotNil(t, s.TSOutputIntervalS)
	assert.Equal(t, 60.0, *s.TSOutputIntervalS)
	require.NotNil(t, s.CellSizeM)
	assert.Equal(t, 5.0, *s.CellSizeM)
}

func TestSummarizeRunLog_MaterialAndSoilBlocks(t *testing.T) {
	path := writeLog(t, "run.tlf", sampleTLF)

	s, err := SummarizeRunLog(path)
	require.NoError(t, err)

	require.Len(t, s.Materials, 2)
	assert.Equal(t, 1, s.Materials[0].Index)
	assert.Equal(t, "Material 1", s.Materials[0].Name)
	require.NotNil(t, s.Materials[0].ManningN)
	assert.Equal(t, 0.030, *s.Materials[0].ManningN)
	assert.Equal(t, "Roads", s.Materials[1].Name)
	require.NotNil(t, s.Materials[1].ManningN)
	assert.Equal(t, 0.015, *s.Materials[1].ManningN)

	require.Len(t, s.Soils, 1)
	soil := s.Soils[0]
	assert.Equal(t, "Soil 1", soil.Name)
	assert.Equal(t, "Initial Loss/Continuing Loss", soil.Approach)
	require.NotNil(t, soil.InitialLossMm)
	assert.Equal(t, 10.0, *soil.InitialLossMm)
	require.NotNil(t, soil.ContinuingLossMmPerHr)
	assert.Equal(t, 2.5, *soil.ContinuingLossMmPerHr)
}

func TestParseBlockHeader_TrailingColons(t *testing.T) {
	idx, name := parseBlockHeader("#1 - Material 1:")
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Material 1", name)

	// Doubled-up colons are all stripped, not just the last one.
	idx, name = parseBlockHeader("#2 - Roads::")
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Roads", name)
}

func TestSummarizeRunLog_MalformedHeaderNeverFatal(t *testing.T) {
	path := writeLog(t, "run.tlf", "#Material Block Without Index:\n"+
		"   Fixed Manning's n = 0.1\n")

	s, err := SummarizeRunLog(path)
	require.NoError(t, err)

	require.Len(t, s.Materials, 1)
	assert.Equal(t, -1, s.Materials[0].Index)
	assert.Equal(t, "#Material Block Without Index:", s.Materials[0].Name)
	require.NotNil(t, s.Materials[0].ManningN)
}

func TestSummarizeRunLog_DurationNeverFromPartialData(t *testing.T) {
	path := writeLog(t, "run.tlf", "Start Time (h) == 0.\n")

	s, err := SummarizeRunLog(path)
	require.NoError(t, err)
	assert.NotNil(t, s.StartTimeH)
	assert.Nil(t, s.EndTimeH)
	assert.Nil(t, s.DurationH)
}

func TestSummarizeRunLog_MissingFileIsAbsent(t *testing.T) {
	s, err := SummarizeRunLog(filepath.Join(t.TempDir(), "nope.tlf"))
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSummarizeRunLog_ClassicTimestep(t *testing.T) {
	path := writeLog(t, "run.tlf", "2D Solution Scheme == Classic\n"+
		"Cell Size == 10.\n"+
		"Time Step (s) == 5.\n")

	s, err := SummarizeRunLog(path)
	require.NoError(t, err)
	require.NotNil(t, s.TimestepS)
	assert.Equal(t, 5.0, *s.TimestepS)
}
