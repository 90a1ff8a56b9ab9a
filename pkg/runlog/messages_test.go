package runlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMessages = `Message,Status,X,Y,Text,Link
2011,1,293444.5,6177222.0,ERROR 2011 - node missing,https://wiki.example.com/2011
2117,2,293000.0,6177000.0,WARNING 2117 - elevation adjusted,
2990,3,0.0,0.0,CHECK 2990 - written check layer,
2011,1,293500.0,6177300.0,ERROR 2011 - node missing,
not,a,data,row,at,all
`

func TestSummarizeMessageLog_Counts(t *testing.T) {
	path := writeLog(t, "run_messages.csv", sampleMessages)

	s, err := SummarizeMessageLog(path)
	require.NoError(t, err)

	assert.Equal(t, 2, s.ErrorCount)
	assert.Equal(t, 1, s.WarningCount)
	assert.Equal(t, 1, s.CheckCount)
	assert.Equal(t, map[int]int{2011: 2, 2117: 1, 2990: 1}, s.CountsByNumber)
}

func TestSummarizeMessageLog_ErrorLineFormatting(t *testing.T) {
	path := writeLog(t, "run_messages.csv", sampleMessages)

	s, err := SummarizeMessageLog(path)
	require.NoError(t, err)

	require.Len(t, s.ErrorLines, 2)
	assert.Equal(t,
		"2011: ERROR 2011 - node missing (X=293444.5, Y=6177222.0) [https://wiki.example.com/2011]",
		s.ErrorLines[0])
	// No link: the bracket suffix is omitted.
	assert.Equal(t,
		"2011: ERROR 2011 - node missing (X=293500.0, Y=6177300.0)",
		s.ErrorLines[1])
}

func TestSummarizeMessageLog_MissingFileIsZeroSummary(t *testing.T) {
	s, err := SummarizeMessageLog(filepath.Join(t.TempDir(), "nope_messages.csv"))
	require.NoError(t, err)

	assert.Zero(t, s.ErrorCount)
	assert.Zero(t, s.WarningCount)
	assert.Zero(t, s.CheckCount)
	assert.Empty(t, s.ErrorLines)
}

func TestSummarizeMessageLog_ShortRowsSkipped(t *testing.T) {
	path := writeLog(t, "run_messages.csv", "2011,1\n2011,1,1.0,2.0,text,\n")

	s, err := SummarizeMessageLog(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ErrorCount)
}
