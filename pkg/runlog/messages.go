package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Status codes used in the message file's second column.
const (
	statusError   = 1
	statusWarning = 2
	statusCheck   = 3
)

// MessageSummary tallies the machine-readable message file. A missing
// file yields the zero summary: no messages is indistinguishable from
// no file at this layer.
type MessageSummary struct {
	ErrorCount   int      `json:"error_count" yaml:"error_count"`
	WarningCount int      `json:"warning_count" yaml:"warning_count"`
	CheckCount   int      `json:"check_count" yaml:"check_count"`
	ErrorLines   []string `json:"error_lines,omitempty" yaml:"error_lines,omitempty"`
	// CountsByNumber maps message number to occurrence count.
	CountsByNumber map[int]int `json:"counts_by_number,omitempty" yaml:"counts_by_number,omitempty"`
}

// SummarizeMessageLog parses the fixed-column message file at path:
// column 0 message number, column 1 status code, columns 2-3
// coordinates, column 4 text, column 5 optional reference link.
// Header rows and malformed rows are skipped, never fatal.
func SummarizeMessageLog(path string) (MessageSummary, error) {
	summary := MessageSummary{CountsByNumber: map[int]int{}}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return summary, nil
	}
	if err != nil {
		return summary, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or quoted-badly rows are data noise, not failures.
			continue
		}
		if len(row) < 6 {
			continue
		}

		msgNo, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			continue
		}

		summary.CountsByNumber[msgNo]++

		switch code {
		case statusError:
			summary.ErrorCount++
			summary.ErrorLines = append(summary.ErrorLines, formatErrorLine(msgNo, row))
		case statusWarning:
			summary.WarningCount++
		case statusCheck:
			summary.CheckCount++
		}
	}

	return summary, nil
}

func formatErrorLine(msgNo int, row []string) string {
	x := strings.TrimSpace(row[2])
	y := strings.TrimSpace(row[3])
	text := strings.TrimSpace(row[4])
	link := strings.TrimSpace(row[5])

	if link != "" {
		return fmt.Sprintf("%d: %s (X=%s, Y=%s) [%s]", msgNo, text, x, y, link)
	}
	return fmt.Sprintf("%d: %s (X=%s, Y=%s)", msgNo, text, x, y)
}
