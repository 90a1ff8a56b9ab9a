// Package state persists validation history in SQLite: one row per
// validation run plus its findings, so repeat checks of a model can
// be compared over time.
package state

import (
	"time"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// RunStatus is the lifecycle state of a recorded validation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ValidationRun is one recorded validation of a model root.
type ValidationRun struct {
	ID          string
	ModelPath   string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time

	CriticalCount int
	MajorCount    int
	MinorCount    int

	Error string
}

// Finding is one persisted issue of a validation run.
type Finding struct {
	ID       int64
	RunID    string
	IssueID  string
	Severity core.Severity
	Category string
	Message  string
	File     string
	Line     int
}

// Store is the persistence interface for validation history.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun(modelPath string) (*ValidationRun, error)
	CompleteRun(id string, status RunStatus, issues []core.Issue, errMsg string) error
	GetRun(id string) (*ValidationRun, error)
	ListRuns(modelPath string, limit int) ([]*ValidationRun, error)
	ListFindings(runID string) ([]*Finding, error)
}
