package state

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates an unopened store. A nil logger discards.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path. Use ":memory:" for an in-memory
// store.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping history database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate runs all pending schema migrations.
func (s *SQLiteStore) Migrate() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// CreateRun records the start of a validation run for modelPath.
func (s *SQLiteStore) CreateRun(modelPath string) (*ValidationRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &ValidationRun{
		ID:        uuid.New().String(),
		ModelPath: modelPath,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("recording validation run", "id", run.ID, "model", modelPath)

	_, err := s.db.Exec(
		`INSERT INTO validation_runs (id, model_path, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.ModelPath, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create validation run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished, stores its severity tallies and
// persists the findings.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, issues []core.Issue, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	counts := core.CountBySeverity(issues)
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE validation_runs
		 SET status = ?, completed_at = ?, critical_count = ?, major_count = ?, minor_count = ?, error = ?
		 WHERE id = ?`,
		string(status), now,
		counts[core.SeverityCritical], counts[core.SeverityMajor], counts[core.SeverityMinor],
		nullable(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("complete validation run: %w", err)
	}

	for _, issue := range issues {
		_, err = tx.Exec(
			`INSERT INTO findings (run_id, issue_id, severity, category, message, file, line)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, issue.ID, issue.Severity.String(), issue.Category, issue.Message,
			nullable(issue.File), issue.Line,
		)
		if err != nil {
			return fmt.Errorf("record finding %s: %w", issue.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves one run by ID.
func (s *SQLiteStore) GetRun(id string) (*ValidationRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, model_path, status, started_at, completed_at,
		        critical_count, major_count, minor_count, error
		 FROM validation_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("validation run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get validation run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. An empty
// modelPath lists runs across all models.
func (s *SQLiteStore) ListRuns(modelPath string, limit int) ([]*ValidationRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT id, model_path, status, started_at, completed_at,
	                 critical_count, major_count, minor_count, error
	          FROM validation_runs`
	args := []any{}
	if modelPath != "" {
		query += ` WHERE model_path = ?`
		args = append(args, modelPath)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list validation runs: %w", err)
	}
	defer rows.Close()

	var runs []*ValidationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan validation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListFindings returns a run's persisted findings in insertion order.
func (s *SQLiteStore) ListFindings(runID string) ([]*Finding, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, issue_id, severity, category, message, file, line
		 FROM findings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var findings []*Finding
	for rows.Next() {
		f := &Finding{}
		var severity string
		var file sql.NullString
		if err := rows.Scan(&f.ID, &f.RunID, &f.IssueID, &severity, &f.Category, &f.Message, &file, &f.Line); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		if sev, ok := core.ParseSeverity(severity); ok {
			f.Severity = sev
		}
		f.File = file.String
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*ValidationRun, error) {
	run := &ValidationRun{}
	var status string
	var errMsg sql.NullString
	err := row.Scan(&run.ID, &run.ModelPath, &status, &run.StartedAt, &run.CompletedAt,
		&run.CriticalCount, &run.MajorCount, &run.MinorCount, &errMsg)
	if err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.Error = errMsg.String
	return run, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
