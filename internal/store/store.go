// Package store persists templates and grading runs to SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chen-albert-liang/grading-tool/internal/model"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		total_students INTEGER NOT NULL DEFAULT 0,
		average_score REAL NOT NULL DEFAULT 0,
		average_accuracy REAL NOT NULL DEFAULT 0,
		highest_score REAL NOT NULL DEFAULT 0,
		lowest_score REAL NOT NULL DEFAULT 0,
		max_score REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS student_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		total_score REAL NOT NULL DEFAULT 0,
		max_score REAL NOT NULL DEFAULT 0,
		accuracy REAL NOT NULL DEFAULT 0,
		detail TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveTemplate stores a template under the given name, replacing any
// previous version.
func (s *Store) SaveTemplate(name string, template *model.Template) error {
	body, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO templates (name, created_at, body) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET created_at = excluded.created_at, body = excluded.body`,
		name, time.Now().UTC(), string(body),
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// LoadTemplate loads a template by name.
func (s *Store) LoadTemplate(name string) (*model.Template, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM templates WHERE name = ?`, name).Scan(&body)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}
	template := model.NewTemplate()
	if err := json.Unmarshal([]byte(body), template); err != nil {
		return nil, fmt.Errorf("decode template %q: %w", name, err)
	}
	return template, nil
}

// SaveReport persists a cohort report as a new run and returns the run id.
func (s *Store) SaveReport(report *model.Report) (string, error) {
	runID := report.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sum := report.Summary
	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, total_students, average_score, average_accuracy,
		 highest_score, lowest_score, max_score) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, report.GeneratedAt, sum.TotalStudents, sum.AverageScore, sum.AverageAccuracy,
		sum.HighestScore, sum.LowestScore, sum.MaxScore,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, sr := range report.StudentResults {
		detail, err := json.Marshal(sr)
		if err != nil {
			return "", fmt.Errorf("encode student result: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO student_results (run_id, student_id, total_score, max_score, accuracy, detail)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, sr.StudentID, sr.TotalScore, sr.MaxScore, sr.Accuracy, string(detail),
		)
		if err != nil {
			return "", fmt.Errorf("insert student result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// RunSummary is one stored run's header row.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Summary   model.Summary
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, total_students, average_score, average_accuracy,
		 highest_score, lowest_score, max_score FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Summary.TotalStudents,
			&r.Summary.AverageScore, &r.Summary.AverageAccuracy,
			&r.Summary.HighestScore, &r.Summary.LowestScore, &r.Summary.MaxScore); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StudentResults returns the stored per-student details of a run.
func (s *Store) StudentResults(runID string) ([]model.StudentResult, error) {
	rows, err := s.db.Query(
		`SELECT detail FROM student_results WHERE run_id = ? ORDER BY student_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.StudentResult
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("scan student result: %w", err)
		}
		var sr model.StudentResult
		if err := json.Unmarshal([]byte(detail), &sr); err != nil {
			return nil, fmt.Errorf("decode student result: %w", err)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}
