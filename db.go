package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS fill_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		facility         TEXT NOT NULL,
		template_path    TEXT NOT NULL,
		output_path      TEXT NOT NULL,
		total            INTEGER NOT NULL,
		success          INTEGER NOT NULL,
		suspicious       INTEGER NOT NULL,
		accuracy         REAL NOT NULL,
		data_correctness REAL NOT NULL,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_fill_runs_created_at ON fill_runs(created_at);

	CREATE TABLE IF NOT EXISTS fill_mappings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      INTEGER NOT NULL,
		placeholder TEXT NOT NULL,
		matched_key TEXT NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_fill_mappings_run ON fill_mappings(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

// SaveRun records a run's metrics and its accepted mappings in one
// transaction, returning the new run id.
func SaveRun(db *sql.DB, cfg Config, result FillResult) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO fill_runs (facility, template_path, output_path, total, success, suspicious, accuracy, data_correctness)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.FacilityName, cfg.TemplatePath, cfg.OutputPath,
		result.Metrics.Total, result.Metrics.Success, result.Metrics.Suspicious,
		result.Metrics.Accuracy(), result.Metrics.DataCorrectness(),
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`INSERT INTO fill_mappings (run_id, placeholder, matched_key) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, m := range result.Mappings {
		if _, err := stmt.Exec(runID, m.Placeholder, m.Key); err != nil {
			return 0, fmt.Errorf("inserting mapping %q: %w", m.Placeholder, err)
		}
	}

	return runID, tx.Commit()
}

// RunRecord is one row of run history.
type RunRecord struct {
	ID              int64
	Facility        string
	Total           int
	Success         int
	Suspicious      int
	Accuracy        float64
	DataCorrectness float64
	CreatedAt       time.Time
}

// LastRun returns the most recent run, or nil when the history is empty.
func LastRun(db *sql.DB) (*RunRecord, error) {
	row := db.QueryRow(
		`SELECT id, facility, total, success, suspicious, accuracy, data_correctness, created_at
		 FROM fill_runs ORDER BY id DESC LIMIT 1`)

	var rec RunRecord
	err := row.Scan(&rec.ID, &rec.Facility, &rec.Total, &rec.Success, &rec.Suspicious,
		&rec.Accuracy, &rec.DataCorrectness, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
