package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"video2quiz/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS job_history (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	source_ref TEXT NOT NULL,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL,
	transcript TEXT,
	question_sets TEXT,
	failure_reason TEXT,
	created_at TIMESTAMP NOT NULL,
	archived_at TIMESTAMP NOT NULL
);`

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (and if necessary initializes) the history database.
func NewSQLiteDB(dbFilePath string) *SQLiteDB {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		log.Fatalf("Failed to create job_history table: %v\n", err)
	}
	return &SQLiteDB{db: db}
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB) *SQLiteDB {
	return &SQLiteDB{db: db}
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) Record(job *model.Job) error {
	transcript, err := json.Marshal(job.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript failed: %w", err)
	}
	questionSets, err := json.Marshal(job.QuestionSets)
	if err != nil {
		return fmt.Errorf("marshal question sets failed: %w", err)
	}

	insertSQL := `INSERT OR REPLACE INTO job_history
		(id, file_name, source_ref, status, progress, transcript, question_sets, failure_reason, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err = sdb.db.Exec(insertSQL,
		job.ID, job.FileName, job.SourceRef, string(job.Status), job.Progress,
		string(transcript), string(questionSets), job.FailureReason, job.CreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("insert job history failed: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetByID(id string) (*model.Job, error) {
	query := `SELECT id, file_name, source_ref, status, progress, transcript, question_sets, failure_reason, created_at
		FROM job_history WHERE id = ?`
	row := sdb.db.QueryRow(query, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s not archived", id)
	}
	return job, err
}

func (sdb *SQLiteDB) ListRecent(limit int) ([]model.Job, error) {
	sqlStr := `
		SELECT id, file_name, source_ref, status, progress, transcript, question_sets, failure_reason, created_at
		FROM job_history
		ORDER BY archived_at DESC
		LIMIT ?;`
	rows, err := sdb.db.Query(sqlStr, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job          model.Job
		status       string
		transcript   string
		questionSets string
	)
	err := row.Scan(&job.ID, &job.FileName, &job.SourceRef, &status, &job.Progress,
		&transcript, &questionSets, &job.FailureReason, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = model.JobStatus(status)
	if transcript != "" {
		if err := json.Unmarshal([]byte(transcript), &job.Transcript); err != nil {
			return nil, fmt.Errorf("unmarshal transcript failed: %w", err)
		}
	}
	if questionSets != "" {
		if err := json.Unmarshal([]byte(questionSets), &job.QuestionSets); err != nil {
			return nil, fmt.Errorf("unmarshal question sets failed: %w", err)
		}
	}
	return &job, nil
}
