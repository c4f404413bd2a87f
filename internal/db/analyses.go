package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-agent/internal/types"
)

// Analysis lifecycle statuses. RETRY_NEEDED marks an attempt that failed in a
// recoverable way; the worker reprocesses it before giving up.
const (
	StatusProcessing  = "PROCESSING"
	StatusCompleted   = "COMPLETED"
	StatusFailed      = "FAILED"
	StatusRetryNeeded = "RETRY_NEEDED"
)

// Analysis is one resume analysis record.
type Analysis struct {
	ID             uuid.UUID             `json:"id"`
	Status         string                `json:"status"`
	FileURL        string                `json:"file_url"`
	JobDescription string                `json:"job_description"`
	ResumeText     string                `json:"resume_text,omitempty"`
	Result         *types.AnalysisResult `json:"analysis_result,omitempty"`
	TotalScore     *int                  `json:"total_score,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// CreateAnalysis inserts a PROCESSING record. Resubmitting an existing id
// resets the record for a fresh run.
func (db *DB) CreateAnalysis(ctx context.Context, id uuid.UUID, fileURL, jobDescription string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_analyses (id, status, file_url, job_description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET status = $2, file_url = $3, job_description = $4,
		     resume_text = NULL, analysis_result = NULL, total_score = NULL,
		     updated_at = NOW()`,
		id, StatusProcessing, fileURL, jobDescription,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis %s: %w", id, err)
	}
	return nil
}

// UpdateStatus transitions an analysis to the given status.
func (db *DB) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resume_analyses SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update analysis %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}

// SaveResult stores a completed analysis with its extracted resume text.
func (db *DB) SaveResult(ctx context.Context, id uuid.UUID, resumeText string, analysisResult *types.AnalysisResult) error {
	jsonBytes, err := json.Marshal(analysisResult)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE resume_analyses
		 SET status = $1, resume_text = $2, analysis_result = $3, total_score = $4, updated_at = NOW()
		 WHERE id = $5`,
		StatusCompleted, resumeText, jsonBytes, analysisResult.TotalScore, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}

// GetAnalysis retrieves an analysis record by id. Returns nil, nil when no
// record exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var a Analysis
	var resumeText *string
	var resultBytes []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, status, file_url, job_description, resume_text, analysis_result, total_score, created_at, updated_at
		 FROM resume_analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Status, &a.FileURL, &a.JobDescription, &resumeText, &resultBytes, &a.TotalScore, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}

	if resumeText != nil {
		a.ResumeText = *resumeText
	}
	if len(resultBytes) > 0 {
		var parsed types.AnalysisResult
		if err := json.Unmarshal(resultBytes, &parsed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis result %s: %w", id, err)
		}
		a.Result = &parsed
	}

	return &a, nil
}

// ListAnalyses retrieves recent analyses, optionally filtered by status.
func (db *DB) ListAnalyses(ctx context.Context, status string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, status, file_url, job_description, total_score, created_at, updated_at
		FROM resume_analyses`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.Status, &a.FileURL, &a.JobDescription, &a.TotalScore, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}
