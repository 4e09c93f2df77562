package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rxtract/internal/domain"
	"rxtract/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobStore.
func NewJobRepo(db *sqlx.DB) port.JobStore {
	return &jobRepo{db: db}
}

// jobRow maps the jobs table. The analysis result is stored as JSONB.
type jobRow struct {
	ID        uuid.UUID        `db:"id"`
	Status    domain.JobStatus `db:"status"`
	Result    []byte           `db:"result"`
	Error     sql.NullString   `db:"error"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	result, err := marshalResult(job.Result)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}

	query := `INSERT INTO jobs (id, status, result, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		job.ID, job.Status, result, nullString(job.Error), job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var row jobRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	return row.toDomain()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now().UTC()

	result, err := marshalResult(job.Result)
	if err != nil {
		return fmt.Errorf("jobRepo.Update: %w", err)
	}

	query := `UPDATE jobs SET status = $2, result = $3, error = $4, updated_at = $5
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		job.ID, job.Status, result, nullString(job.Error), job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (row *jobRow) toDomain() (*domain.Job, error) {
	job := &domain.Job{
		ID:        row.ID,
		Status:    row.Status,
		Error:     row.Error.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Result) > 0 {
		var result domain.AnalysisResult
		if err := json.Unmarshal(row.Result, &result); err != nil {
			return nil, fmt.Errorf("jobRepo: unmarshaling result: %w", err)
		}
		job.Result = &result
	}
	return job, nil
}

func marshalResult(result *domain.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
