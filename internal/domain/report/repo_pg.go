package report

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type archiveRepoPG struct{ pool *pgxpool.Pool }

func NewArchiveRepoPG(pool *pgxpool.Pool) ArchiveRepository {
	return &archiveRepoPG{pool: pool}
}

// EnsureSchema creates the analysis archive table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS report_analysis (
			id         UUID PRIMARY KEY,
			file_name  TEXT NOT NULL,
			metrics    JSONB NOT NULL,
			diagnosis  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

const analysisCols = `id, file_name, metrics, diagnosis, created_at`

func (r *archiveRepoPG) scan(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var metrics []byte
	if err := row.Scan(&a.ID, &a.FileName, &metrics, &a.Diagnosis, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metrics, &a.Metrics); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *archiveRepoPG) Save(ctx context.Context, a *Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	metrics, err := json.Marshal(a.Metrics)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO report_analysis (id, file_name, metrics, diagnosis)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		a.ID, a.FileName, metrics, a.Diagnosis).Scan(&a.CreatedAt)
}

func (r *archiveRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+analysisCols+` FROM report_analysis WHERE id = $1`, id))
}

func (r *archiveRepoPG) List(ctx context.Context, limit, offset int) ([]*Analysis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM report_analysis`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+analysisCols+` FROM report_analysis
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Analysis
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
