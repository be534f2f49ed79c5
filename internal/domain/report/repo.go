package report

import (
	"context"

	"github.com/google/uuid"
)

// ArchiveRepository stores completed analyses.
type ArchiveRepository interface {
	Save(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*Analysis, int, error)
}
