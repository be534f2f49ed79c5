package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// archiveRepoMem is the default archive; nothing survives a restart.
type archiveRepoMem struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Analysis
	order []uuid.UUID
}

func NewArchiveRepoMem() ArchiveRepository {
	return &archiveRepoMem{byID: make(map[uuid.UUID]*Analysis)}
}

func (r *archiveRepoMem) Save(_ context.Context, a *Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if _, exists := r.byID[a.ID]; !exists {
		r.order = append(r.order, a.ID)
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *archiveRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("analysis not found")
	}
	cp := *a
	return &cp, nil
}

func (r *archiveRepoMem) List(_ context.Context, limit, offset int) ([]*Analysis, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	// Newest first.
	var out []*Analysis
	for i := total - 1 - offset; i >= total-end; i-- {
		cp := *r.byID[r.order[i]]
		out = append(out, &cp)
	}
	return out, total, nil
}
