// Package memory holds in-process repositories used for local runs and
// tests. Data lives only as long as the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// HistoryRepository stores completion records in insertion order.
type HistoryRepository struct {
	mu      sync.RWMutex
	records []domain.CompletionRecord
	now     func() time.Time
}

// NewHistoryRepository uses now as the store clock; nil means time.Now.
func NewHistoryRepository(now func() time.Time) *HistoryRepository {
	if now == nil {
		now = time.Now
	}
	return &HistoryRepository{now: now}
}

func (r *HistoryRepository) Insert(_ context.Context, rec *domain.CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CompletedAt = r.now().UTC()
	r.records = append(r.records, *rec)
	return nil
}

func (r *HistoryRepository) QueryRange(_ context.Context, start, end time.Time) ([]domain.CompletionRecord, error) {
	out := []domain.CompletionRecord{}
	if !end.After(start) {
		return out, nil
	}

	r.mu.RLock()
	for _, rec := range r.records {
		if !rec.CompletedAt.Before(start) && rec.CompletedAt.Before(end) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out, nil
}

func (r *HistoryRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return nil
}
