package ports

import (
	"context"
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// HistoryRepository persists completion records.
type HistoryRepository interface {
	// Insert assigns r.ID and r.CompletedAt from the store clock.
	Insert(ctx context.Context, r *domain.CompletionRecord) error
	// QueryRange returns records with CompletedAt in [start, end), ascending.
	QueryRange(ctx context.Context, start, end time.Time) ([]domain.CompletionRecord, error)
	// DeleteByID succeeds when the id is absent.
	DeleteByID(ctx context.Context, id string) error
}

// HistoryService is the use-case surface over HistoryRepository.
type HistoryService interface {
	Record(ctx context.Context, title, assignedTo, assignedToUID string) (*domain.CompletionRecord, error)
	Range(ctx context.Context, w domain.Window) ([]domain.CompletionRecord, error)
	Delete(ctx context.Context, id string) error
}
