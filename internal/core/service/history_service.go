package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// HistoryService records and lists chore completions.
//
// Delete does not check ownership. Whether a record may be deleted by the
// caller is decided by the screen (CompletionRecord.OwnedBy).
type HistoryService struct {
	repo   ports.HistoryRepository
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewHistoryService(repo ports.HistoryRepository, events ports.EventPublisher, log zerolog.Logger) *HistoryService {
	return &HistoryService{repo: repo, events: events, log: log}
}

// Record inserts a completion; the store assigns id and completion time.
func (s *HistoryService) Record(ctx context.Context, title, assignedTo, assignedToUID string) (*domain.CompletionRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if assignedToUID == "" {
		return nil, fmt.Errorf("%w: assigned_to_uid is required", domain.ErrValidation)
	}

	rec := &domain.CompletionRecord{
		Title:         title,
		AssignedTo:    assignedTo,
		AssignedToUID: assignedToUID,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		logStoreError(s.log, "history", "insert", err)
		return nil, fmt.Errorf("record chore: %w", err)
	}

	metrics.ChoresRecordedTotal.Inc()
	s.log.Info().
		Str("id", rec.ID).
		Str("title", rec.Title).
		Str("uid", rec.AssignedToUID).
		Msg("chore recorded")

	publish(s.events, domain.ChangeEvent{
		Type:     domain.EventHistoryCreated,
		UID:      rec.AssignedToUID,
		EntityID: rec.ID,
		At:       rec.CompletedAt,
	})
	return rec, nil
}

// Range returns the records of w in ascending completion order.
func (s *HistoryService) Range(ctx context.Context, w domain.Window) ([]domain.CompletionRecord, error) {
	recs, err := s.repo.QueryRange(ctx, w.Start(), w.End())
	if err != nil {
		logStoreError(s.log, "history", "query_range", err)
		return nil, fmt.Errorf("query history %s: %w", w.Label(), err)
	}
	return recs, nil
}

// Delete removes a record. An absent id is not an error.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		logStoreError(s.log, "history", "delete", err)
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	publish(s.events, domain.ChangeEvent{Type: domain.EventHistoryDeleted, EntityID: id, At: time.Now().UTC()})
	return nil
}
