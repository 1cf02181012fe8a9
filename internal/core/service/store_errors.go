package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// logStoreError records a failed store call at the point of the user action.
// Not-found outcomes are expected and are not logged.
func logStoreError(log zerolog.Logger, store, op string, err error) {
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrProfileNotFound) {
		return
	}
	kind := "write"
	if errors.Is(err, domain.ErrRead) {
		kind = "read"
	}
	metrics.StoreErrorsTotal.WithLabelValues(store, kind).Inc()
	log.Error().Err(err).Str("store", store).Str("op", op).Msg("store call failed")
}

func publish(events ports.EventPublisher, ev domain.ChangeEvent) {
	if events == nil {
		return
	}
	events.Publish(ev)
}
