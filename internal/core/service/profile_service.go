package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

type ProfileService struct {
	repo   ports.ProfileRepository
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, events ports.EventPublisher, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, events: events, log: log}
}

// Get returns domain.ErrProfileNotFound for a first-time user.
func (s *ProfileService) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if uid == "" {
		return nil, domain.ErrUnauthenticated
	}
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		logStoreError(s.log, "profile", "get", err)
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Set writes the display name, creating the profile on first use.
// Past completion records keep the name they were written with.
func (s *ProfileService) Set(ctx context.Context, uid, displayName string) (*domain.UserProfile, error) {
	if uid == "" {
		return nil, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", domain.ErrValidation)
	}

	p, err := s.repo.Upsert(ctx, uid, name)
	if err != nil {
		logStoreError(s.log, "profile", "upsert", err)
		return nil, fmt.Errorf("set profile: %w", err)
	}

	publish(s.events, domain.ChangeEvent{Type: domain.EventProfileChanged, UID: uid, At: time.Now().UTC()})
	return p, nil
}
