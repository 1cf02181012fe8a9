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

// TaxonomyService manages the shared category taxonomy.
type TaxonomyService struct {
	repo   ports.TaxonomyRepository
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewTaxonomyService(repo ports.TaxonomyRepository, events ports.EventPublisher, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repo, events: events, log: log}
}

func (s *TaxonomyService) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		logStoreError(s.log, "taxonomy", "list", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Choices builds the picker options from the current taxonomy.
func (s *TaxonomyService) Choices(ctx context.Context) (domain.Choices, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return domain.Choices{}, err
	}
	return domain.BuildChoices(cats), nil
}

func (s *TaxonomyService) Create(ctx context.Context, mainCategory, subCategories string) (*domain.Category, error) {
	c, err := newCategory(mainCategory, subCategories)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := s.repo.Create(ctx, c); err != nil {
		logStoreError(s.log, "taxonomy", "create", err)
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info().Str("id", c.ID).Str("main_category", c.MainCategory).Msg("category created")
	publish(s.events, domain.ChangeEvent{Type: domain.EventTaxonomyChanged, EntityID: c.ID, At: now})
	return c, nil
}

// Update replaces both fields of an existing entry.
func (s *TaxonomyService) Update(ctx context.Context, id, mainCategory, subCategories string) (*domain.Category, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	c, err := newCategory(mainCategory, subCategories)
	if err != nil {
		return nil, err
	}
	c.ID = id
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		logStoreError(s.log, "taxonomy", "update", err)
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}

	publish(s.events, domain.ChangeEvent{Type: domain.EventTaxonomyChanged, EntityID: id, At: c.UpdatedAt})
	return c, nil
}

// Delete removes an entry. Deleting an absent id succeeds. Completion
// records that used the category are not touched.
func (s *TaxonomyService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logStoreError(s.log, "taxonomy", "delete", err)
		return fmt.Errorf("delete category %s: %w", id, err)
	}

	publish(s.events, domain.ChangeEvent{Type: domain.EventTaxonomyChanged, EntityID: id, At: time.Now().UTC()})
	return nil
}

func newCategory(mainCategory, subCategories string) (*domain.Category, error) {
	main := strings.TrimSpace(mainCategory)
	if main == "" {
		return nil, fmt.Errorf("%w: main category is required", domain.ErrValidation)
	}
	return &domain.Category{
		MainCategory:  main,
		SubCategories: domain.SplitSubCategories(subCategories),
	}, nil
}
