package ports

import (
	"context"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// TaxonomyRepository persists the shared category taxonomy.
type TaxonomyRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	// Create assigns c.ID.
	Create(ctx context.Context, c *domain.Category) error
	// Update replaces both fields; a vanished id yields domain.ErrNotFound.
	Update(ctx context.Context, c *domain.Category) error
	// Delete succeeds when the id is already absent.
	Delete(ctx context.Context, id string) error
}

// TaxonomyService validates input and forwards it to the repository.
// subCategories is the raw comma-separated form text.
type TaxonomyService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, mainCategory, subCategories string) (*domain.Category, error)
	Update(ctx context.Context, id, mainCategory, subCategories string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Choices(ctx context.Context) (domain.Choices, error)
}
