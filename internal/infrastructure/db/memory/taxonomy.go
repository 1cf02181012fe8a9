package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// TaxonomyRepository keeps categories in creation order.
type TaxonomyRepository struct {
	mu   sync.RWMutex
	cats []domain.Category
}

// NewTaxonomyRepository returns a repository pre-filled with seed. Seed
// entries without an id get one.
func NewTaxonomyRepository(seed ...domain.Category) *TaxonomyRepository {
	r := &TaxonomyRepository{}
	for _, c := range seed {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		r.cats = append(r.cats, cloneCategory(c))
	}
	return r
}

func (r *TaxonomyRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.cats))
	for _, c := range r.cats {
		out = append(out, cloneCategory(c))
	}
	return out, nil
}

func (r *TaxonomyRepository) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	r.cats = append(r.cats, cloneCategory(*c))
	return nil
}

func (r *TaxonomyRepository) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.cats {
		if r.cats[i].ID == c.ID {
			c.CreatedAt = r.cats[i].CreatedAt
			r.cats[i] = cloneCategory(*c)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *TaxonomyRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.cats {
		if r.cats[i].ID == id {
			r.cats = append(r.cats[:i], r.cats[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneCategory(c domain.Category) domain.Category {
	c.SubCategories = append([]string(nil), c.SubCategories...)
	return c
}
