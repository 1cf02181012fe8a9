package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

const collectionCatalog = "choresCatalog"

// TaxonomyRepository implements ports.TaxonomyRepository using MongoDB.
type TaxonomyRepository struct {
	col *mongo.Collection
}

func NewTaxonomyRepository(db *mongo.Database) *TaxonomyRepository {
	return &TaxonomyRepository{col: db.Collection(collectionCatalog)}
}

type categoryDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	MainCategory  string             `bson:"main_category"`
	SubCategories []string           `bson:"sub_categories"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d categoryDoc) toDomain() domain.Category {
	subs := d.SubCategories
	if subs == nil {
		subs = []string{}
	}
	return domain.Category{
		ID:            d.ID.Hex(),
		MainCategory:  d.MainCategory,
		SubCategories: subs,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// List returns every entry in natural (insertion) order.
func (r *TaxonomyRepository) List(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w: %w", domain.ErrRead, err)
	}

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w: %w", domain.ErrRead, err)
	}

	out := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *TaxonomyRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := categoryDoc{
		MainCategory:  c.MainCategory,
		SubCategories: c.SubCategories,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert category: %w: %w", domain.ErrWrite, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

// Update replaces both fields and reports domain.ErrNotFound when the entry
// is gone.
func (r *TaxonomyRepository) Update(ctx context.Context, c *domain.Category) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"main_category":  c.MainCategory,
		"sub_categories": c.SubCategories,
		"updated_at":     c.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc categoryDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update category: %w: %w", domain.ErrWrite, err)
	}
	*c = doc.toDomain()
	return nil
}

// Delete removes an entry; an absent id is not an error.
func (r *TaxonomyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete category: %w: %w", domain.ErrWrite, err)
	}
	return nil
}
