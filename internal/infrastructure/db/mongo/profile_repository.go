package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

const collectionUsers = "users"

// ProfileRepository stores one document per uid in the users collection.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionUsers)}
}

type profileDoc struct {
	UID         string    `bson:"_id"`
	DisplayName string    `bson:"display_name"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d profileDoc) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		UID:         d.UID,
		DisplayName: d.DisplayName,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *ProfileRepository) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w: %w", domain.ErrRead, err)
	}
	return doc.toDomain(), nil
}

// Upsert merges display_name into the user document, creating it if needed.
func (r *ProfileRepository) Upsert(ctx context.Context, uid, displayName string) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"display_name": displayName, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc profileDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": uid}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert profile: %w: %w", domain.ErrWrite, err)
	}
	return doc.toDomain(), nil
}
