package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

const collectionHistory = "history"

// HistoryRepository implements ports.HistoryRepository using MongoDB.
type HistoryRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{col: db.Collection(collectionHistory), now: time.Now}
}

type historyDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	AssignedTo    string             `bson:"assigned_to"`
	AssignedToUID string             `bson:"assigned_to_uid"`
	CompletedAt   time.Time          `bson:"completed_at"`
}

func (d historyDoc) toDomain() domain.CompletionRecord {
	return domain.CompletionRecord{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		AssignedTo:    d.AssignedTo,
		AssignedToUID: d.AssignedToUID,
		CompletedAt:   d.CompletedAt.UTC(),
	}
}

// Insert stamps completed_at with the store clock. BSON dates carry
// milliseconds, so the stamp is truncated to keep the returned value equal
// to what is stored.
func (r *HistoryRepository) Insert(ctx context.Context, rec *domain.CompletionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := historyDoc{
		Title:         rec.Title,
		AssignedTo:    rec.AssignedTo,
		AssignedToUID: rec.AssignedToUID,
		CompletedAt:   r.now().UTC().Truncate(time.Millisecond),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert record: %w: %w", domain.ErrWrite, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	*rec = doc.toDomain()
	return nil
}

// QueryRange returns records with completed_at in [start, end), oldest first.
func (r *HistoryRepository) QueryRange(ctx context.Context, start, end time.Time) ([]domain.CompletionRecord, error) {
	out := []domain.CompletionRecord{}
	if !end.After(start) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, opts := rangeQuery(start, end)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query history: %w: %w", domain.ErrRead, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var d historyDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode record: %w: %w", domain.ErrRead, err)
		}
		out = append(out, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w: %w", domain.ErrRead, err)
	}
	return out, nil
}

// DeleteByID removes a record. Unknown and malformed ids are not errors.
func (r *HistoryRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete record: %w: %w", domain.ErrWrite, err)
	}
	return nil
}

// EnsureIndexes creates the completion time index used by range queries.
func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "completed_at", Value: 1}},
	})
	return err
}

func rangeQuery(start, end time.Time) (bson.M, *options.FindOptions) {
	filter := bson.M{"completed_at": bson.M{
		"$gte": start.UTC(),
		"$lt":  end.UTC(),
	}}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: 1}})
	return filter, opts
}
