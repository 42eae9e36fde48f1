package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

const collectionAudit = "kyc_audit"

// AuditRepository persists step-attempt outcomes to the kyc_audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// Insert appends one audit entry.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":     entry.UserID,
		"step":        entry.Step,
		"outcome":     entry.Outcome,
		"timestamp":   entry.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if entry.Detail != "" {
		doc["detail"] = entry.Detail
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// ListByUser returns the most recent entries for a user, newest first.
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]domain.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureIndexes creates the per-user lookup index on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
