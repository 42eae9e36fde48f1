package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/solofunds/kyc-service/internal/core/domain"
)

const collectionUsers = "kyc_users"

// KYCRepository implements ports.KYCRepository on a single kyc_users
// collection. Evidence records are embedded in the user document so a level
// advance and its evidence append are one document write — Mongo guarantees
// single-document atomicity, which is exactly the compare-and-set unit the
// state machine requires. No multi-document transaction is needed.
type KYCRepository struct {
	col *mongo.Collection
}

func NewKYCRepository(db *mongo.Database) *KYCRepository {
	return &KYCRepository{col: db.Collection(collectionUsers)}
}

// EnsureUser upserts the user document and returns its current state.
// $setOnInsert keeps concurrent first contacts from racing into duplicate
// creation: both callers converge on the same document.
func (r *KYCRepository) EnsureUser(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"verification_level": int(domain.LevelUnverified),
		"created_at":         time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u domain.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByID retrieves a user with all embedded evidence.
func (r *KYCRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *KYCRepository) AdvanceWithBasicInfo(ctx context.Context, userID string, from domain.VerificationLevel, info domain.BasicInfo) error {
	return r.advance(ctx, userID, from, "basic_info", info)
}

func (r *KYCRepository) AdvanceWithDocument(ctx context.Context, userID string, from domain.VerificationLevel, doc domain.DocumentRecord) error {
	return r.advance(ctx, userID, from, "documents", doc)
}

func (r *KYCRepository) AdvanceWithSelfie(ctx context.Context, userID string, from domain.VerificationLevel, selfie domain.SelfieRecord) error {
	return r.advance(ctx, userID, from, "selfies", selfie)
}

// advance performs the compare-and-set: the filter matches only when the
// stored level still equals from, so under concurrent attempts at most one
// write matches and all others see ErrStaleLevel.
func (r *KYCRepository) advance(ctx context.Context, userID string, from domain.VerificationLevel, field string, record any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": userID, "verification_level": int(from)}
	update := bson.M{
		"$set":  bson.M{"verification_level": int(from) + 1},
		"$push": bson.M{field: record},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrStaleLevel
	}
	return nil
}

// EnsureIndexes creates the indexes used by operational queries.
func (r *KYCRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "verification_level", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
