package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SpinRepository implements the repositories.SpinRepository interface
type SpinRepository struct {
	collection *mongo.Collection
}

// NewSpinRepository creates a new SpinRepository
func NewSpinRepository(db *mongo.Database) repositories.SpinRepository {
	return &SpinRepository{
		collection: db.Collection("spins"),
	}
}

// FindByCode finds a spin by its redemption code
func (r *SpinRepository) FindByCode(ctx context.Context, code string) (*models.Spin, error) {
	var spin models.Spin
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&spin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return &spin, nil
}

// Redeem flips the spin to REDEEMED if and only if it is still ISSUED at write
// time. A lost race shows up as ModifiedCount 0, not as an error.
func (r *SpinRepository) Redeem(ctx context.Context, code string, at time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code, "status": models.SpinStatusIssued},
		bson.M{"$set": bson.M{
			"status":     models.SpinStatusRedeemed,
			"redeemedAt": at,
		}})
	if err != nil {
		return false, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return res.ModifiedCount == 1, nil
}

// FindByMerchantAndDay finds the spins issued for a merchant on a day, newest first
func (r *SpinRepository) FindByMerchantAndDay(ctx context.Context, merchantID, dayKey string) ([]*models.Spin, error) {
	filter := bson.M{"merchantId": merchantID, "dayKey": dayKey}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var spins []*models.Spin
	if err := cursor.All(ctx, &spins); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	if spins == nil {
		spins = []*models.Spin{}
	}
	return spins, nil
}
