package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuotaRepository implements the repositories.QuotaRepository interface
type QuotaRepository struct {
	collection *mongo.Collection
}

// NewQuotaRepository creates a new QuotaRepository
func NewQuotaRepository(db *mongo.Database) repositories.QuotaRepository {
	return &QuotaRepository{
		collection: db.Collection("quotas"),
	}
}

// Remaining returns the spins left for a (user, merchant, day) key. An absent
// record means the user has not spun today, so the full daily limit is left.
func (r *QuotaRepository) Remaining(ctx context.Context, userID, merchantID, dayKey string, dailyLimit int) (int, error) {
	var quota models.Quota
	id := models.QuotaID(userID, merchantID, dayKey)
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quota)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dailyLimit, nil
		}
		return 0, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return quota.Remaining, nil
}
