package mongodb

import (
	"context"
	"fmt"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AggregateRepository implements the repositories.AggregateRepository interface
type AggregateRepository struct {
	merchantAggs *mongo.Collection
	userAggs     *mongo.Collection
}

// NewAggregateRepository creates a new AggregateRepository
func NewAggregateRepository(db *mongo.Database) repositories.AggregateRepository {
	return &AggregateRepository{
		merchantAggs: db.Collection("daily_aggregates"),
		userAggs:     db.Collection("user_daily_aggregates"),
	}
}

// MerchantCounts returns the spin count per requested day key for a merchant.
// Days with no aggregate document are reported as 0.
func (r *AggregateRepository) MerchantCounts(ctx context.Context, merchantID string, dayKeys []string) (map[string]int64, error) {
	ids := make([]string, 0, len(dayKeys))
	for _, day := range dayKeys {
		ids = append(ids, models.MerchantDayID(merchantID, day))
	}

	counts := make(map[string]int64, len(dayKeys))
	for _, day := range dayKeys {
		counts[day] = 0
	}

	cursor, err := r.merchantAggs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var aggs []*models.DailyAggregate
	if err := cursor.All(ctx, &aggs); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	for _, agg := range aggs {
		counts[agg.DayKey] = agg.SpinsCount
	}
	return counts, nil
}

// UserMerchantCounts returns the per-user spin count per requested day key
func (r *AggregateRepository) UserMerchantCounts(ctx context.Context, userID, merchantID string, dayKeys []string) (map[string]int64, error) {
	ids := make([]string, 0, len(dayKeys))
	for _, day := range dayKeys {
		ids = append(ids, models.UserMerchantDayID(userID, merchantID, day))
	}

	counts := make(map[string]int64, len(dayKeys))
	for _, day := range dayKeys {
		counts[day] = 0
	}

	cursor, err := r.userAggs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var aggs []*models.UserDailyAggregate
	if err := cursor.All(ctx, &aggs); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	for _, agg := range aggs {
		counts[agg.DayKey] = agg.SpinsCount
	}
	return counts, nil
}
