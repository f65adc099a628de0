package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssuanceRepository implements repositories.SpinIssuer on top of a MongoDB
// multi-document transaction. Requires a replica set; standalone servers do
// not support transactions.
type IssuanceRepository struct {
	client       *mongo.Client
	quotas       *mongo.Collection
	spins        *mongo.Collection
	merchantAggs *mongo.Collection
	userAggs     *mongo.Collection
}

// NewIssuanceRepository creates a new IssuanceRepository
func NewIssuanceRepository(client *mongo.Client, db *mongo.Database) repositories.SpinIssuer {
	return &IssuanceRepository{
		client:       client,
		quotas:       db.Collection("quotas"),
		spins:        db.Collection("spins"),
		merchantAggs: db.Collection("daily_aggregates"),
		userAggs:     db.Collection("user_daily_aggregates"),
	}
}

// Issue runs the whole issuance unit in one transaction: quota decrement with
// lazy initialization, spin insert, and both aggregate increments. Concurrent
// issuance for the same quota key conflicts on the quota document; the driver
// retries the transaction on transient write conflicts, so exactly one of two
// racing spins wins the last unit of quota.
func (r *IssuanceRepository) Issue(ctx context.Context, spin *models.Spin, dailyLimit int) (int, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	defer session.EndSession(ctx)

	quotaID := models.QuotaID(spin.UserID, spin.MerchantID, spin.DayKey)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Decrement the quota unconditionally, initializing an absent record
		// to the daily limit first. A pre-existing zero goes to -1 here; the
		// check below then aborts the transaction, which rolls the write back,
		// so a negative value is never visible outside this callback.
		update := bson.A{bson.M{"$set": bson.M{
			"remaining": bson.M{"$subtract": bson.A{
				bson.M{"$ifNull": bson.A{"$remaining", dailyLimit}},
				1,
			}},
			"userId":     spin.UserID,
			"merchantId": spin.MerchantID,
			"dayKey":     spin.DayKey,
			"createdAt":  bson.M{"$ifNull": bson.A{"$createdAt", spin.CreatedAt}},
			"updatedAt":  spin.CreatedAt,
		}}}
		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After)

		var quota models.Quota
		if err := r.quotas.FindOneAndUpdate(sc, bson.M{"_id": quotaID}, update, opts).Decode(&quota); err != nil {
			return nil, err
		}
		if quota.Remaining < 0 {
			return nil, models.ErrQuotaExceeded
		}

		if _, err := r.spins.InsertOne(sc, spin); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repositories.ErrDuplicateCode
			}
			return nil, err
		}

		_, err := r.merchantAggs.UpdateOne(sc,
			bson.M{"_id": models.MerchantDayID(spin.MerchantID, spin.DayKey)},
			bson.M{
				"$inc":         bson.M{"spinsCount": 1},
				"$set":         bson.M{"updatedAt": spin.CreatedAt},
				"$setOnInsert": bson.M{"merchantId": spin.MerchantID, "dayKey": spin.DayKey},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			return nil, err
		}

		_, err = r.userAggs.UpdateOne(sc,
			bson.M{"_id": models.UserMerchantDayID(spin.UserID, spin.MerchantID, spin.DayKey)},
			bson.M{
				"$inc": bson.M{"spinsCount": 1},
				"$set": bson.M{"updatedAt": spin.CreatedAt},
				"$setOnInsert": bson.M{
					"userId":     spin.UserID,
					"merchantId": spin.MerchantID,
					"dayKey":     spin.DayKey,
				},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			return nil, err
		}

		return quota.Remaining, nil
	})
	if err != nil {
		if errors.Is(err, models.ErrQuotaExceeded) || errors.Is(err, repositories.ErrDuplicateCode) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}

	return result.(int), nil
}
