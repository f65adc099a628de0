package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MerchantRepository implements the repositories.MerchantRepository interface
type MerchantRepository struct {
	collection *mongo.Collection
}

// NewMerchantRepository creates a new MerchantRepository
func NewMerchantRepository(db *mongo.Database) repositories.MerchantRepository {
	return &MerchantRepository{
		collection: db.Collection("merchants"),
	}
}

// Create creates a new merchant
func (r *MerchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	merchant.CreatedAt = time.Now()
	merchant.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, merchant)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	merchant.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a merchant by ID
func (r *MerchantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&merchant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return &merchant, nil
}

// FindAll finds all merchants
func (r *MerchantRepository) FindAll(ctx context.Context) ([]*models.Merchant, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var merchants []*models.Merchant
	if err := cursor.All(ctx, &merchants); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	if merchants == nil {
		merchants = []*models.Merchant{}
	}
	return merchants, nil
}

// Update updates a merchant
func (r *MerchantRepository) Update(ctx context.Context, merchant *models.Merchant) error {
	merchant.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": merchant.ID}, merchant)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
