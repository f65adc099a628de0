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
)

// StaffRepository implements the repositories.StaffRepository interface
type StaffRepository struct {
	collection *mongo.Collection
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *mongo.Database) repositories.StaffRepository {
	return &StaffRepository{
		collection: db.Collection("staff"),
	}
}

// Create creates a new staff account
func (r *StaffRepository) Create(ctx context.Context, staff *models.StaffUser) error {
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	staff.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail finds a staff account by email
func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return &staff, nil
}
