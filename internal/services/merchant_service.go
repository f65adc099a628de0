package services

import (
	"context"
	"log/slog"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MerchantService defines the interface for merchant directory operations
type MerchantService interface {
	CreateMerchant(ctx context.Context, merchant *models.Merchant) error
	GetMerchantByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error)
	GetAllMerchants(ctx context.Context) ([]*models.Merchant, error)
	UpdateMerchant(ctx context.Context, merchant *models.Merchant) error
}

// Compile-time check to ensure MerchantServiceImpl implements MerchantService
var _ MerchantService = (*MerchantServiceImpl)(nil)

// MerchantServiceImpl handles merchant directory business logic
type MerchantServiceImpl struct {
	merchantRepo repositories.MerchantRepository
}

// NewMerchantService creates a new MerchantServiceImpl
func NewMerchantService(merchantRepo repositories.MerchantRepository) *MerchantServiceImpl {
	return &MerchantServiceImpl{merchantRepo: merchantRepo}
}

// CreateMerchant validates the wheel configuration and stores the merchant
func (s *MerchantServiceImpl) CreateMerchant(ctx context.Context, merchant *models.Merchant) error {
	if err := validateWheel(merchant.Wheel); err != nil {
		return err
	}
	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		slog.Error("Failed to create merchant", "error", err, "name", merchant.Name)
		return err
	}
	slog.Info("Merchant created", "merchantId", merchant.ID.Hex(), "name", merchant.Name)
	return nil
}

// GetMerchantByID retrieves a merchant
func (s *MerchantServiceImpl) GetMerchantByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	return s.merchantRepo.FindByID(ctx, id)
}

// GetAllMerchants lists every merchant
func (s *MerchantServiceImpl) GetAllMerchants(ctx context.Context) ([]*models.Merchant, error) {
	return s.merchantRepo.FindAll(ctx)
}

// UpdateMerchant validates the wheel configuration and updates the merchant
func (s *MerchantServiceImpl) UpdateMerchant(ctx context.Context, merchant *models.Merchant) error {
	if err := validateWheel(merchant.Wheel); err != nil {
		return err
	}
	return s.merchantRepo.Update(ctx, merchant)
}

// validateWheel rejects configurations the selector could never draw from,
// before they reach storage.
func validateWheel(options []models.WheelOption) error {
	total := 0
	for _, opt := range options {
		if opt.Weight < 0 {
			return models.ErrInvalidWheel
		}
		total += opt.Weight
	}
	if total <= 0 {
		return models.ErrInvalidWheel
	}
	return nil
}
