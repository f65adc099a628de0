package services

import (
	"context"
	"errors"

	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"github.com/wheeldeal/wheeldeal-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password; login
// never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService defines the interface for merchant staff authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.StaffUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles merchant staff registration and login
type AuthServiceImpl struct {
	staffRepo repositories.StaffRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(staffRepo repositories.StaffRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		staffRepo: staffRepo,
		cfg:       cfg,
	}
}

// Register creates a merchant staff account
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.StaffUser, error) {
	_, err := s.staffRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, errors.New("an account with this email already exists")
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}
	staff := &models.StaffUser{
		Email:      req.Email,
		Password:   string(hashed),
		MerchantID: req.MerchantID,
		Role:       role,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	staff.Password = ""
	return staff, nil
}

// Login verifies credentials and returns a JWT carrying the staff merchant id
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(staff.ID.Hex(), staff.MerchantID, staff.Role, s.cfg)
}
