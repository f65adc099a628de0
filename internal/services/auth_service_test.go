package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeldeal/wheeldeal-backend/internal/config"
	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories/memory"
	"github.com/wheeldeal/wheeldeal-backend/internal/utils"
)

func newAuthService() (*AuthServiceImpl, *config.Config) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(memory.NewStore().Staff(), cfg), cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, cfg := newAuthService()
	ctx := context.Background()

	staff, err := svc.Register(ctx, &models.RegisterRequest{
		Email:      "clerk@cafe.example",
		Password:   "hunter22",
		MerchantID: "merchant-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", staff.Role)
	assert.Empty(t, staff.Password, "hash must not leak out of Register")

	token, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "clerk@cafe.example",
		Password: "hunter22",
	})
	require.NoError(t, err)

	claims, err := utils.ValidateJWT(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "merchant-1", claims["merchantId"])
	assert.Equal(t, staff.ID.Hex(), claims["sub"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	req := &models.RegisterRequest{Email: "clerk@cafe.example", Password: "hunter22", MerchantID: "merchant-1"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegisterRequest{
		Email:      "clerk@cafe.example",
		Password:   "hunter22",
		MerchantID: "merchant-1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "clerk@cafe.example", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@cafe.example", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestInvalidTokenRejected(t *testing.T) {
	_, cfg := newAuthService()

	_, err := utils.ValidateJWT("not-a-token", cfg)
	assert.Error(t, err)

	other := &config.Config{}
	other.JWT.Secret = "different-secret"
	other.JWT.ExpiresIn = 3600
	token, err := utils.GenerateJWT("id", "merchant-1", "staff", other)
	require.NoError(t, err)

	_, err = utils.ValidateJWT(token, cfg)
	assert.Error(t, err)
}
