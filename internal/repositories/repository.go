package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicateCode is returned by SpinIssuer.Issue when the generated code
// already exists in the ledger. The caller generates a fresh code and retries
// the whole unit; nothing is committed on this error.
var ErrDuplicateCode = errors.New("redemption code already exists")

// SpinIssuer executes the spin issuance unit of work: quota check-and-decrement
// (lazily initialized to the daily limit), spin insert, and both daily
// aggregate increments, all-or-nothing.
//
// Issue returns the post-decrement remaining quota. It fails with
// models.ErrQuotaExceeded when the quota is exhausted, ErrDuplicateCode when
// spin.Code collides with an existing record, and wraps anything else in
// models.ErrStorageUnavailable. On every failure the store is left untouched.
type SpinIssuer interface {
	Issue(ctx context.Context, spin *models.Spin, dailyLimit int) (int, error)
}

// SpinRepository reads the spin ledger and performs the redemption transition.
type SpinRepository interface {
	// FindByCode looks up a spin by its normalized code. Fails with
	// models.ErrNotFound when no record exists.
	FindByCode(ctx context.Context, code string) (*models.Spin, error)
	// Redeem transitions the spin to REDEEMED, conditional on its status
	// still being ISSUED at write time. Returns false, without error, when
	// the condition did not hold (the caller re-observes and classifies).
	Redeem(ctx context.Context, code string, at time.Time) (bool, error)
	// FindByMerchantAndDay lists the spins issued for a merchant on a day,
	// newest first.
	FindByMerchantAndDay(ctx context.Context, merchantID, dayKey string) ([]*models.Spin, error)
}

// QuotaRepository reads quota records for reporting; only issuance mutates them.
type QuotaRepository interface {
	// Remaining returns the spins left for the key, or dailyLimit when no
	// record exists yet (lazy initialization happens at first issuance).
	Remaining(ctx context.Context, userID, merchantID, dayKey string, dailyLimit int) (int, error)
}

// AggregateRepository reads the daily roll-up counters.
type AggregateRepository interface {
	// MerchantCounts returns spinsCount per requested day key; days with no
	// spins are reported as 0.
	MerchantCounts(ctx context.Context, merchantID string, dayKeys []string) (map[string]int64, error)
	// UserMerchantCounts is the same roll-up additionally scoped to one user.
	UserMerchantCounts(ctx context.Context, userID, merchantID string, dayKeys []string) (map[string]int64, error)
}

// MerchantRepository defines the interface for merchant directory operations
type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error)
	FindAll(ctx context.Context) ([]*models.Merchant, error)
	Update(ctx context.Context, merchant *models.Merchant) error
}

// StaffRepository defines the interface for merchant staff account operations
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffUser) error
	FindByEmail(ctx context.Context, email string) (*models.StaffUser, error)
}
