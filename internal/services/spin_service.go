package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"github.com/wheeldeal/wheeldeal-backend/internal/wheel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxCodeAttempts bounds the collision-retry loop. With a 36^6 code space a
// second collision in a row already means something is wrong with the store.
const maxCodeAttempts = 5

// SpinResult is returned to the player after a successful spin
type SpinResult struct {
	Code       string    `json:"code"`
	PrizeLabel string    `json:"prizeLabel"`
	Remaining  int       `json:"remaining"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// RedemptionResult is returned to merchant staff after a successful redemption
type RedemptionResult struct {
	PrizeLabel string    `json:"prizeLabel"`
	MerchantID string    `json:"merchantId"`
	RedeemedAt time.Time `json:"redeemedAt"`
}

// SpinService defines the interface for spin issuance and redemption
type SpinService interface {
	// Spin loads the merchant's wheel, draws a prize and issues it in one call.
	Spin(ctx context.Context, userID, merchantID string) (*SpinResult, error)
	// IssueSpin issues an already-selected prize against the user's daily quota.
	//
	// On a storage fault with unknown outcome the caller must not blindly
	// retry: the previous attempt may have committed even though no code was
	// returned, and a retry would double-issue.
	IssueSpin(ctx context.Context, userID, merchantID, prizeLabel string) (*SpinResult, error)
	// RedeemByCode redeems a code exactly once on behalf of merchant staff.
	// A code belonging to another merchant reports models.ErrNotFound.
	RedeemByCode(ctx context.Context, merchantID, code string) (*RedemptionResult, error)
	// QuotaRemaining reports the spins the user has left for the merchant today.
	QuotaRemaining(ctx context.Context, userID, merchantID string) (int, error)
}

// Compile-time check to ensure SpinServiceImpl implements SpinService
var _ SpinService = (*SpinServiceImpl)(nil)

// SpinServiceImpl handles the spin issuance and redemption protocol
type SpinServiceImpl struct {
	issuer       repositories.SpinIssuer
	spinRepo     repositories.SpinRepository
	quotaRepo    repositories.QuotaRepository
	merchantRepo repositories.MerchantRepository
	selector     *wheel.Selector
	dailyLimit   int
	expiry       time.Duration
	loc          *time.Location
	now          func() time.Time
}

// NewSpinService creates a new SpinServiceImpl. The location decides which
// wall clock a "day" is measured on; the deployment sets it to the merchant
// market's timezone.
func NewSpinService(
	issuer repositories.SpinIssuer,
	spinRepo repositories.SpinRepository,
	quotaRepo repositories.QuotaRepository,
	merchantRepo repositories.MerchantRepository,
	selector *wheel.Selector,
	dailyLimit int,
	expiryDays int,
	loc *time.Location,
) *SpinServiceImpl {
	return &SpinServiceImpl{
		issuer:       issuer,
		spinRepo:     spinRepo,
		quotaRepo:    quotaRepo,
		merchantRepo: merchantRepo,
		selector:     selector,
		dailyLimit:   dailyLimit,
		expiry:       time.Duration(expiryDays) * 24 * time.Hour,
		loc:          loc,
		now:          time.Now,
	}
}

// Spin draws a prize from the merchant's wheel and issues it
func (s *SpinServiceImpl) Spin(ctx context.Context, userID, merchantID string) (*SpinResult, error) {
	oid, err := primitive.ObjectIDFromHex(merchantID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	merchant, err := s.merchantRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !merchant.Active {
		return nil, models.ErrNotFound
	}

	prizeLabel, err := s.selector.Pick(merchant.Wheel)
	if err != nil {
		slog.Error("Merchant wheel is not drawable", "merchantId", merchantID, "error", err)
		return nil, err
	}

	return s.IssueSpin(ctx, userID, merchantID, prizeLabel)
}

// IssueSpin consumes one unit of quota and records the issued reward. The
// whole unit (quota decrement, ledger insert, aggregate increments) commits
// atomically or not at all.
func (s *SpinServiceImpl) IssueSpin(ctx context.Context, userID, merchantID, prizeLabel string) (*SpinResult, error) {
	now := s.now()
	dayKey := models.DayKey(now, s.loc)

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := wheel.NewCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate redemption code: %w", err)
		}

		spin := &models.Spin{
			UserID:     userID,
			MerchantID: merchantID,
			PrizeLabel: prizeLabel,
			Code:       code,
			Status:     models.SpinStatusIssued,
			DayKey:     dayKey,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.expiry),
		}

		remaining, err := s.issuer.Issue(ctx, spin, s.dailyLimit)
		if errors.Is(err, repositories.ErrDuplicateCode) {
			slog.Warn("Redemption code collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			if !errors.Is(err, models.ErrQuotaExceeded) {
				slog.Error("Spin issuance failed", "error", err, "userId", userID, "merchantId", merchantID)
			}
			return nil, err
		}

		slog.Info("Spin issued", "merchantId", merchantID, "dayKey", dayKey, "prize", prizeLabel, "remaining", remaining)
		return &SpinResult{
			Code:       code,
			PrizeLabel: prizeLabel,
			Remaining:  remaining,
			ExpiresAt:  spin.ExpiresAt,
		}, nil
	}

	return nil, fmt.Errorf("%w: could not allocate a unique redemption code", models.ErrStorageUnavailable)
}

// RedeemByCode validates and redeems a code exactly once. merchantID scopes
// the lookup to the authenticated staff's merchant; pass "" to skip scoping.
func (s *SpinServiceImpl) RedeemByCode(ctx context.Context, merchantID, code string) (*RedemptionResult, error) {
	normalized := wheel.NormalizeCode(code)
	if normalized == "" {
		return nil, models.ErrNotFound
	}

	spin, err := s.spinRepo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	// A code issued by a different merchant looks nonexistent to this staff
	// member; checked before the write so the code is never consumed.
	if merchantID != "" && spin.MerchantID != merchantID {
		return nil, models.ErrNotFound
	}
	if spin.Status == models.SpinStatusRedeemed {
		return nil, models.ErrAlreadyRedeemed
	}

	now := s.now()
	if spin.Expired(now) {
		return nil, models.ErrExpired
	}

	ok, err := s.spinRepo.Redeem(ctx, normalized, now)
	if err != nil {
		slog.Error("Redemption write failed", "error", err, "code", normalized)
		return nil, err
	}
	if !ok {
		// Lost the race: a concurrent attempt flipped the status between our
		// read and the conditional write.
		return nil, models.ErrAlreadyRedeemed
	}

	slog.Info("Code redeemed", "merchantId", spin.MerchantID, "prize", spin.PrizeLabel)
	return &RedemptionResult{
		PrizeLabel: spin.PrizeLabel,
		MerchantID: spin.MerchantID,
		RedeemedAt: now,
	}, nil
}

// QuotaRemaining reports the spins left today for a (user, merchant) pair
func (s *SpinServiceImpl) QuotaRemaining(ctx context.Context, userID, merchantID string) (int, error) {
	dayKey := models.DayKey(s.now(), s.loc)
	return s.quotaRepo.Remaining(ctx, userID, merchantID, dayKey, s.dailyLimit)
}
