package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories/memory"
	"github.com/wheeldeal/wheeldeal-backend/internal/wheel"
)

func newSpinService(dailyLimit int) (*SpinServiceImpl, *memory.Store) {
	store := memory.NewStore()
	selector := wheel.NewSelector(rand.NewSource(1))
	svc := NewSpinService(store, store, store, store, selector, dailyLimit, 7, time.UTC)
	return svc, store
}

func TestIssueSpinConsumesQuotaInOrder(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	for _, want := range []int{2, 1, 0} {
		result, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
		require.NoError(t, err)
		assert.Equal(t, want, result.Remaining)
		assert.Regexp(t, `^WD-[A-Z0-9]{6}$`, result.Code)
	}

	_, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)
}

func TestQuotaExceededLeavesNoTrace(t *testing.T) {
	svc, store := newSpinService(3)
	ctx := context.Background()
	day := models.DayKey(svc.now(), time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
		require.NoError(t, err)
	}
	_, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
	require.ErrorIs(t, err, models.ErrQuotaExceeded)

	counts, err := store.MerchantCounts(ctx, "merchant-1", []string{day})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[day], "failed issuance must not bump the aggregate")

	spins, err := store.FindByMerchantAndDay(ctx, "merchant-1", day)
	require.NoError(t, err)
	assert.Len(t, spins, 3, "failed issuance must not create a spin record")

	remaining, err := svc.QuotaRemaining(ctx, "user-1", "merchant-1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestQuotaIsPerUserMerchantDay(t *testing.T) {
	svc, _ := newSpinService(1)
	ctx := context.Background()

	_, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
	require.NoError(t, err)
	_, err = svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
	require.ErrorIs(t, err, models.ErrQuotaExceeded)

	// A different merchant and a different user each have their own quota.
	_, err = svc.IssueSpin(ctx, "user-1", "merchant-2", "Sticker")
	assert.NoError(t, err)
	_, err = svc.IssueSpin(ctx, "user-2", "merchant-1", "Sticker")
	assert.NoError(t, err)

	// The next local day starts a fresh quota.
	svc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	_, err = svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
	assert.NoError(t, err)
}

func TestConcurrentIssuanceNeverOversells(t *testing.T) {
	const limit = 3
	const attempts = 20

	svc, store := newSpinService(limit)
	ctx := context.Background()
	day := models.DayKey(svc.now(), time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, exceeded := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, models.ErrQuotaExceeded):
			exceeded++
		}
	}
	assert.Equal(t, limit, successes)
	assert.Equal(t, attempts-limit, exceeded)

	counts, err := store.MerchantCounts(ctx, "merchant-1", []string{day})
	require.NoError(t, err)
	assert.Equal(t, int64(limit), counts[day], "aggregate must equal the success count exactly")

	userCounts, err := store.UserMerchantCounts(ctx, "user-1", "merchant-1", []string{day})
	require.NoError(t, err)
	assert.Equal(t, int64(limit), userCounts[day])
}

func TestRedeemRoundTrip(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	require.NoError(t, err)

	result, err := svc.RedeemByCode(ctx, "merchant-1", issued.Code)
	require.NoError(t, err)
	assert.Equal(t, "Free Coffee", result.PrizeLabel)
	assert.Equal(t, "merchant-1", result.MerchantID)
	assert.False(t, result.RedeemedAt.IsZero())

	_, err = svc.RedeemByCode(ctx, "merchant-1", issued.Code)
	assert.ErrorIs(t, err, models.ErrAlreadyRedeemed)
}

func TestRedeemNormalizesInput(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
	require.NoError(t, err)

	sloppy := "  " + strings.ToLower(issued.Code) + "  "
	result, err := svc.RedeemByCode(ctx, "merchant-1", sloppy)
	require.NoError(t, err)
	assert.Equal(t, "Sticker", result.PrizeLabel)
}

func TestRedeemUnknownCode(t *testing.T) {
	svc, _ := newSpinService(3)

	_, err := svc.RedeemByCode(context.Background(), "merchant-1", "WD-ZZZZZZ")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedeemExpiredCode(t *testing.T) {
	svc, store := newSpinService(3)
	ctx := context.Background()

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	require.NoError(t, err)

	// 8 days later the 7-day window has passed.
	svc.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	_, err = svc.RedeemByCode(ctx, "merchant-1", issued.Code)
	assert.ErrorIs(t, err, models.ErrExpired)

	// The failed attempt must not have flipped the status.
	spin, err := store.FindByCode(ctx, issued.Code)
	require.NoError(t, err)
	assert.Equal(t, models.SpinStatusIssued, spin.Status)
}

func TestRedeemJustBeforeExpiryStillWorks(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(7 * 24 * time.Hour) }
	_, err = svc.RedeemByCode(ctx, "merchant-1", issued.Code)
	assert.NoError(t, err, "expiry is strict: exactly 7 days is still redeemable")
}

func TestRedeemScopedToStaffMerchant(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	require.NoError(t, err)

	// Another merchant's staff sees nothing, and the code is not consumed.
	_, err = svc.RedeemByCode(ctx, "merchant-2", issued.Code)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.RedeemByCode(ctx, "merchant-1", issued.Code)
	assert.NoError(t, err)
}

func TestConcurrentRedemptionSingleWinner(t *testing.T) {
	svc, _ := newSpinService(3)
	ctx := context.Background()

	issued, err := svc.IssueSpin(ctx, "user-1", "merchant-1", "Free Coffee")
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RedeemByCode(ctx, "merchant-1", issued.Code)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, already := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, models.ErrAlreadyRedeemed):
			already++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent redemption may win")
	assert.Equal(t, attempts-1, already)
}

func TestSpinDrawsFromMerchantWheel(t *testing.T) {
	svc, store := newSpinService(3)
	ctx := context.Background()

	merchant := &models.Merchant{
		Name:   "Corner Cafe",
		Active: true,
		Wheel: []models.WheelOption{
			{Label: "Free Coffee", Weight: 1},
			{Label: "10% Off", Weight: 3},
		},
	}
	require.NoError(t, store.Create(ctx, merchant))

	result, err := svc.Spin(ctx, "user-1", merchant.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, []string{"Free Coffee", "10% Off"}, result.PrizeLabel)
	assert.Equal(t, 2, result.Remaining)
}

func TestSpinRejectsInactiveOrMissingMerchant(t *testing.T) {
	svc, store := newSpinService(3)
	ctx := context.Background()

	_, err := svc.Spin(ctx, "user-1", "not-a-hex-id")
	assert.ErrorIs(t, err, models.ErrNotFound)

	merchant := &models.Merchant{
		Name:   "Closed Shop",
		Active: false,
		Wheel:  []models.WheelOption{{Label: "Sticker", Weight: 1}},
	}
	require.NoError(t, store.Create(ctx, merchant))

	_, err = svc.Spin(ctx, "user-1", merchant.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSpinFailsOnUndrawableWheel(t *testing.T) {
	svc, store := newSpinService(3)
	ctx := context.Background()

	merchant := &models.Merchant{Name: "No Wheel", Active: true}
	require.NoError(t, store.Create(ctx, merchant))

	_, err := svc.Spin(ctx, "user-1", merchant.ID.Hex())
	assert.ErrorIs(t, err, models.ErrInvalidWheel)
}
