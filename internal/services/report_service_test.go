package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories/memory"
	"github.com/wheeldeal/wheeldeal-backend/internal/wheel"
)

func TestSummaryReflectsIssuedSpins(t *testing.T) {
	store := memory.NewStore()
	selector := wheel.NewSelector(rand.NewSource(1))
	spinSvc := NewSpinService(store, store, store, store, selector, 10, 7, time.UTC)
	reports := NewReportService(store, store, 2.5, 0.7, time.UTC)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := spinSvc.IssueSpin(ctx, "user-1", "merchant-1", "Sticker")
		require.NoError(t, err)
	}
	_, err := spinSvc.IssueSpin(ctx, "user-2", "merchant-1", "Sticker")
	require.NoError(t, err)

	day := models.DayKey(time.Now(), time.UTC)
	summary, err := reports.Summary(ctx, "merchant-1", []string{day})
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.TotalSpins)
	require.Len(t, summary.Days, 1)
	assert.Equal(t, int64(5), summary.Days[0].Spins)
	assert.InDelta(t, 12.5, summary.EstimatedRevenue, 1e-9)
	assert.InDelta(t, 8.75, summary.EstimatedPayout, 1e-9)

	userCounts, err := reports.UserCounts(ctx, "user-1", "merchant-1", []string{day})
	require.NoError(t, err)
	assert.Equal(t, int64(4), userCounts[day])

	spins, err := reports.TodaySpins(ctx, "merchant-1")
	require.NoError(t, err)
	assert.Len(t, spins, 5)
}

func TestSummaryDefaultsToTodayAndZeroFills(t *testing.T) {
	store := memory.NewStore()
	reports := NewReportService(store, store, 1.0, 0.7, time.UTC)

	summary, err := reports.Summary(context.Background(), "merchant-1", nil)
	require.NoError(t, err)
	require.Len(t, summary.Days, 1)
	assert.Equal(t, models.DayKey(time.Now(), time.UTC), summary.Days[0].DayKey)
	assert.Zero(t, summary.TotalSpins)
	assert.Zero(t, summary.EstimatedRevenue)
}
