package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
)

// DaySummary is one dashboard row: spins and the display-only money figures
// derived from them. No money moves here.
type DaySummary struct {
	DayKey           string  `json:"dayKey"`
	Spins            int64   `json:"spins"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	EstimatedPayout  float64 `json:"estimatedPayout"`
}

// MerchantSummary is the dashboard response for a merchant
type MerchantSummary struct {
	MerchantID       string       `json:"merchantId"`
	Days             []DaySummary `json:"days"`
	TotalSpins       int64        `json:"totalSpins"`
	EstimatedRevenue float64      `json:"estimatedRevenue"`
	EstimatedPayout  float64      `json:"estimatedPayout"`
}

// ReportService defines the interface for dashboard reads
type ReportService interface {
	// Summary rolls up the given day keys for a merchant; with no day keys it
	// reports today.
	Summary(ctx context.Context, merchantID string, dayKeys []string) (*MerchantSummary, error)
	// UserCounts reports one user's spins at a merchant per day key.
	UserCounts(ctx context.Context, userID, merchantID string, dayKeys []string) (map[string]int64, error)
	// TodaySpins lists the spin records issued for a merchant today.
	TodaySpins(ctx context.Context, merchantID string) ([]*models.Spin, error)
}

// Compile-time check to ensure ReportServiceImpl implements ReportService
var _ ReportService = (*ReportServiceImpl)(nil)

// ReportServiceImpl reads the daily aggregates maintained by issuance
type ReportServiceImpl struct {
	aggRepo      repositories.AggregateRepository
	spinRepo     repositories.SpinRepository
	pricePerSpin float64
	payoutRate   float64
	loc          *time.Location
	now          func() time.Time
}

// NewReportService creates a new ReportServiceImpl
func NewReportService(aggRepo repositories.AggregateRepository, spinRepo repositories.SpinRepository, pricePerSpin, payoutRate float64, loc *time.Location) *ReportServiceImpl {
	return &ReportServiceImpl{
		aggRepo:      aggRepo,
		spinRepo:     spinRepo,
		pricePerSpin: pricePerSpin,
		payoutRate:   payoutRate,
		loc:          loc,
		now:          time.Now,
	}
}

// Summary rolls up spin counts and estimated revenue for a merchant
func (s *ReportServiceImpl) Summary(ctx context.Context, merchantID string, dayKeys []string) (*MerchantSummary, error) {
	if len(dayKeys) == 0 {
		dayKeys = []string{models.DayKey(s.now(), s.loc)}
	}

	counts, err := s.aggRepo.MerchantCounts(ctx, merchantID, dayKeys)
	if err != nil {
		slog.Error("Failed to read merchant aggregates", "error", err, "merchantId", merchantID)
		return nil, err
	}

	summary := &MerchantSummary{MerchantID: merchantID, Days: make([]DaySummary, 0, len(dayKeys))}
	for _, day := range dayKeys {
		spins := counts[day]
		revenue := float64(spins) * s.pricePerSpin
		summary.Days = append(summary.Days, DaySummary{
			DayKey:           day,
			Spins:            spins,
			EstimatedRevenue: revenue,
			EstimatedPayout:  revenue * s.payoutRate,
		})
		summary.TotalSpins += spins
	}
	summary.EstimatedRevenue = float64(summary.TotalSpins) * s.pricePerSpin
	summary.EstimatedPayout = summary.EstimatedRevenue * s.payoutRate
	return summary, nil
}

// UserCounts reports one user's spin counts at a merchant
func (s *ReportServiceImpl) UserCounts(ctx context.Context, userID, merchantID string, dayKeys []string) (map[string]int64, error) {
	if len(dayKeys) == 0 {
		dayKeys = []string{models.DayKey(s.now(), s.loc)}
	}
	return s.aggRepo.UserMerchantCounts(ctx, userID, merchantID, dayKeys)
}

// TodaySpins lists the spins issued for a merchant today
func (s *ReportServiceImpl) TodaySpins(ctx context.Context, merchantID string) ([]*models.Spin, error) {
	return s.spinRepo.FindByMerchantAndDay(ctx, merchantID, models.DayKey(s.now(), s.loc))
}
