// Package memory holds an in-memory implementation of the repository
// interfaces. It backs the test suite and local runs without a MongoDB
// replica set; a single mutex gives it the same atomicity the MongoDB
// transaction provides.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
	"github.com/wheeldeal/wheeldeal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds all state in memory behind one mutex.
type Store struct {
	mu           sync.Mutex
	quotas       map[string]*models.Quota
	spinsByCode  map[string]*models.Spin
	merchantAggs map[string]*models.DailyAggregate
	userAggs     map[string]*models.UserDailyAggregate
	merchants    map[primitive.ObjectID]*models.Merchant
	staffByEmail map[string]*models.StaffUser
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		quotas:       make(map[string]*models.Quota),
		spinsByCode:  make(map[string]*models.Spin),
		merchantAggs: make(map[string]*models.DailyAggregate),
		userAggs:     make(map[string]*models.UserDailyAggregate),
		merchants:    make(map[primitive.ObjectID]*models.Merchant),
		staffByEmail: make(map[string]*models.StaffUser),
	}
}

// Issue implements repositories.SpinIssuer. The mutex spans the whole unit,
// so quota decrement, ledger insert and aggregate increments are indivisible.
func (s *Store) Issue(ctx context.Context, spin *models.Spin, dailyLimit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.spinsByCode[spin.Code]; exists {
		return 0, repositories.ErrDuplicateCode
	}

	quotaID := models.QuotaID(spin.UserID, spin.MerchantID, spin.DayKey)
	quota, ok := s.quotas[quotaID]
	if !ok {
		quota = &models.Quota{
			ID:         quotaID,
			UserID:     spin.UserID,
			MerchantID: spin.MerchantID,
			DayKey:     spin.DayKey,
			Remaining:  dailyLimit,
			CreatedAt:  spin.CreatedAt,
		}
		s.quotas[quotaID] = quota
	}
	if quota.Remaining <= 0 {
		return 0, models.ErrQuotaExceeded
	}
	quota.Remaining--
	quota.UpdatedAt = spin.CreatedAt

	copied := *spin
	copied.ID = primitive.NewObjectID()
	spin.ID = copied.ID
	s.spinsByCode[copied.Code] = &copied

	mid := models.MerchantDayID(spin.MerchantID, spin.DayKey)
	magg, ok := s.merchantAggs[mid]
	if !ok {
		magg = &models.DailyAggregate{ID: mid, MerchantID: spin.MerchantID, DayKey: spin.DayKey}
		s.merchantAggs[mid] = magg
	}
	magg.SpinsCount++
	magg.UpdatedAt = spin.CreatedAt

	uid := models.UserMerchantDayID(spin.UserID, spin.MerchantID, spin.DayKey)
	uagg, ok := s.userAggs[uid]
	if !ok {
		uagg = &models.UserDailyAggregate{ID: uid, UserID: spin.UserID, MerchantID: spin.MerchantID, DayKey: spin.DayKey}
		s.userAggs[uid] = uagg
	}
	uagg.SpinsCount++
	uagg.UpdatedAt = spin.CreatedAt

	return quota.Remaining, nil
}

// FindByCode implements repositories.SpinRepository
func (s *Store) FindByCode(ctx context.Context, code string) (*models.Spin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spin, ok := s.spinsByCode[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *spin
	return &copied, nil
}

// Redeem implements repositories.SpinRepository
func (s *Store) Redeem(ctx context.Context, code string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spin, ok := s.spinsByCode[code]
	if !ok || spin.Status != models.SpinStatusIssued {
		return false, nil
	}
	spin.Status = models.SpinStatusRedeemed
	spin.RedeemedAt = at
	return true, nil
}

// FindByMerchantAndDay implements repositories.SpinRepository
func (s *Store) FindByMerchantAndDay(ctx context.Context, merchantID, dayKey string) ([]*models.Spin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spins := []*models.Spin{}
	for _, spin := range s.spinsByCode {
		if spin.MerchantID == merchantID && spin.DayKey == dayKey {
			copied := *spin
			spins = append(spins, &copied)
		}
	}
	return spins, nil
}

// Remaining implements repositories.QuotaRepository
func (s *Store) Remaining(ctx context.Context, userID, merchantID, dayKey string, dailyLimit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quota, ok := s.quotas[models.QuotaID(userID, merchantID, dayKey)]
	if !ok {
		return dailyLimit, nil
	}
	return quota.Remaining, nil
}

// MerchantCounts implements repositories.AggregateRepository
func (s *Store) MerchantCounts(ctx context.Context, merchantID string, dayKeys []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(dayKeys))
	for _, day := range dayKeys {
		counts[day] = 0
		if agg, ok := s.merchantAggs[models.MerchantDayID(merchantID, day)]; ok {
			counts[day] = agg.SpinsCount
		}
	}
	return counts, nil
}

// UserMerchantCounts implements repositories.AggregateRepository
func (s *Store) UserMerchantCounts(ctx context.Context, userID, merchantID string, dayKeys []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(dayKeys))
	for _, day := range dayKeys {
		counts[day] = 0
		if agg, ok := s.userAggs[models.UserMerchantDayID(userID, merchantID, day)]; ok {
			counts[day] = agg.SpinsCount
		}
	}
	return counts, nil
}

// Create implements repositories.MerchantRepository
func (s *Store) Create(ctx context.Context, merchant *models.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merchant.ID = primitive.NewObjectID()
	merchant.CreatedAt = time.Now()
	merchant.UpdatedAt = merchant.CreatedAt
	copied := *merchant
	s.merchants[merchant.ID] = &copied
	return nil
}

// FindByID implements repositories.MerchantRepository
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merchant, ok := s.merchants[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *merchant
	return &copied, nil
}

// FindAll implements repositories.MerchantRepository
func (s *Store) FindAll(ctx context.Context) ([]*models.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merchants := []*models.Merchant{}
	for _, merchant := range s.merchants {
		copied := *merchant
		merchants = append(merchants, &copied)
	}
	return merchants, nil
}

// Update implements repositories.MerchantRepository
func (s *Store) Update(ctx context.Context, merchant *models.Merchant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.merchants[merchant.ID]; !ok {
		return models.ErrNotFound
	}
	merchant.UpdatedAt = time.Now()
	copied := *merchant
	s.merchants[merchant.ID] = &copied
	return nil
}

// Staff exposes the Store as a repositories.StaffRepository. The adapter is
// needed because the merchant repository already claims the Create name.
func (s *Store) Staff() repositories.StaffRepository {
	return staffView{s}
}

type staffView struct {
	s *Store
}

func (v staffView) Create(ctx context.Context, staff *models.StaffUser) error {
	return v.s.CreateStaff(ctx, staff)
}

func (v staffView) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	return v.s.FindByEmail(ctx, email)
}

// CreateStaff stores a staff account
func (s *Store) CreateStaff(ctx context.Context, staff *models.StaffUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staff.ID = primitive.NewObjectID()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	copied := *staff
	s.staffByEmail[staff.Email] = &copied
	return nil
}

// FindByEmail implements repositories.StaffRepository
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staff, ok := s.staffByEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *staff
	return &copied, nil
}
