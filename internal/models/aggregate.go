package models

import (
	"fmt"
	"time"
)

// DailyAggregate is a per-merchant-per-day spin counter used for reporting.
// It is incremented in the same transaction that creates the Spin record, so
// it never drifts from the true count.
type DailyAggregate struct {
	ID         string    `bson:"_id" json:"id"` // MerchantDayID(merchantID, dayKey)
	MerchantID string    `bson:"merchantId" json:"merchantId"`
	DayKey     string    `bson:"dayKey" json:"dayKey"`
	SpinsCount int64     `bson:"spinsCount" json:"spinsCount"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserDailyAggregate is the same counter additionally keyed by user, kept for
// per-user reporting.
type UserDailyAggregate struct {
	ID         string    `bson:"_id" json:"id"` // UserMerchantDayID(userID, merchantID, dayKey)
	UserID     string    `bson:"userId" json:"userId"`
	MerchantID string    `bson:"merchantId" json:"merchantId"`
	DayKey     string    `bson:"dayKey" json:"dayKey"`
	SpinsCount int64     `bson:"spinsCount" json:"spinsCount"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MerchantDayID builds the composite document key for a merchant daily aggregate.
func MerchantDayID(merchantID, dayKey string) string {
	return fmt.Sprintf("%s|%s", merchantID, dayKey)
}

// UserMerchantDayID builds the composite document key for a user+merchant daily aggregate.
func UserMerchantDayID(userID, merchantID, dayKey string) string {
	return fmt.Sprintf("%s|%s|%s", userID, merchantID, dayKey)
}
