package models

import (
	"fmt"
	"time"
)

// Quota tracks the spins a user has left for a merchant on a calendar day.
// Created lazily on the first spin attempt of the day, decremented by issuance,
// never deleted.
type Quota struct {
	ID         string    `bson:"_id" json:"id"` // QuotaID(userID, merchantID, dayKey)
	UserID     string    `bson:"userId" json:"userId"`
	MerchantID string    `bson:"merchantId" json:"merchantId"`
	DayKey     string    `bson:"dayKey" json:"dayKey"`
	Remaining  int       `bson:"remaining" json:"remaining"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// QuotaID builds the composite document key for a quota record.
func QuotaID(userID, merchantID, dayKey string) string {
	return fmt.Sprintf("%s|%s|%s", userID, merchantID, dayKey)
}

// DayKey formats a time as the calendar-day key used by quotas and aggregates.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
