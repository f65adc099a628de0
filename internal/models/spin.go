package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinStatus represents the lifecycle state of an issued spin
type SpinStatus string

const (
	SpinStatusIssued   SpinStatus = "ISSUED"
	SpinStatusRedeemed SpinStatus = "REDEEMED"
)

// Spin represents one issued reward: a code a user won on the wheel and a
// merchant later redeems in person. Created only by issuance, mutated exactly
// once by redemption, never deleted.
type Spin struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string             `bson:"userId" json:"userId"`
	MerchantID string             `bson:"merchantId" json:"merchantId"`
	PrizeLabel string             `bson:"prizeLabel" json:"prizeLabel"`
	Code       string             `bson:"code" json:"code"` // unique, format WD-XXXXXX
	Status     SpinStatus         `bson:"status" json:"status"`
	DayKey     string             `bson:"dayKey" json:"dayKey"` // YYYY-MM-DD in the configured timezone
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	RedeemedAt time.Time          `bson:"redeemedAt,omitempty" json:"redeemedAt,omitempty"`
}

// Expired reports whether the spin can no longer be redeemed at the given time.
// Expiry is judged from the stored timestamp at redemption time; nothing ever
// flips the status field in the background.
func (s *Spin) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
