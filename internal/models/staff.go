package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffUser represents a merchant staff account used to redeem codes and view
// the dashboard. Separate from the spinning users, who are identified by the
// upstream identity provider.
type StaffUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"` // bcrypt hash, omitted from JSON
	MerchantID string             `bson:"merchantId" json:"merchantId"`
	Role       string             `bson:"role" json:"role"` // e.g. "owner", "staff"
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
