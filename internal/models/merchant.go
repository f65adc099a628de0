package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelOption is one slice of a merchant's prize wheel. Weight is relative:
// the chance of landing on an option is weight / total weight.
type WheelOption struct {
	Label  string `bson:"label" json:"label" binding:"required"`
	Weight int    `bson:"weight" json:"weight" binding:"min=0"`
}

// Merchant represents a participating merchant and its wheel configuration
type Merchant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	Wheel     []WheelOption      `bson:"wheel" json:"wheel"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
