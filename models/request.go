package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusQuoted marks a request that has at least one vendor quote but no
// customer decision yet.
const StatusQuoted = "quoted"

type Quote struct {
	VendorID   primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	VendorName string             `bson:"vendorName" json:"vendorName"`
	Amount     float64            `bson:"amount" json:"amount"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Request is a customer's ask for a custom item not in the catalog.
type Request struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ProductName     string             `bson:"productName" json:"productName"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	PreferredVendor string             `bson:"preferredVendor,omitempty" json:"preferredVendor,omitempty"`
	Status          string             `bson:"status" json:"status"`
	AssignedVendor  primitive.ObjectID `bson:"assignedVendor,omitempty" json:"assignedVendor,omitempty"`
	Quotes          []Quote            `bson:"quotes,omitempty" json:"quotes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
