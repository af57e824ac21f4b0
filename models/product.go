package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID      primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	ImageURL      string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductUpdate carries the vendor-editable fields. Nil means leave as is.
// Stock edits go through here too; order-driven stock changes never do.
type ProductUpdate struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	StockQuantity *int     `json:"stockQuantity" binding:"omitempty,gte=0"`
	ImageURL      *string  `json:"imageUrl"`
}

// ProductFilter selects products for the public catalog listing.
type ProductFilter struct {
	Status   string
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	VendorID *primitive.ObjectID
	Limit    int64
}
