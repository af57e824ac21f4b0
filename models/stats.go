package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminStats backs the admin dashboard counters.
type AdminStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalVendors  int64   `json:"totalVendors"`
	TotalProducts int64   `json:"totalProducts"`
	TotalOrders   int64   `json:"totalOrders"`
	Revenue       float64 `json:"revenue"`
}

// VendorStats backs a vendor's own dashboard: their catalog size, the orders
// containing their items, and delivered revenue over those items only.
type VendorStats struct {
	Products int64   `json:"products"`
	Orders   int64   `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

// VendorOverview is one row of the admin per-vendor report.
type VendorOverview struct {
	VendorID primitive.ObjectID `json:"vendorId" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Products int64              `json:"products" bson:"products"`
	Orders   int64              `json:"orders" bson:"orders"`
}

// RevenueBucket is one day of the delivered-revenue report.
type RevenueBucket struct {
	Date  string  `json:"date" bson:"_id"`
	Total float64 `json:"total" bson:"total"`
	Count int64   `json:"count" bson:"count"`
}
