package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleVendor || r == RoleAdmin
}

// Approval statuses shared by vendors, products and requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"password,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	BusinessName   string             `bson:"businessName,omitempty" json:"businessName,omitempty"`
	GSTNumber      string             `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	ApprovalStatus string             `bson:"approvalStatus,omitempty" json:"approvalStatus,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// Sanitize blanks the password hash before the user is written to a response.
func (u *User) Sanitize() *User {
	u.Password = ""
	return u
}

// UserUpdate carries the admin-editable user fields. Nil means leave as is.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"isActive"`
}
