// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User model represents a member of the portal
type User struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email            string             `json:"email" bson:"email"`
	Password         string             `json:"password,omitempty" bson:"password"`
	FullName         string             `json:"fullName" bson:"fullName"`
	SearchName       string             `json:"-" bson:"searchName"` // lowercase fullName, precomputed for search
	Role             string             `json:"role" bson:"role"`    // "user" or "admin"
	BdaID            string             `json:"bdaId" bson:"bdaId"`
	InvestmentPlanID string             `json:"investmentPlanId" bson:"investmentPlanId"`
	PlanAmount       float64            `json:"planAmount" bson:"planAmount"`
	ReferralID       string             `json:"referralId,omitempty" bson:"referralId,omitempty"` // referrer's bdaId or id
	Phone            string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address          *Address           `json:"address,omitempty" bson:"address,omitempty"`
	BankDetails      *BankDetails       `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	Nominee          *Nominee           `json:"nominee,omitempty" bson:"nominee,omitempty"`
	ProfilePic       string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	FirebaseUID      string             `json:"firebaseUid,omitempty" bson:"firebaseUid,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy        string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

// Address model
type Address struct {
	Line1   string `json:"line1,omitempty" bson:"line1,omitempty"`
	Line2   string `json:"line2,omitempty" bson:"line2,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode string `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

// BankDetails holds a member's payout account (opaque strings)
type BankDetails struct {
	AccountName   string `json:"accountName,omitempty" bson:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
	BankName      string `json:"bankName,omitempty" bson:"bankName,omitempty"`
	Branch        string `json:"branch,omitempty" bson:"branch,omitempty"`
}

// Nominee model
type Nominee struct {
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Relation string `json:"relation,omitempty" bson:"relation,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// CreateUserRequest is the admin-submitted payload for a new member
type CreateUserRequest struct {
	Email            string       `json:"email" validate:"required,email"`
	Password         string       `json:"password" validate:"required,min=6"`
	FullName         string       `json:"fullName" validate:"required"`
	Phone            string       `json:"phone,omitempty"`
	Role             string       `json:"role,omitempty"`
	InvestmentPlanID string       `json:"investmentPlanId" validate:"required"`
	ReferralID       string       `json:"referralId,omitempty"`
	Address          *Address     `json:"address,omitempty"`
	BankDetails      *BankDetails `json:"bankDetails,omitempty"`
	Nominee          *Nominee     `json:"nominee,omitempty"`
}

// UpdateUserRequest is a partial patch; nil fields are left untouched
type UpdateUserRequest struct {
	FullName         *string      `json:"fullName,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Role             *string      `json:"role,omitempty"`
	ProfilePic       *string      `json:"profilePic,omitempty"`
	InvestmentPlanID *string      `json:"investmentPlanId,omitempty"`
	ReferralID       *string      `json:"referralId,omitempty"`
	Address          *Address     `json:"address,omitempty"`
	BankDetails      *BankDetails `json:"bankDetails,omitempty"`
	Nominee          *Nominee     `json:"nominee,omitempty"`
}

// LoginRequest accepts either an email or a BDA id as identifier
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	BdaID    string `json:"bdaId,omitempty"`
	Password string `json:"password" validate:"required"`
}

// UserListData is the server-computed page of members
type UserListData struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// UsernameMapping links a BDA id to its member id for non-email login
type UsernameMapping struct {
	BdaID  string `json:"bdaId" bson:"_id"`
	UserID string `json:"userId" bson:"userId"`
}
