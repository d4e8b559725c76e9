// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types
const (
	TransactionTypeReferral      = "Referral"
	TransactionTypeAssetPurchase = "assetPurchase"
	TransactionTypeAssetPayment  = "asset_payment"
)

// Referral transaction statuses
const (
	TxStatusPending  = "PENDING"
	TxStatusApproved = "Approved"
	TxStatusPaid     = "Paid"
)

// Referral commission sources. A member can earn two distinct commissions:
// one when a member they referred is created (on the plan amount) and one
// when that member books an asset (on the booking amount). The source field
// keeps the two apart.
const (
	ReferralSourceSignup  = "signup"
	ReferralSourceBooking = "booking"
)

// Transaction is the denormalized mirror row of a booking, payment or
// referral-commission event
type Transaction struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string             `json:"userId" bson:"userId"`
	Type               string             `json:"type" bson:"type"`
	Amount             float64            `json:"amount" bson:"amount"`
	Status             string             `json:"status" bson:"status"`
	Source             string             `json:"source,omitempty" bson:"source,omitempty"`
	ReferredUserID     string             `json:"referredUserId,omitempty" bson:"referredUserId,omitempty"`
	ReferralPercentage float64            `json:"referralPercentage,omitempty" bson:"referralPercentage,omitempty"`
	AssetPurchaseID    string             `json:"assetPurchaseId,omitempty" bson:"assetPurchaseId,omitempty"`
	PaymentID          string             `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Remarks            string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy          string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy          string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

// TransactionListData is the server-computed page of transactions
type TransactionListData struct {
	Transactions []Transaction `json:"transactions"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	TotalPages   int           `json:"totalPages"`
}

// UpdateTransactionStatusRequest model
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
