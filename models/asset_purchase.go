// models/asset_purchase.go
package models

import (
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetPurchase payment statuses
const (
	StatusPending       = "PENDING"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusFullyPaid     = "FULLY_PAID"
)

var (
	// ErrInvalidAmount is returned when a payment amount is non-positive or
	// exceeds the remaining balance at the time of the call
	ErrInvalidAmount = errors.New("invalid payment amount")
	// ErrPaymentNotFound is returned when a payment id is absent from history
	ErrPaymentNotFound = errors.New("payment not found")
)

// Payment is a single entry in an asset purchase's payment history
type Payment struct {
	ID          string    `json:"id" bson:"id"`
	Amount      float64   `json:"amount" bson:"amount"`
	PaymentDate string    `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
	Remarks     string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	CreatedBy   string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
}

// Pricing holds the derived price figures of an asset purchase.
// FinalPrice equals TotalPrice: the discount is tracked for commission and
// reporting, it is not subtracted from what the buyer pays.
type Pricing struct {
	TotalPrice          float64 `json:"totalPrice" bson:"totalPrice"`
	DiscountPercentage  float64 `json:"discountPercentage" bson:"discountPercentage"`
	FinalPrice          float64 `json:"finalPrice" bson:"finalPrice"`
	PricePerSqFt        float64 `json:"pricePerSqFt,omitempty" bson:"pricePerSqFt,omitempty"`
	TotalDiscountAmount float64 `json:"totalDiscountAmount" bson:"totalDiscountAmount"`
	RemainingPayment    float64 `json:"remainingPayment" bson:"remainingPayment"`
	RemainingDiscount   float64 `json:"remainingDiscount" bson:"remainingDiscount"`
}

// AssetPurchase is the booking ledger record for a plot/unit against a project
type AssetPurchase struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AssetID         string             `json:"assetId" bson:"assetId"` // 4-char human-facing code
	Type            string             `json:"type" bson:"type"`       // always "assetPurchase"
	UserID          string             `json:"userId" bson:"userId"`   // member bdaId or id
	ProjectName     string             `json:"projectName" bson:"projectName"`
	AssetType       string             `json:"assetType,omitempty" bson:"assetType,omitempty"`
	PropertyDetails string             `json:"propertyDetails,omitempty" bson:"propertyDetails,omitempty"`
	NonMember       *NonMember         `json:"nonMemberDetails,omitempty" bson:"nonMemberDetails,omitempty"`
	Pricing         Pricing            `json:"pricing" bson:"pricing"`
	BookingAmount   float64            `json:"bookingAmount" bson:"bookingAmount"`
	Status          string             `json:"status" bson:"status"`
	PaymentHistory  []Payment          `json:"paymentHistory" bson:"paymentHistory"`
	Version         int64              `json:"-" bson:"version"` // optimistic concurrency check
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy       string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PricingInput carries the operator-entered figures at booking time
type PricingInput struct {
	PriceMode         string  `json:"priceMode"`
	PricePerSqFt      float64 `json:"pricePerSqFt,omitempty"`
	Area              float64 `json:"area,omitempty"`
	TotalPrice        float64 `json:"totalPrice,omitempty"`
	AdditionalCharges float64 `json:"additionalCharges,omitempty"` // per unit-area for perSqFt mode
	DiscountPercent   float64 `json:"discountPercent,omitempty"`
}

// ComputePricing derives the pricing block from booking inputs
func ComputePricing(in PricingInput) Pricing {
	var total float64
	if in.PriceMode == PriceModePerSqFt {
		total = (in.PricePerSqFt + in.AdditionalCharges) * in.Area
	} else {
		total = in.TotalPrice + in.AdditionalCharges
	}

	discountAmount := total * in.DiscountPercent / 100

	return Pricing{
		TotalPrice:          total,
		DiscountPercentage:  in.DiscountPercent,
		FinalPrice:          total,
		PricePerSqFt:        in.PricePerSqFt,
		TotalDiscountAmount: discountAmount,
		RemainingPayment:    total,
		RemainingDiscount:   discountAmount,
	}
}

// DerivePaymentStatus is the single status rule: PENDING while nothing is
// paid, FULLY_PAID once paid covers the total, PARTIALLY_PAID in between
func DerivePaymentStatus(totalPrice, paidAmount float64) string {
	switch {
	case paidAmount <= 0:
		return StatusPending
	case paidAmount >= totalPrice:
		return StatusFullyPaid
	default:
		return StatusPartiallyPaid
	}
}

// NewPaymentID returns a time-based payment identifier
func NewPaymentID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// PaidAmount sums the payment history
func (ap *AssetPurchase) PaidAmount() float64 {
	var paid float64
	for _, p := range ap.PaymentHistory {
		paid += p.Amount
	}
	return paid
}

// Recompute refreshes the derived fields from the payment history. Status is
// always recomputed in full, never incrementally updated.
func (ap *AssetPurchase) Recompute() {
	paid := ap.PaidAmount()
	ap.Pricing.RemainingPayment = ap.Pricing.TotalPrice - paid
	ap.Status = DerivePaymentStatus(ap.Pricing.TotalPrice, paid)
}

// AddPayment validates and appends a payment, then recomputes the derived
// fields. The record is left untouched when the amount is rejected.
func (ap *AssetPurchase) AddPayment(p Payment) error {
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	remaining := ap.Pricing.TotalPrice - ap.PaidAmount()
	if p.Amount > remaining {
		return ErrInvalidAmount
	}

	ap.PaymentHistory = append(ap.PaymentHistory, p)
	ap.Recompute()
	return nil
}

// RemovePayment deletes a payment by id and recomputes the derived fields
func (ap *AssetPurchase) RemovePayment(paymentID string) error {
	idx := -1
	for i, p := range ap.PaymentHistory {
		if p.ID == paymentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPaymentNotFound
	}

	ap.PaymentHistory = append(ap.PaymentHistory[:idx], ap.PaymentHistory[idx+1:]...)
	ap.Recompute()
	return nil
}

// CreateBookingRequest model
type CreateBookingRequest struct {
	ProjectID       string       `json:"projectId" validate:"required"`
	AssetType       string       `json:"assetType,omitempty"`
	PropertyDetails string       `json:"propertyDetails,omitempty"`
	BookingType     string       `json:"bookingType,omitempty"` // "member" or "nonMember"
	UserID          string       `json:"userId,omitempty"`      // member bdaId or id when bookingType is "member"
	NonMember       *NonMember   `json:"nonMemberDetails,omitempty"`
	Pricing         PricingInput `json:"pricing"`
	BookingAmount   *float64     `json:"bookingAmount,omitempty"` // defaults to 20% of final price
}

// NonMember holds buyer details for walk-in bookings
type NonMember struct {
	FullName string `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
}

// AddPaymentRequest model
type AddPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required"`
	PaymentDate string  `json:"paymentDate,omitempty"`
	Remarks     string  `json:"remarks,omitempty"`
}
