package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPurchase(totalPrice, discountPct, bookingAmount float64) *AssetPurchase {
	pricing := ComputePricing(PricingInput{
		PriceMode:       PriceModeFlat,
		TotalPrice:      totalPrice,
		DiscountPercent: discountPct,
	})
	ap := &AssetPurchase{
		Pricing:       pricing,
		BookingAmount: bookingAmount,
		PaymentHistory: []Payment{{
			ID:      NewPaymentID(),
			Amount:  bookingAmount,
			Remarks: "Booking amount",
		}},
		Version: 1,
	}
	ap.Recompute()
	return ap
}

func TestComputePricingFlat(t *testing.T) {
	pricing := ComputePricing(PricingInput{
		PriceMode:       PriceModeFlat,
		TotalPrice:      1000000,
		DiscountPercent: 10,
	})

	require.Equal(t, 1000000.0, pricing.TotalPrice)
	require.Equal(t, 1000000.0, pricing.FinalPrice, "discount must not reduce the price owed")
	require.Equal(t, 100000.0, pricing.TotalDiscountAmount)
	require.Equal(t, 100000.0, pricing.RemainingDiscount)
	require.Equal(t, 1000000.0, pricing.RemainingPayment)
}

func TestComputePricingPerSqFt(t *testing.T) {
	pricing := ComputePricing(PricingInput{
		PriceMode:         PriceModePerSqFt,
		PricePerSqFt:      4500,
		AdditionalCharges: 500,
		Area:              200,
		DiscountPercent:   5,
	})

	require.Equal(t, 1000000.0, pricing.TotalPrice)
	require.Equal(t, pricing.TotalPrice, pricing.FinalPrice)
	require.Equal(t, 50000.0, pricing.TotalDiscountAmount)
}

func TestComputePricingFlatAdditionalCharges(t *testing.T) {
	pricing := ComputePricing(PricingInput{
		PriceMode:  PriceModeFlat,
		TotalPrice: 750000,
	})
	require.Equal(t, 750000.0, pricing.TotalPrice)
	require.Equal(t, 0.0, pricing.TotalDiscountAmount)

	pricing = ComputePricing(PricingInput{
		PriceMode:         PriceModeFlat,
		TotalPrice:        750000,
		AdditionalCharges: 50000,
	})
	require.Equal(t, 800000.0, pricing.TotalPrice)
}

func TestBookingAmountIsFirstPayment(t *testing.T) {
	ap := newTestPurchase(1000000, 10, 200000)

	require.Len(t, ap.PaymentHistory, 1)
	require.Equal(t, 200000.0, ap.PaidAmount())
	require.Equal(t, 800000.0, ap.Pricing.RemainingPayment)
	require.Equal(t, StatusPartiallyPaid, ap.Status)
}

func TestAddPaymentReachesFullyPaid(t *testing.T) {
	ap := newTestPurchase(1000000, 10, 200000)

	err := ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 800000})
	require.NoError(t, err)

	require.Equal(t, 0.0, ap.Pricing.RemainingPayment)
	require.Equal(t, StatusFullyPaid, ap.Status)
	require.Len(t, ap.PaymentHistory, 2)
}

func TestAddPaymentRejectsOverpayment(t *testing.T) {
	ap := newTestPurchase(1000000, 10, 200000)

	err := ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 900000})
	require.ErrorIs(t, err, ErrInvalidAmount)

	// Record untouched after rejection
	require.Len(t, ap.PaymentHistory, 1)
	require.Equal(t, 800000.0, ap.Pricing.RemainingPayment)
	require.Equal(t, StatusPartiallyPaid, ap.Status)
}

func TestAddPaymentRejectsNonPositiveAmounts(t *testing.T) {
	ap := newTestPurchase(500000, 0, 100000)

	require.ErrorIs(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 0}), ErrInvalidAmount)
	require.ErrorIs(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: -100}), ErrInvalidAmount)
	require.Len(t, ap.PaymentHistory, 1)
}

func TestAddPaymentExactRemainingBalance(t *testing.T) {
	ap := newTestPurchase(500000, 0, 100000)

	require.NoError(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 400000}))
	require.Equal(t, StatusFullyPaid, ap.Status)

	// Nothing further fits once fully paid
	require.ErrorIs(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 1}), ErrInvalidAmount)
}

func TestRemovePaymentRecomputesStatus(t *testing.T) {
	ap := newTestPurchase(1000000, 0, 200000)
	second := Payment{ID: NewPaymentID(), Amount: 800000}
	require.NoError(t, ap.AddPayment(second))
	require.Equal(t, StatusFullyPaid, ap.Status)

	require.NoError(t, ap.RemovePayment(second.ID))
	require.Equal(t, StatusPartiallyPaid, ap.Status)
	require.Equal(t, 800000.0, ap.Pricing.RemainingPayment)

	require.NoError(t, ap.RemovePayment(ap.PaymentHistory[0].ID))
	require.Equal(t, StatusPending, ap.Status)
	require.Equal(t, 1000000.0, ap.Pricing.RemainingPayment)
}

func TestRemovePaymentUnknownID(t *testing.T) {
	ap := newTestPurchase(500000, 0, 100000)
	require.ErrorIs(t, ap.RemovePayment("missing"), ErrPaymentNotFound)
	require.Len(t, ap.PaymentHistory, 1)
}

func TestDerivePaymentStatus(t *testing.T) {
	require.Equal(t, StatusPending, DerivePaymentStatus(1000, 0))
	require.Equal(t, StatusPending, DerivePaymentStatus(1000, -5))
	require.Equal(t, StatusPartiallyPaid, DerivePaymentStatus(1000, 1))
	require.Equal(t, StatusPartiallyPaid, DerivePaymentStatus(1000, 999))
	require.Equal(t, StatusFullyPaid, DerivePaymentStatus(1000, 1000))
	require.Equal(t, StatusFullyPaid, DerivePaymentStatus(1000, 1500))
}

func TestPaymentInvariant(t *testing.T) {
	ap := newTestPurchase(1000000, 10, 200000)
	require.NoError(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 300000}))
	require.NoError(t, ap.AddPayment(Payment{ID: NewPaymentID(), Amount: 250000}))

	require.Equal(t, ap.Pricing.TotalPrice-ap.PaidAmount(), ap.Pricing.RemainingPayment)
}
