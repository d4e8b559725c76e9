package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bdaestates/bda_backend/models"
)

type fakeUserSource struct {
	users map[string]*models.User
}

func (f *fakeUserSource) FindByIDOrBdaID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type fakePlanSource struct {
	plans map[string]*models.Plan
}

func (f *fakePlanSource) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	if p, ok := f.plans[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

type fakeCommissionStore struct {
	rows []models.Transaction
}

func (f *fakeCommissionStore) InsertReferral(ctx context.Context, tx models.Transaction) error {
	f.rows = append(f.rows, tx)
	return nil
}

func (f *fakeCommissionStore) DeleteSignupReferrals(ctx context.Context, referredUserID string) error {
	kept := f.rows[:0]
	for _, tx := range f.rows {
		if tx.ReferredUserID == referredUserID &&
			tx.Type == models.TransactionTypeReferral &&
			tx.Source == models.ReferralSourceSignup {
			continue
		}
		kept = append(kept, tx)
	}
	f.rows = kept
	return nil
}

func (f *fakeCommissionStore) signupRowsFor(referredUserID string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range f.rows {
		if tx.ReferredUserID == referredUserID && tx.Source == models.ReferralSourceSignup {
			out = append(out, tx)
		}
	}
	return out
}

func newTestCommissionService() (*CommissionService, *fakeCommissionStore) {
	store := &fakeCommissionStore{}
	svc := &CommissionService{
		users: &fakeUserSource{users: map[string]*models.User{
			"BDA0001": {ID: primitive.NewObjectID(), BdaID: "BDA0001", InvestmentPlanID: "gold"},
			"BDA0002": {ID: primitive.NewObjectID(), BdaID: "BDA0002", InvestmentPlanID: "silver"},
		}},
		plans: &fakePlanSource{plans: map[string]*models.Plan{
			"gold":   {ID: "gold", PlanName: "Gold", Amount: 500000, ReferralPercentage: 5},
			"silver": {ID: "silver", PlanName: "Silver", Amount: 250000, ReferralPercentage: 2},
		}},
		store: store,
	}
	return svc, store
}

func TestCalculateReferralBonus(t *testing.T) {
	svc, _ := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)
	require.Equal(t, "BDA0001", referrer.BdaID)
	require.Equal(t, 25000.0, bonus.Amount)
	require.Equal(t, 5.0, bonus.ReferralPercentage)

	_, _, err = svc.CalculateReferralBonus(ctx, "BDA9999", 500000)
	require.Error(t, err)
}

func TestRecordReferralCommissionCreatesPendingRow(t *testing.T) {
	svc, store := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)

	tx, err := svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, "BDA0010", "admin")
	require.NoError(t, err)
	require.Equal(t, models.TxStatusPending, tx.Status)
	require.Equal(t, "BDA0001", tx.UserID)
	require.Equal(t, "BDA0010", tx.ReferredUserID)
	require.Len(t, store.rows, 1)
}

func TestReplaceSignupCommissionOnReferralChange(t *testing.T) {
	svc, store := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)
	_, err = svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, "BDA0010", "admin")
	require.NoError(t, err)

	// Re-editing the member's referral credits the new referrer and leaves
	// exactly one signup row
	bonus, referrer, err = svc.CalculateReferralBonus(ctx, "BDA0002", 500000)
	require.NoError(t, err)
	tx, err := svc.ReplaceSignupCommission(ctx, "BDA0010", referrer, bonus, "admin")
	require.NoError(t, err)
	require.NotNil(t, tx)

	signup := store.signupRowsFor("BDA0010")
	require.Len(t, signup, 1)
	require.Equal(t, "BDA0002", signup[0].UserID)
	require.Equal(t, 10000.0, signup[0].Amount) // 2% of 500000
}

func TestReplaceSignupCommissionOnPlanChange(t *testing.T) {
	svc, store := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)
	_, err = svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, "BDA0010", "admin")
	require.NoError(t, err)

	// Same referrer, new plan amount: the single row is recomputed
	bonus, referrer, err = svc.CalculateReferralBonus(ctx, "BDA0001", 250000)
	require.NoError(t, err)
	_, err = svc.ReplaceSignupCommission(ctx, "BDA0010", referrer, bonus, "admin")
	require.NoError(t, err)

	signup := store.signupRowsFor("BDA0010")
	require.Len(t, signup, 1)
	require.Equal(t, 12500.0, signup[0].Amount) // 5% of 250000
}

func TestReplaceSignupCommissionClearsOnReferralRemoval(t *testing.T) {
	svc, store := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)
	_, err = svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, "BDA0010", "admin")
	require.NoError(t, err)

	tx, err := svc.ReplaceSignupCommission(ctx, "BDA0010", nil, nil, "admin")
	require.NoError(t, err)
	require.Nil(t, tx)
	require.Empty(t, store.signupRowsFor("BDA0010"))
}

func TestReplaceSignupCommissionLeavesBookingRowsAlone(t *testing.T) {
	svc, store := newTestCommissionService()
	ctx := context.Background()

	bonus, referrer, err := svc.CalculateReferralBonus(ctx, "BDA0001", 500000)
	require.NoError(t, err)
	_, err = svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, "BDA0010", "admin")
	require.NoError(t, err)
	_, err = svc.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceBooking, "BDA0010", "admin")
	require.NoError(t, err)

	_, err = svc.ReplaceSignupCommission(ctx, "BDA0010", nil, nil, "admin")
	require.NoError(t, err)

	// Booking-sourced commissions survive a signup-row replace
	require.Len(t, store.rows, 1)
	require.Equal(t, models.ReferralSourceBooking, store.rows[0].Source)
}
