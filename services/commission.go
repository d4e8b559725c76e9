// services/commission.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/utils"
)

// ReferrerSource resolves a referrer by document id or BDA id
type ReferrerSource interface {
	FindByIDOrBdaID(ctx context.Context, id string) (*models.User, error)
}

// PlanSource resolves investment plans
type PlanSource interface {
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// CommissionStore persists referral commission rows
type CommissionStore interface {
	InsertReferral(ctx context.Context, tx models.Transaction) error
	DeleteSignupReferrals(ctx context.Context, referredUserID string) error
}

// CommissionService resolves referrers and records referral commissions.
// Two independent commission events exist: one at member creation (on the new
// member's plan amount) and one at booking (on the booking amount). They are
// stored as separate transactions and never conflated.
type CommissionService struct {
	DB    *mongo.Client
	users ReferrerSource
	plans PlanSource
	store CommissionStore
}

func NewCommissionService(db *mongo.Client, users ReferrerSource, plans PlanSource) *CommissionService {
	return &CommissionService{
		DB:    db,
		users: users,
		plans: plans,
		store: &mongoCommissionStore{db: db},
	}
}

// CalculateReferralBonus looks up the referrer and their plan, then computes
// the commission on the given amount
func (s *CommissionService) CalculateReferralBonus(ctx context.Context, referrerID string, amount float64) (*models.ReferralBonus, *models.User, error) {
	referrer, err := s.users.FindByIDOrBdaID(ctx, referrerID)
	if err != nil {
		return nil, nil, fmt.Errorf("referrer not found: %w", err)
	}

	plan, err := s.plans.GetPlan(ctx, referrer.InvestmentPlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("referrer plan not found: %w", err)
	}

	bonus := &models.ReferralBonus{
		Amount:             utils.CalculateReferralBonus(amount, plan.ReferralPercentage),
		PlanID:             plan.ID,
		PlanName:           plan.PlanName,
		ReferralPercentage: plan.ReferralPercentage,
	}
	return bonus, referrer, nil
}

// RecordReferralCommission writes a PENDING referral transaction crediting
// the referrer and returns the stored row
func (s *CommissionService) RecordReferralCommission(ctx context.Context, referrer *models.User, bonus *models.ReferralBonus, source, referredUserID, createdBy string) (*models.Transaction, error) {
	tx := models.Transaction{
		ID:                 primitive.NewObjectID(),
		UserID:             referrer.BdaID,
		Type:               models.TransactionTypeReferral,
		Amount:             bonus.Amount,
		Status:             models.TxStatusPending,
		Source:             source,
		ReferredUserID:     referredUserID,
		ReferralPercentage: bonus.ReferralPercentage,
		CreatedAt:          time.Now(),
		CreatedBy:          createdBy,
		UpdatedAt:          time.Now(),
	}

	if err := s.store.InsertReferral(ctx, tx); err != nil {
		return nil, err
	}

	if s.DB != nil {
		if err := utils.SaveNotification(s.DB, referrer.ID, "Referral commission earned",
			fmt.Sprintf("You earned a commission of %.2f (%s referral)", bonus.Amount, source),
			"referral_commission", tx); err != nil {
			log.Printf("Failed to save commission notification for %s: %v", referrer.BdaID, err)
		}
	}

	return &tx, nil
}

// ReplaceSignupCommission replaces the single signup-sourced referral row for
// a referred member. At most one such row exists per member; it is looked up
// by query, not by a stored id. A nil referrer or bonus clears the row
// without writing a replacement.
func (s *CommissionService) ReplaceSignupCommission(ctx context.Context, referredUserID string, referrer *models.User, bonus *models.ReferralBonus, updatedBy string) (*models.Transaction, error) {
	if err := s.store.DeleteSignupReferrals(ctx, referredUserID); err != nil {
		return nil, err
	}

	if referrer == nil || bonus == nil {
		return nil, nil
	}
	return s.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, referredUserID, updatedBy)
}

// mongoCommissionStore is the production CommissionStore over the
// transactions collection
type mongoCommissionStore struct {
	db *mongo.Client
}

func (m *mongoCommissionStore) InsertReferral(ctx context.Context, tx models.Transaction) error {
	_, err := config.GetCollection(m.db, "transactions").InsertOne(ctx, tx)
	return err
}

func (m *mongoCommissionStore) DeleteSignupReferrals(ctx context.Context, referredUserID string) error {
	_, err := config.GetCollection(m.db, "transactions").DeleteMany(ctx, bson.M{
		"referredUserId": referredUserID,
		"type":           models.TransactionTypeReferral,
		"source":         models.ReferralSourceSignup,
	})
	return err
}
