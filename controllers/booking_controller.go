// controllers/booking_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/repositories"
	"github.com/bdaestates/bda_backend/services"
	"github.com/bdaestates/bda_backend/utils"
	"github.com/bdaestates/bda_backend/websocket"
)

// maxWriteAttempts bounds the optimistic-concurrency retry loop on the
// asset purchase document
const maxWriteAttempts = 3

// BookingController manages the asset purchase ledger
type BookingController struct {
	DB         *mongo.Client
	userRepo   *repositories.UserRepository
	commission *services.CommissionService
	hub        *websocket.Hub
}

func NewBookingController(db *mongo.Client, userRepo *repositories.UserRepository, commission *services.CommissionService, hub *websocket.Hub) *BookingController {
	return &BookingController{DB: db, userRepo: userRepo, commission: commission, hub: hub}
}

// CreateBooking handler books a plot/unit against a project (admin only).
// The booking amount is recorded as the first payment history entry.
func (bc *BookingController) CreateBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	purchases := config.GetCollection(bc.DB, "assetPurchases")
	projects := config.GetCollection(bc.DB, "projects")
	claims := middleware.GetUserFromToken(c)

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Project is required",
		})
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid project ID",
		})
	}

	var project models.Project
	if err := projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Project not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find project",
		})
	}

	if project.TotalPlots > 0 && project.AvailablePlots <= 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "No plots available in this project",
		})
	}

	// Pricing inputs fall back to the project's catalog figures
	in := req.Pricing
	if in.PriceMode == "" {
		in.PriceMode = project.PriceMode
	}
	if in.PriceMode == models.PriceModePerSqFt && in.PricePerSqFt == 0 {
		in.PricePerSqFt = project.Price
	}
	if in.PriceMode == models.PriceModeFlat && in.TotalPrice == 0 {
		in.TotalPrice = project.Price
	}
	if in.DiscountPercent == 0 {
		in.DiscountPercent = project.Discount
	}
	if in.PriceMode == models.PriceModePerSqFt && in.Area <= 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Area is required for per-square-foot pricing",
		})
	}

	pricing := models.ComputePricing(in)
	if pricing.TotalPrice <= 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Computed price must be positive",
		})
	}

	bookingAmount := pricing.FinalPrice * 0.20
	if req.BookingAmount != nil {
		bookingAmount = *req.BookingAmount
	}
	if bookingAmount <= 0 || bookingAmount > pricing.TotalPrice {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Booking amount must be positive and within the total price",
		})
	}

	// Resolve the buyer: a registered member by id/BDA id, or walk-in details
	var buyerID string
	var buyer *models.User
	var nonMember *models.NonMember
	if req.BookingType == "nonMember" {
		if req.NonMember == nil || req.NonMember.FullName == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Non-member details are required",
			})
		}
		nonMember = req.NonMember
	} else {
		if req.UserID == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Member is required",
			})
		}
		buyer, err = bc.userRepo.FindByIDOrBdaID(ctx, req.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			})
		}
		buyerID = buyer.BdaID
	}

	assetID, err := utils.GenerateAssetID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign asset ID",
		})
	}

	now := time.Now()
	purchase := models.AssetPurchase{
		ID:              primitive.NewObjectID(),
		AssetID:         assetID,
		Type:            models.TransactionTypeAssetPurchase,
		UserID:          buyerID,
		ProjectName:     project.Name,
		AssetType:       req.AssetType,
		PropertyDetails: req.PropertyDetails,
		NonMember:       nonMember,
		Pricing:         pricing,
		BookingAmount:   bookingAmount,
		Status:          models.StatusPending,
		PaymentHistory: []models.Payment{{
			ID:        models.NewPaymentID(),
			Amount:    bookingAmount,
			Remarks:   "Booking amount",
			CreatedAt: now,
			CreatedBy: claims.UserID,
		}},
		Version:   1,
		CreatedAt: now,
		CreatedBy: claims.UserID,
		UpdatedAt: now,
	}
	purchase.Recompute()

	if _, err := purchases.InsertOne(ctx, purchase); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create booking",
		})
	}

	// Follow-up writes run sequentially; a failure leaves the store in a
	// logged inconsistent state rather than aborting the booking

	mirror := models.Transaction{
		ID:              primitive.NewObjectID(),
		UserID:          buyerID,
		Type:            models.TransactionTypeAssetPurchase,
		Amount:          pricing.TotalPrice,
		Status:          purchase.Status,
		AssetPurchaseID: purchase.ID.Hex(),
		Remarks:         project.Name,
		CreatedAt:       now,
		CreatedBy:       claims.UserID,
		UpdatedAt:       now,
	}
	if _, err := config.GetCollection(bc.DB, "transactions").InsertOne(ctx, mirror); err != nil {
		log.Printf("Failed to mirror booking %s into transactions: %v", purchase.AssetID, err)
	}

	if _, err := projects.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{
		"$inc": bson.M{"bookedPlots": 1, "availablePlots": -1},
	}); err != nil {
		log.Printf("Failed to update plot counts for project %s: %v", project.Name, err)
	}

	// Booking-sourced referral commission for the buyer's referrer
	if buyer != nil && buyer.ReferralID != "" {
		bonus, referrer, err := bc.commission.CalculateReferralBonus(ctx, buyer.ReferralID, bookingAmount)
		if err != nil {
			log.Printf("Failed to calculate booking referral bonus for %s: %v", buyer.BdaID, err)
		} else {
			tx, err := bc.commission.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceBooking, buyer.BdaID, claims.UserID)
			if err != nil {
				log.Printf("Failed to record booking referral commission for %s: %v", buyer.BdaID, err)
			} else {
				bc.hub.NotifyCommissionCreated(tx)
			}
		}
	}

	bc.hub.NotifyBookingCreated(purchase)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking created successfully",
		Data:    purchase,
	})
}

// GetBookings handler lists bookings. Admins see everything with optional
// filters; members see only their own.
func (bc *BookingController) GetBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	purchases := config.GetCollection(bc.DB, "assetPurchases")
	claims := middleware.GetUserFromToken(c)

	filter := bson.M{}
	if claims.Role == models.RoleAdmin {
		if userID := c.QueryParam("userId"); userID != "" {
			filter["userId"] = userID
		}
		if status := c.QueryParam("status"); status != "" {
			filter["status"] = status
		}
	} else {
		user, err := utils.GetUserFromToken(c, bc.DB)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		filter["userId"] = user.BdaID
	}

	cursor, err := purchases.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list bookings",
		})
	}
	defer cursor.Close(ctx)

	var bookings []models.AssetPurchase
	if err := cursor.All(ctx, &bookings); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bookings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetBooking handler returns a single booking (admin or owner)
func (bc *BookingController) GetBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)

	purchase, err := bc.findPurchase(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find booking",
		})
	}

	if claims.Role != models.RoleAdmin {
		user, err := utils.GetUserFromToken(c, bc.DB)
		if err != nil || purchase.UserID != user.BdaID {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    purchase,
	})
}

// AddPayment handler appends a payment to a booking's history (admin only).
// Writes go through a versioned compare-and-swap with a bounded retry.
func (bc *BookingController) AddPayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	purchases := config.GetCollection(bc.DB, "assetPurchases")
	claims := middleware.GetUserFromToken(c)

	var req models.AddPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	payment := models.Payment{
		ID:          models.NewPaymentID(),
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Remarks:     req.Remarks,
		CreatedAt:   time.Now(),
		CreatedBy:   claims.UserID,
	}

	var purchase *models.AssetPurchase
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var err error
		purchase, err = bc.findPurchase(ctx, c.Param("id"))
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Booking not found",
				})
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to find booking",
			})
		}

		if err := purchase.AddPayment(payment); err != nil {
			if errors.Is(err, models.ErrInvalidAmount) {
				return c.JSON(http.StatusBadRequest, models.Response{
					Status:  http.StatusBadRequest,
					Message: "Payment must be positive and within the remaining balance",
				})
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to record payment",
			})
		}

		res, err := purchases.UpdateOne(ctx,
			bson.M{"_id": purchase.ID, "version": purchase.Version},
			bson.M{
				"$set": bson.M{
					"paymentHistory":           purchase.PaymentHistory,
					"pricing.remainingPayment": purchase.Pricing.RemainingPayment,
					"status":                   purchase.Status,
					"updatedAt":                time.Now(),
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to record payment",
			})
		}
		if res.ModifiedCount == 1 {
			bc.afterLedgerWrite(ctx, purchase, &payment, claims.UserID, false)
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Payment recorded successfully",
				Data:    purchase,
			})
		}
		// Version moved under us; reload and retry
	}

	return c.JSON(http.StatusConflict, models.Response{
		Status:  http.StatusConflict,
		Message: "Booking was modified concurrently, please retry",
	})
}

// DeletePayment handler removes a payment from a booking's history (admin only)
func (bc *BookingController) DeletePayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	purchases := config.GetCollection(bc.DB, "assetPurchases")
	claims := middleware.GetUserFromToken(c)
	paymentID := c.Param("paymentId")

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		purchase, err := bc.findPurchase(ctx, c.Param("id"))
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Booking not found",
				})
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to find booking",
			})
		}

		if err := purchase.RemovePayment(paymentID); err != nil {
			if errors.Is(err, models.ErrPaymentNotFound) {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Payment not found",
				})
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to delete payment",
			})
		}

		res, err := purchases.UpdateOne(ctx,
			bson.M{"_id": purchase.ID, "version": purchase.Version},
			bson.M{
				"$set": bson.M{
					"paymentHistory":           purchase.PaymentHistory,
					"pricing.remainingPayment": purchase.Pricing.RemainingPayment,
					"status":                   purchase.Status,
					"updatedAt":                time.Now(),
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to delete payment",
			})
		}
		if res.ModifiedCount == 1 {
			bc.afterLedgerWrite(ctx, purchase, &models.Payment{ID: paymentID}, claims.UserID, true)
			return c.JSON(http.StatusOK, models.Response{
				Status:  http.StatusOK,
				Message: "Payment deleted successfully",
				Data:    purchase,
			})
		}
	}

	return c.JSON(http.StatusConflict, models.Response{
		Status:  http.StatusConflict,
		Message: "Booking was modified concurrently, please retry",
	})
}

// findPurchase accepts a Mongo hex id or the 4-char asset code
func (bc *BookingController) findPurchase(ctx context.Context, id string) (*models.AssetPurchase, error) {
	purchases := config.GetCollection(bc.DB, "assetPurchases")

	var purchase models.AssetPurchase
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		if err := purchases.FindOne(ctx, bson.M{"_id": objID}).Decode(&purchase); err != nil {
			return nil, err
		}
		return &purchase, nil
	}
	if err := purchases.FindOne(ctx, bson.M{"assetId": id}).Decode(&purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// afterLedgerWrite performs the sequential follow-ups of a successful payment
// write: mirror transaction rows, receipt email and websocket events. Errors
// here are logged, the ledger write already succeeded.
func (bc *BookingController) afterLedgerWrite(ctx context.Context, purchase *models.AssetPurchase, payment *models.Payment, actorID string, deleted bool) {
	transactions := config.GetCollection(bc.DB, "transactions")

	if deleted {
		if _, err := transactions.DeleteOne(ctx, bson.M{
			"assetPurchaseId": purchase.ID.Hex(),
			"type":            models.TransactionTypeAssetPayment,
			"paymentId":       payment.ID,
		}); err != nil {
			log.Printf("Failed to delete payment mirror for booking %s: %v", purchase.AssetID, err)
		}
	} else {
		mirror := models.Transaction{
			ID:              primitive.NewObjectID(),
			UserID:          purchase.UserID,
			Type:            models.TransactionTypeAssetPayment,
			Amount:          payment.Amount,
			Status:          purchase.Status,
			AssetPurchaseID: purchase.ID.Hex(),
			PaymentID:       payment.ID,
			Remarks:         payment.Remarks,
			CreatedAt:       time.Now(),
			CreatedBy:       actorID,
			UpdatedAt:       time.Now(),
		}
		if _, err := transactions.InsertOne(ctx, mirror); err != nil {
			log.Printf("Failed to mirror payment for booking %s: %v", purchase.AssetID, err)
		}
	}

	// The booking's own mirror row tracks the current payment status
	if _, err := transactions.UpdateOne(ctx,
		bson.M{"assetPurchaseId": purchase.ID.Hex(), "type": models.TransactionTypeAssetPurchase},
		bson.M{"$set": bson.M{"status": purchase.Status, "updatedAt": time.Now()}},
	); err != nil {
		log.Printf("Failed to update booking mirror status for %s: %v", purchase.AssetID, err)
	}

	if deleted {
		bc.hub.NotifyPaymentDeleted(purchase)
		return
	}

	if purchase.UserID != "" {
		if buyer, err := bc.userRepo.FindByIDOrBdaID(ctx, purchase.UserID); err == nil {
			go utils.SendPaymentReceipt(buyer.Email, buyer.FullName, purchase, *payment)
			if err := utils.SaveNotification(bc.DB, buyer.ID, "Payment recorded",
				fmt.Sprintf("A payment of %.2f was recorded against asset %s", payment.Amount, purchase.AssetID),
				"asset_payment", payment); err != nil {
				log.Printf("Failed to save payment notification for %s: %v", buyer.BdaID, err)
			}
		}
	}
	bc.hub.NotifyPaymentRecorded(purchase)
}
