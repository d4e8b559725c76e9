// controllers/transaction_controller.go
package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/utils"
)

// TransactionController serves the denormalized transaction view
type TransactionController struct {
	DB *mongo.Client
}

func NewTransactionController(db *mongo.Client) *TransactionController {
	return &TransactionController{DB: db}
}

// ListTransactions handler lists transactions with filters and pagination
// (admin only)
func (tc *TransactionController) ListTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	filter := bson.M{}
	if txType := c.QueryParam("type"); txType != "" {
		filter["type"] = txType
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if userID := c.QueryParam("userId"); userID != "" {
		filter["userId"] = userID
	}

	return tc.listWithFilter(ctx, c, filter)
}

// GetMyTransactions handler lists the caller's own transactions
func (tc *TransactionController) GetMyTransactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := utils.GetUserFromToken(c, tc.DB)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	filter := bson.M{"userId": user.BdaID}
	if txType := c.QueryParam("type"); txType != "" {
		filter["type"] = txType
	}

	return tc.listWithFilter(ctx, c, filter)
}

func (tc *TransactionController) listWithFilter(ctx context.Context, c echo.Context, filter bson.M) error {
	collection := config.GetCollection(tc.DB, "transactions")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count transactions",
		})
	}

	cursor, err := collection.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page-1)*pageSize)).
		SetLimit(int64(pageSize)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list transactions",
		})
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode transactions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transactions retrieved successfully",
		Data: models.TransactionListData{
			Transactions: transactions,
			Total:        total,
			Page:         page,
			PageSize:     pageSize,
			TotalPages:   int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}

// UpdateTransactionStatus handler moves a referral commission through its
// payout states (admin only). Only referral rows carry a workflow status.
func (tc *TransactionController) UpdateTransactionStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(tc.DB, "transactions")
	claims := middleware.GetUserFromToken(c)

	txID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid transaction ID",
		})
	}

	var req models.UpdateTransactionStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	switch req.Status {
	case models.TxStatusPending, models.TxStatusApproved, models.TxStatusPaid:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid status",
		})
	}

	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": txID, "type": models.TransactionTypeReferral},
		bson.M{"$set": bson.M{
			"status":    req.Status,
			"updatedAt": time.Now(),
			"updatedBy": claims.UserID,
		}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update transaction",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Referral transaction not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Transaction status updated",
	})
}
