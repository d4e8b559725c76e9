// controllers/referral_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"net/http"
	"os"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/services"
	"github.com/bdaestates/bda_backend/utils"
)

// ReferralController serves members' referral networks and commissions
type ReferralController struct {
	DB         *mongo.Client
	commission *services.CommissionService
}

func NewReferralController(db *mongo.Client, commission *services.CommissionService) *ReferralController {
	return &ReferralController{DB: db, commission: commission}
}

func referralLink(bdaID string) string {
	base := os.Getenv("REFERRAL_LINK_BASE")
	if base == "" {
		base = "https://bdaestates.com/join?ref="
	}
	return base + bdaID
}

// GetReferralData handler returns the caller's referred members, their
// commission transactions, the referral link and a QR code for it
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	users := config.GetCollection(rc.DB, "users")
	transactions := config.GetCollection(rc.DB, "transactions")

	// Members referred by the caller (stored by BDA id or document id)
	cursor, err := users.Find(ctx, bson.M{
		"referralId": bson.M{"$in": []string{user.BdaID, user.ID.Hex()}},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list referred members",
		})
	}
	defer cursor.Close(ctx)

	var referred []models.User
	if err := cursor.All(ctx, &referred); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referred members",
		})
	}
	for i := range referred {
		referred[i].Password = ""
	}

	txCursor, err := transactions.Find(ctx, bson.M{
		"userId": user.BdaID,
		"type":   models.TransactionTypeReferral,
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list commissions",
		})
	}
	defer txCursor.Close(ctx)

	var commissions []models.Transaction
	if err := txCursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commissions",
		})
	}

	var totalEarned float64
	for _, tx := range commissions {
		totalEarned += tx.Amount
	}

	link := referralLink(user.BdaID)
	qrBase64, err := encodeReferralQR(link)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved successfully",
		Data: map[string]interface{}{
			"referralCode":    user.BdaID,
			"referralLink":    link,
			"qrCode":          qrBase64,
			"referredMembers": referred,
			"commissions":     commissions,
			"totalEarned":     totalEarned,
		},
	})
}

// GenerateReferralQRCode handler streams the caller's referral QR as PNG
func (rc *ReferralController) GenerateReferralQRCode(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, rc.DB)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	qrCode, err := qr.Encode(referralLink(user.BdaID), qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code: " + err.Error(),
		})
	}

	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code: " + err.Error(),
		})
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code as PNG: " + err.Error(),
		})
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=referral-"+user.BdaID+".png")
	return c.Blob(http.StatusOK, "image/png", buffer.Bytes())
}

// CalculateBonusRequest model
type CalculateBonusRequest struct {
	ReferrerID string  `json:"referrerId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// CalculateBonus handler previews a referral commission without recording it
// (admin only)
func (rc *ReferralController) CalculateBonus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	var req CalculateBonusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Referrer and a positive amount are required",
		})
	}

	bonus, referrer, err := rc.commission.CalculateReferralBonus(ctx, req.ReferrerID, req.Amount)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Referrer or plan not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral bonus calculated",
		Data: map[string]interface{}{
			"referrerBdaId": referrer.BdaID,
			"bonus":         bonus,
		},
	})
}

func encodeReferralQR(content string) (string, error) {
	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}
	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return "", err
	}
	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}
