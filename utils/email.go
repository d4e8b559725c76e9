// utils/email.go
package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

func sendMail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendWelcomeEmail mails a newly created member their BDA id. Best-effort:
// failures are logged, never surfaced to the caller.
func SendWelcomeEmail(user *models.User) {
	subject := "Welcome to BDA Estates"
	body := fmt.Sprintf("Dear %s,\n\nYour member account has been created.\nYour BDA ID is %s. Use it together with your password to sign in to the portal.\n\nBest regards,\nBDA Estates", user.FullName, user.BdaID)

	if err := sendMail(user.Email, subject, body); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
	}
}

// SendPaymentReceipt mails a payment confirmation for an asset purchase.
// Best-effort: failures are logged, never surfaced to the caller.
func SendPaymentReceipt(email, fullName string, purchase *models.AssetPurchase, payment models.Payment) {
	if email == "" {
		return
	}

	subject := fmt.Sprintf("Payment received for asset %s", purchase.AssetID)
	body := fmt.Sprintf("Dear %s,\n\nWe have recorded a payment of %.2f against your booking %s (%s).\nRemaining balance: %.2f\nStatus: %s\n\nBest regards,\nBDA Estates",
		fullName, payment.Amount, purchase.AssetID, purchase.ProjectName, purchase.Pricing.RemainingPayment, purchase.Status)

	if err := sendMail(email, subject, body); err != nil {
		log.Printf("Failed to send payment receipt to %s: %v", email, err)
	}
}
