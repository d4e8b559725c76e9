package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/controllers"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/websocket"
)

// RegisterUserRoutes sets up member-facing protected routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client, userController *controllers.UserController, referralController *controllers.ReferralController, bookingController *controllers.BookingController, transactionController *controllers.TransactionController, hub *websocket.Hub) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Profile routes
	r.GET("/users/profile", userController.GetProfile)
	r.GET("/users/:id", userController.GetUser)
	r.PUT("/users/:id", userController.UpdateUser)
	r.POST("/upload-profile-photo", userController.UploadProfilePhoto)
	r.GET("/users/notifications", userController.GetNotifications)
	r.PUT("/users/notifications/:id/read", userController.MarkNotificationRead)

	// Referral routes
	r.GET("/users/referral-data", referralController.GetReferralData)
	r.GET("/qrcode/referral", referralController.GenerateReferralQRCode)

	// Bookings and transactions visible to the member
	r.GET("/bookings", bookingController.GetBookings)
	r.GET("/bookings/:id", bookingController.GetBooking)
	r.GET("/transactions/my", transactionController.GetMyTransactions)

	// Live event feed
	r.GET("/ws", func(c echo.Context) error {
		claims := middleware.GetUserFromToken(c)
		if claims == nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
			})
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		return websocket.HandleWebSocket(c, hub, userID, claims.Role == models.RoleAdmin)
	})
}
