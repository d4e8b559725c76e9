package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/controllers"
	"github.com/bdaestates/bda_backend/middleware"
)

// RegisterAdminRoutes sets up the admin-only management routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, userController *controllers.UserController, planController *controllers.PlanController, projectController *controllers.ProjectController, bookingController *controllers.BookingController, transactionController *controllers.TransactionController, referralController *controllers.ReferralController) {
	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireAdmin())

	// Member management
	r.POST("/users", userController.CreateUser)
	r.GET("/users", userController.GetAllUsers)
	r.DELETE("/users/:id", userController.DeleteUser)

	// Plan catalog
	r.GET("/plans", planController.ListPlans)
	r.GET("/plans/:id", planController.GetPlan)

	// Project catalog
	r.POST("/projects", projectController.CreateProject)
	r.GET("/projects", projectController.ListProjects)
	r.GET("/projects/:id", projectController.GetProject)
	r.PUT("/projects/:id", projectController.UpdateProject)
	r.DELETE("/projects/:id", projectController.DeleteProject)

	// Booking ledger
	r.POST("/bookings", bookingController.CreateBooking)
	r.POST("/bookings/:id/payments", bookingController.AddPayment)
	r.DELETE("/bookings/:id/payments/:paymentId", bookingController.DeletePayment)

	// Transactions and referral commissions
	r.GET("/transactions", transactionController.ListTransactions)
	r.PUT("/transactions/:id/status", transactionController.UpdateTransactionStatus)
	r.POST("/referrals/calculate-bonus", referralController.CalculateBonus)
}
