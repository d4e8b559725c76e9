package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/controllers"
	"github.com/bdaestates/bda_backend/repositories"
	"github.com/bdaestates/bda_backend/services"
	"github.com/bdaestates/bda_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, identity services.IdentityProvider, hub *websocket.Hub) {
	userRepo := repositories.NewUserRepository(db)
	planRepo := repositories.NewPlanRepository(db, config.GetRedisClient())
	commission := services.NewCommissionService(db, userRepo, planRepo)

	authController := controllers.NewAuthController(db, userRepo, identity, config.GetRedisClient())
	userController := controllers.NewUserController(db, userRepo, planRepo, commission, identity, hub)
	planController := controllers.NewPlanController(db, planRepo)
	projectController := controllers.NewProjectController(db)
	bookingController := controllers.NewBookingController(db, userRepo, commission, hub)
	transactionController := controllers.NewTransactionController(db)
	referralController := controllers.NewReferralController(db, commission)

	RegisterAuthRoutes(e, db, authController)
	RegisterUserRoutes(e, db, userController, referralController, bookingController, transactionController, hub)
	RegisterAdminRoutes(e, db, userController, planController, projectController, bookingController, transactionController, referralController)
}
