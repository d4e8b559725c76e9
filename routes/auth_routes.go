package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/controllers"
	"github.com/bdaestates/bda_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and public routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)

	// Protected authentication routes
	r := e.Group("/api/auth")
	r.Use(middleware.JWTMiddleware())
	r.GET("/validate-token", authController.ValidateToken)
	r.POST("/logout", authController.Logout)

	// Custom token for verified admins
	adminToken := e.Group("/api/admin-token")
	adminToken.Use(middleware.JWTMiddleware())
	adminToken.POST("", authController.AdminToken)
}
