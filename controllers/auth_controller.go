// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/repositories"
	"github.com/bdaestates/bda_backend/services"
	"github.com/bdaestates/bda_backend/utils"
)

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// AuthController contains authentication logic
type AuthController struct {
	DB              *mongo.Client
	userRepo        *repositories.UserRepository
	identity        services.IdentityProvider
	redis           *redis.Client
	loginAttempts   map[string]loginAttempt
	loginAttemptsMu sync.RWMutex
}

// loginAttemptWindow is how long failed attempts count toward the lockout
const loginAttemptWindow = 30 * time.Minute

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, userRepo *repositories.UserRepository, identity services.IdentityProvider, redisClient *redis.Client) *AuthController {
	ac := &AuthController{
		DB:            db,
		userRepo:      userRepo,
		identity:      identity,
		redis:         redisClient,
		loginAttempts: make(map[string]loginAttempt),
	}
	go ac.cleanupLoginAttempts()
	return ac
}

// cleanupLoginAttempts periodically drops attempt records outside the
// lockout window so the map cannot grow without bound
func (ac *AuthController) cleanupLoginAttempts() {
	for {
		time.Sleep(1 * time.Hour)
		ac.sweepLoginAttempts(time.Now())
	}
}

func (ac *AuthController) sweepLoginAttempts(now time.Time) {
	ac.loginAttemptsMu.Lock()
	for identifier, attempt := range ac.loginAttempts {
		if now.Sub(attempt.lastAttempt) > loginAttemptWindow {
			delete(ac.loginAttempts, identifier)
		}
	}
	ac.loginAttemptsMu.Unlock()
}

// Login authenticates a member by email or BDA id and issues a JWT
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if loginReq.Email == "" && loginReq.BdaID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Either email or BDA id is required",
		})
	}
	if loginReq.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password is required",
		})
	}

	identifier := loginReq.Email
	if identifier == "" {
		identifier = loginReq.BdaID
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[identifier]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < loginAttemptWindow {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	var user models.User
	var err error

	if loginReq.Email != "" {
		email, sanitizeErr := utils.SanitizeEmail(loginReq.Email)
		if sanitizeErr != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid email format",
			})
		}
		err = collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	} else {
		// Resolve BDA id through the usernames mapping
		userID, resolveErr := ac.userRepo.ResolveBdaID(ctx, loginReq.BdaID)
		if resolveErr != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		objID, idErr := primitive.ObjectIDFromHex(userID)
		if idErr != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		err = collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	}

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := utils.CheckPassword(loginReq.Password, user.Password); err != nil {
		ac.loginAttemptsMu.Lock()
		ac.loginAttempts[identifier] = loginAttempt{count: attempts.count + 1, lastAttempt: time.Now()}
		ac.loginAttemptsMu.Unlock()

		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, identifier)
	ac.loginAttemptsMu.Unlock()

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Keep the refresh token server-side so it can be revoked
	if ac.redis != nil {
		if err := ac.redis.Set(ctx, "refresh:"+user.ID.Hex(), refreshToken, 30*24*time.Hour).Err(); err != nil {
			log.Printf("Failed to store refresh token: %v", err)
		}
	}

	user.Password = ""

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// AdminToken exchanges a verified admin's email for a custom auth token
// minted by the identity provider
func (ac *AuthController) AdminToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	user, err := utils.GetUserFromToken(c, ac.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	if user.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Admin access required",
		})
	}

	if user.FirebaseUID == "" {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No identity record linked to this account",
		})
	}

	customToken, err := ac.identity.CustomToken(ctx, user.FirebaseUID, map[string]interface{}{"role": models.RoleAdmin})
	if err != nil {
		log.Printf("Failed to mint custom token for %s: %v", user.Email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create custom token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Custom token created",
		Data:    map[string]string{"token": customToken},
	})
}

// ValidateToken lets the frontend check session validity
func (ac *AuthController) ValidateToken(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, ac.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data:    user,
	})
}

// RefreshToken exchanges a stored refresh token for a fresh token pair
func (ac *AuthController) RefreshToken(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Refresh token is required",
		})
	}

	claims, err := middleware.ParseJWT(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired refresh token",
		})
	}

	// The token must still be the one held server-side; logout revokes it
	if ac.redis != nil {
		stored, err := ac.redis.Get(ctx, "refresh:"+claims.UserID).Result()
		if err != nil || stored != req.RefreshToken {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Refresh token has been revoked",
			})
		}
	}

	user, err := ac.userRepo.FindByIDOrBdaID(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User no longer exists",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if ac.redis != nil {
		if err := ac.redis.Set(ctx, "refresh:"+user.ID.Hex(), refreshToken, 30*24*time.Hour).Err(); err != nil {
			log.Printf("Failed to store refresh token: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token refreshed",
		Data: map[string]string{
			"token":        token,
			"refreshToken": refreshToken,
		},
	})
}

// Logout revokes the caller's refresh token and blacklists the access token
func (ac *AuthController) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	// The access token stays valid until expiry unless blacklisted here
	if token, ok := c.Get("user").(*jwt.Token); ok {
		tokenExpiry := time.Now().Add(24 * time.Hour)
		if claims.ExpiresAt > 0 {
			tokenExpiry = time.Unix(claims.ExpiresAt, 0)
		}
		middleware.BlacklistToken(token.Raw, tokenExpiry)
	}

	if ac.redis != nil {
		if err := ac.redis.Del(ctx, "refresh:"+claims.UserID).Err(); err != nil {
			log.Printf("Failed to revoke refresh token: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}
