// controllers/user_controller.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
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

// UserController contains member management logic
type UserController struct {
	DB         *mongo.Client
	userRepo   *repositories.UserRepository
	planRepo   *repositories.PlanRepository
	commission *services.CommissionService
	identity   services.IdentityProvider
	hub        *websocket.Hub
}

// NewUserController creates a new user controller
func NewUserController(db *mongo.Client, userRepo *repositories.UserRepository, planRepo *repositories.PlanRepository, commission *services.CommissionService, identity services.IdentityProvider, hub *websocket.Hub) *UserController {
	return &UserController{
		DB:         db,
		userRepo:   userRepo,
		planRepo:   planRepo,
		commission: commission,
		identity:   identity,
		hub:        hub,
	}
}

// CreateUser handler creates a new member (admin only)
func (uc *UserController) CreateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "users")
	claims := middleware.GetUserFromToken(c)

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, password and investment plan are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email format",
		})
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid role",
		})
	}

	// Resolve the plan; planAmount is copied at creation time
	plan, err := uc.planRepo.GetPlan(ctx, req.InvestmentPlanID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Investment plan not found",
		})
	}

	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	bdaID, err := uc.userRepo.NextBdaID(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to assign BDA id",
		})
	}

	firebaseUID, err := uc.identity.CreateIdentity(ctx, email, req.Password, req.FullName)
	if err != nil {
		log.Printf("Failed to create identity for %s: %v", email, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create identity record",
		})
	}

	if err := uc.identity.SetRoleClaim(ctx, firebaseUID, role); err != nil {
		log.Printf("Failed to set role claim for %s: %v", email, err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	user := models.User{
		ID:               primitive.NewObjectID(),
		Email:            email,
		Password:         hashedPassword,
		FullName:         req.FullName,
		SearchName:       strings.ToLower(req.FullName),
		Role:             role,
		BdaID:            bdaID,
		InvestmentPlanID: plan.ID,
		PlanAmount:       plan.Amount,
		ReferralID:       req.ReferralID,
		Phone:            req.Phone,
		Address:          req.Address,
		BankDetails:      req.BankDetails,
		Nominee:          req.Nominee,
		FirebaseUID:      firebaseUID,
		CreatedAt:        now,
		CreatedBy:        claims.UserID,
		UpdatedAt:        now,
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		// The identity record now exists without a member document; this
		// partial state is logged for manual reconciliation, not rolled back
		log.Printf("Failed to insert member %s after identity creation: %v", email, err)
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Email already registered",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create member",
		})
	}

	if err := uc.userRepo.SaveUsernameMapping(ctx, bdaID, user.ID.Hex()); err != nil {
		log.Printf("Failed to save username mapping for %s: %v", bdaID, err)
	}

	// Signup referral commission on the new member's plan amount; best-effort
	if req.ReferralID != "" {
		bonus, referrer, err := uc.commission.CalculateReferralBonus(ctx, req.ReferralID, user.PlanAmount)
		if err != nil {
			log.Printf("Failed to calculate signup referral bonus for %s: %v", bdaID, err)
		} else {
			tx, err := uc.commission.RecordReferralCommission(ctx, referrer, bonus, models.ReferralSourceSignup, bdaID, claims.UserID)
			if err != nil {
				log.Printf("Failed to record signup referral commission for %s: %v", bdaID, err)
			} else {
				uc.hub.NotifyCommissionCreated(tx)
			}
		}
	}

	go utils.SendWelcomeEmail(&user)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Member created successfully",
		Data: map[string]string{
			"id":    user.ID.Hex(),
			"bdaId": user.BdaID,
		},
	})
}

// GetProfile handler gets the current user's profile
func (uc *UserController) GetProfile(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, uc.DB)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// GetUser handler gets a member by id or BDA id (admin or self)
func (uc *UserController) GetUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	targetID := c.Param("id")

	user, err := uc.userRepo.FindByIDOrBdaID(ctx, targetID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find member",
		})
	}

	if claims.Role != models.RoleAdmin && claims.UserID != user.ID.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Member retrieved successfully",
		Data:    user,
	})
}

var sortableUserFields = map[string]string{
	"fullName":   "searchName",
	"email":      "email",
	"bdaId":      "bdaId",
	"planAmount": "planAmount",
	"createdAt":  "createdAt",
}

// GetAllUsers handler lists members with search, filter, sort and pagination
// (admin only). Result set size and current page are server-computed.
func (uc *UserController) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "users")

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

	filter := bson.M{}

	if search := strings.TrimSpace(c.QueryParam("search")); search != "" {
		pattern := regexp.QuoteMeta(strings.ToLower(search))
		filter["$or"] = []bson.M{
			{"searchName": bson.M{"$regex": pattern}},
			{"email": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if planID := c.QueryParam("investmentPlan"); planID != "" {
		filter["investmentPlanId"] = planID
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count members",
		})
	}

	sortField := "createdAt"
	if mapped, ok := sortableUserFields[c.QueryParam("sortField")]; ok {
		sortField = mapped
	}
	sortDir := -1
	if c.QueryParam("sortDirection") == "asc" {
		sortDir = 1
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortDir}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := collection.Find(ctx, filter, findOpts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list members",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode members",
		})
	}

	for i := range users {
		users[i].Password = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Members retrieved successfully",
		Data: models.UserListData{
			Users:      users,
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}

// UpdateUser handler patches a member. Self may update non-role fields;
// admin may update anything except demoting an existing admin.
func (uc *UserController) UpdateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "users")
	claims := middleware.GetUserFromToken(c)

	target, err := uc.userRepo.FindByIDOrBdaID(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find member",
		})
	}

	isAdmin := claims.Role == models.RoleAdmin
	isSelf := claims.UserID == target.ID.Hex()

	if !isAdmin && !isSelf {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	var patch models.UpdateUserRequest
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if patch.Role != nil {
		if !isAdmin {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Only admins may change roles",
			})
		}
		if *patch.Role != models.RoleUser && *patch.Role != models.RoleAdmin {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid role",
			})
		}
		// An existing admin can never be demoted
		if target.Role == models.RoleAdmin && *patch.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Admins cannot be demoted",
			})
		}
	}

	// Plan and referral changes are admin operations
	if (patch.InvestmentPlanID != nil || patch.ReferralID != nil) && !isAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only admins may change plan or referral",
		})
	}

	update := bson.M{
		"updatedAt": time.Now(),
		"updatedBy": claims.UserID,
	}

	if patch.FullName != nil {
		update["fullName"] = *patch.FullName
		update["searchName"] = strings.ToLower(*patch.FullName)
	}
	if patch.Phone != nil {
		phone, err := utils.SanitizePhone(*patch.Phone)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid phone number",
			})
		}
		update["phone"] = phone
	}
	if patch.ProfilePic != nil {
		update["profilePic"] = *patch.ProfilePic
	}
	if patch.Role != nil {
		update["role"] = *patch.Role
	}
	if patch.Address != nil {
		update["address"] = patch.Address
	}
	if patch.BankDetails != nil {
		update["bankDetails"] = patch.BankDetails
	}
	if patch.Nominee != nil {
		update["nominee"] = patch.Nominee
	}

	newPlanAmount := target.PlanAmount
	if patch.InvestmentPlanID != nil {
		plan, err := uc.planRepo.GetPlan(ctx, *patch.InvestmentPlanID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Investment plan not found",
			})
		}
		update["investmentPlanId"] = plan.ID
		update["planAmount"] = plan.Amount
		newPlanAmount = plan.Amount
	}

	newReferralID := target.ReferralID
	if patch.ReferralID != nil {
		if *patch.ReferralID != "" {
			if _, err := uc.userRepo.FindByIDOrBdaID(ctx, *patch.ReferralID); err != nil {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Referrer not found",
				})
			}
		}
		update["referralId"] = *patch.ReferralID
		newReferralID = *patch.ReferralID
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": target.ID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update member",
		})
	}

	// Re-derive the single signup referral commission when plan or referral changed
	if patch.ReferralID != nil || (patch.InvestmentPlanID != nil && target.ReferralID != "") {
		if newReferralID == "" {
			if _, err := uc.commission.ReplaceSignupCommission(ctx, target.BdaID, nil, nil, claims.UserID); err != nil {
				log.Printf("Failed to clear signup commission for %s: %v", target.BdaID, err)
			}
		} else {
			bonus, referrer, err := uc.commission.CalculateReferralBonus(ctx, newReferralID, newPlanAmount)
			if err != nil {
				log.Printf("Failed to recompute signup commission for %s: %v", target.BdaID, err)
			} else if _, err := uc.commission.ReplaceSignupCommission(ctx, target.BdaID, referrer, bonus, claims.UserID); err != nil {
				log.Printf("Failed to replace signup commission for %s: %v", target.BdaID, err)
			}
		}
	}

	// Propagate display-name/photo changes to the identity record
	if target.FirebaseUID != "" && (patch.FullName != nil || patch.ProfilePic != nil) {
		if err := uc.identity.UpdateIdentity(ctx, target.FirebaseUID, patch.FullName, patch.ProfilePic); err != nil {
			log.Printf("Failed to update identity for %s: %v", target.BdaID, err)
		}
	}
	if target.FirebaseUID != "" && patch.Role != nil {
		if err := uc.identity.SetRoleClaim(ctx, target.FirebaseUID, *patch.Role); err != nil {
			log.Printf("Failed to update role claim for %s: %v", target.BdaID, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Member updated successfully",
	})
}

// DeleteUser handler removes a member and its identity record (admin only).
// An admin may delete themselves but never another admin.
func (uc *UserController) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "users")
	claims := middleware.GetUserFromToken(c)

	target, err := uc.userRepo.FindByIDOrBdaID(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Member not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find member",
		})
	}

	if target.Role == models.RoleAdmin && claims.UserID != target.ID.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Admins cannot delete other admins",
		})
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": target.ID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete member",
		})
	}

	// Identity and mapping removals are sequential follow-ups; a failure
	// here leaves an orphan that is logged for manual reconciliation
	if target.FirebaseUID != "" {
		if err := uc.identity.DeleteIdentity(ctx, target.FirebaseUID); err != nil {
			log.Printf("Failed to delete identity for %s: %v", target.BdaID, err)
		}
	}
	if err := uc.userRepo.DeleteUsernameMapping(ctx, target.BdaID); err != nil {
		log.Printf("Failed to delete username mapping for %s: %v", target.BdaID, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Member deleted successfully",
	})
}

// GetNotifications handler lists the caller's in-app notifications
func (uc *UserController) GetNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "notifications")
	claims := middleware.GetUserFromToken(c)

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	cursor, err := collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list notifications",
		})
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode notifications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkNotificationRead handler flags a notification as read
func (uc *UserController) MarkNotificationRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "notifications")
	claims := middleware.GetUserFromToken(c)

	notifID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": notifID, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update notification",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Notification marked as read",
	})
}

// UploadProfilePhoto handler stores a resized profile photo for the caller
func (uc *UserController) UploadProfilePhoto(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Photo file is required",
		})
	}

	if !utils.IsValidImageFile(file) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid image file",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read photo",
		})
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unsupported image format",
		})
	}

	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll("uploads/profiles", 0755); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store photo",
		})
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(file.Filename)))
	photoPath := filepath.Join("uploads", "profiles", filename)
	if err := imaging.Save(img, photoPath); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store photo",
		})
	}

	photoURL := "/" + filepath.ToSlash(photoPath)
	if err := uc.userRepo.UpdateProfilePicture(ctx, userID, photoURL); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	// Mirror the photo to the identity record
	user, err := uc.userRepo.FindByIDOrBdaID(ctx, claims.UserID)
	if err == nil && user.FirebaseUID != "" {
		if err := uc.identity.UpdateIdentity(ctx, user.FirebaseUID, nil, &photoURL); err != nil {
			log.Printf("Failed to update identity photo for %s: %v", user.BdaID, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile photo updated",
		Data:    map[string]string{"profilePic": photoURL},
	})
}
