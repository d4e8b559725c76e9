// controllers/plan_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bdaestates/bda_backend/models"
	"github.com/bdaestates/bda_backend/repositories"
)

// PlanController serves the investment plan catalog
type PlanController struct {
	DB       *mongo.Client
	planRepo *repositories.PlanRepository
}

func NewPlanController(db *mongo.Client, planRepo *repositories.PlanRepository) *PlanController {
	return &PlanController{DB: db, planRepo: planRepo}
}

// ListPlans handler returns every plan in the catalog (admin only)
func (pc *PlanController) ListPlans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plans, err := pc.planRepo.ListPlans(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plans retrieved successfully",
		Data:    plans,
	})
}

// GetPlan handler returns a single plan by id
func (pc *PlanController) GetPlan(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, err := pc.planRepo.GetPlan(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Plan not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Plan retrieved successfully",
		Data:    plan,
	})
}
