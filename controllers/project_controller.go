// controllers/project_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bdaestates/bda_backend/config"
	"github.com/bdaestates/bda_backend/middleware"
	"github.com/bdaestates/bda_backend/models"
)

// ProjectController manages the property project catalog
type ProjectController struct {
	DB *mongo.Client
}

func NewProjectController(db *mongo.Client) *ProjectController {
	return &ProjectController{DB: db}
}

// CreateProject handler adds a project to the catalog (admin only)
func (pc *ProjectController) CreateProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "projects")
	claims := middleware.GetUserFromToken(c)

	var req models.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, type, price mode and price are required",
		})
	}

	now := time.Now()
	project := models.Project{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Type:           req.Type,
		Location:       req.Location,
		PriceMode:      req.PriceMode,
		Price:          req.Price,
		Discount:       req.Discount,
		AreaUnit:       req.AreaUnit,
		PlotSizes:      req.PlotSizes,
		TotalPlots:     req.TotalPlots,
		AvailablePlots: req.TotalPlots,
		BookedPlots:    0,
		CreatedAt:      now,
		CreatedBy:      claims.UserID,
		UpdatedAt:      now,
	}

	if _, err := collection.InsertOne(ctx, project); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create project",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Project created successfully",
		Data:    project,
	})
}

// ListProjects handler returns the catalog, newest first
func (pc *ProjectController) ListProjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "projects")

	filter := bson.M{}
	if projectType := c.QueryParam("type"); projectType != "" {
		filter["type"] = projectType
	}

	cursor, err := collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list projects",
		})
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode projects",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Projects retrieved successfully",
		Data:    projects,
	})
}

// GetProject handler returns a single project by id
func (pc *ProjectController) GetProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "projects")

	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid project ID",
		})
	}

	var project models.Project
	if err := collection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Project not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find project",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Project retrieved successfully",
		Data:    project,
	})
}

// UpdateProject handler patches a project (admin only)
func (pc *ProjectController) UpdateProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "projects")
	claims := middleware.GetUserFromToken(c)

	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid project ID",
		})
	}

	var project models.Project
	if err := collection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Project not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find project",
		})
	}

	var patch models.UpdateProjectRequest
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	update := bson.M{
		"updatedAt": time.Now(),
		"updatedBy": claims.UserID,
	}

	if patch.Name != nil {
		update["name"] = *patch.Name
	}
	if patch.Type != nil {
		update["type"] = *patch.Type
	}
	if patch.Location != nil {
		update["location"] = *patch.Location
	}
	if patch.PriceMode != nil {
		if *patch.PriceMode != models.PriceModePerSqFt && *patch.PriceMode != models.PriceModeFlat {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid price mode",
			})
		}
		update["priceMode"] = *patch.PriceMode
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Price must be positive",
			})
		}
		update["price"] = *patch.Price
	}
	if patch.Discount != nil {
		update["discount"] = *patch.Discount
	}
	if patch.AreaUnit != nil {
		update["areaUnit"] = *patch.AreaUnit
	}
	if patch.PlotSizes != nil {
		update["plotSizes"] = *patch.PlotSizes
	}
	if patch.TotalPlots != nil {
		if *patch.TotalPlots < project.BookedPlots {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Total plots cannot be below booked plots",
			})
		}
		update["totalPlots"] = *patch.TotalPlots
		update["availablePlots"] = *patch.TotalPlots - project.BookedPlots
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update project",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Project updated successfully",
	})
}

// DeleteProject handler removes a project with no active bookings (admin only)
func (pc *ProjectController) DeleteProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(pc.DB, "projects")

	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid project ID",
		})
	}

	var project models.Project
	if err := collection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Project not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find project",
		})
	}

	if project.BookedPlots > 0 {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Projects with bookings cannot be deleted",
		})
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": projectID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete project",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Project deleted successfully",
	})
}
