package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project pricing modes
const (
	PriceModePerSqFt = "perSqFt"
	PriceModeFlat    = "flat"
)

// Project model
type Project struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Type           string             `json:"type" bson:"type"` // "plot", "flat", "villa", ...
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	PriceMode      string             `json:"priceMode" bson:"priceMode"` // "perSqFt" or "flat"
	Price          float64            `json:"price" bson:"price"`
	Discount       float64            `json:"discount,omitempty" bson:"discount,omitempty"` // percent
	AreaUnit       string             `json:"areaUnit,omitempty" bson:"areaUnit,omitempty"`
	PlotSizes      []string           `json:"plotSizes,omitempty" bson:"plotSizes,omitempty"`
	TotalPlots     int                `json:"totalPlots" bson:"totalPlots"`
	AvailablePlots int                `json:"availablePlots" bson:"availablePlots"`
	BookedPlots    int                `json:"bookedPlots" bson:"bookedPlots"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy      string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy      string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

// CreateProjectRequest model
type CreateProjectRequest struct {
	Name       string   `json:"name" validate:"required"`
	Type       string   `json:"type" validate:"required"`
	Location   string   `json:"location,omitempty"`
	PriceMode  string   `json:"priceMode" validate:"required,oneof=perSqFt flat"`
	Price      float64  `json:"price" validate:"required,gt=0"`
	Discount   float64  `json:"discount,omitempty"`
	AreaUnit   string   `json:"areaUnit,omitempty"`
	PlotSizes  []string `json:"plotSizes,omitempty"`
	TotalPlots int      `json:"totalPlots,omitempty"`
}

// UpdateProjectRequest is a partial patch; nil fields are left untouched
type UpdateProjectRequest struct {
	Name       *string   `json:"name,omitempty"`
	Type       *string   `json:"type,omitempty"`
	Location   *string   `json:"location,omitempty"`
	PriceMode  *string   `json:"priceMode,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	Discount   *float64  `json:"discount,omitempty"`
	AreaUnit   *string   `json:"areaUnit,omitempty"`
	PlotSizes  *[]string `json:"plotSizes,omitempty"`
	TotalPlots *int      `json:"totalPlots,omitempty"`
}
