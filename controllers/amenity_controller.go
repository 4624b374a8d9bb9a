package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/services"
)

type AmenityController struct {
	service services.AmenityService
	logger  *zap.Logger
}

func NewAmenityController(service services.AmenityService, logger *zap.Logger) *AmenityController {
	return &AmenityController{service: service, logger: logger}
}

// List handles GET /api/amenities?category=.
func (ctrl *AmenityController) List(c *gin.Context) {
	amenities, err := ctrl.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

func (ctrl *AmenityController) Create(c *gin.Context) {
	var req dto.CreateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	amenity, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Amenity created successfully",
		Data:    amenity,
	})
}
