package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/search"
	"rentals-api/services"
)

// PropertyController serves the listing endpoints.
type PropertyController struct {
	search     services.SearchService
	properties services.PropertyService
	logger     *zap.Logger
}

func NewPropertyController(search services.SearchService, properties services.PropertyService, logger *zap.Logger) *PropertyController {
	return &PropertyController{search: search, properties: properties, logger: logger}
}

// Search handles GET /api/properties.
func (ctrl *PropertyController) Search(c *gin.Context) {
	// 1. Parse and validate the query string
	filter, page, err := search.ParseQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	// 2. Search
	response, err := ctrl.search.Search(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetByID handles GET /api/properties/:id.
func (ctrl *PropertyController) GetByID(c *gin.Context) {
	property, err := ctrl.search.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/properties.
func (ctrl *PropertyController) Create(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	property, err := ctrl.properties.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Property created successfully",
		Data:    property,
	})
}

// Update handles PUT /api/properties/:id.
func (ctrl *PropertyController) Update(c *gin.Context) {
	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	property, err := ctrl.properties.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Property updated successfully",
		Data:    property,
	})
}

// Delete handles DELETE /api/properties/:id.
func (ctrl *PropertyController) Delete(c *gin.Context) {
	if err := ctrl.properties.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Property deleted successfully"})
}
