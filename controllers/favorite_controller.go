package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
)

type FavoriteController struct {
	service services.FavoriteService
	logger  *zap.Logger
}

func NewFavoriteController(service services.FavoriteService, logger *zap.Logger) *FavoriteController {
	return &FavoriteController{service: service, logger: logger}
}

// List handles GET /api/users/me/favorites.
func (ctrl *FavoriteController) List(c *gin.Context) {
	favorites, err := ctrl.service.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

// Add handles POST /api/users/me/favorites.
func (ctrl *FavoriteController) Add(c *gin.Context) {
	var req dto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := ctrl.service.Add(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Property added to favorites"})
}

// Remove handles DELETE /api/users/me/favorites/:propertyId.
func (ctrl *FavoriteController) Remove(c *gin.Context) {
	if err := ctrl.service.Remove(c.Request.Context(), middleware.CurrentUserID(c), c.Param("propertyId")); err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Property removed from favorites"})
}
