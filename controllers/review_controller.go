package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
)

type ReviewController struct {
	service services.ReviewService
	logger  *zap.Logger
}

func NewReviewController(service services.ReviewService, logger *zap.Logger) *ReviewController {
	return &ReviewController{service: service, logger: logger}
}

// Create handles POST /api/reviews.
func (ctrl *ReviewController) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	review, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Review created successfully",
		Data:    review,
	})
}

// ListForProperty handles GET /api/properties/:id/reviews.
func (ctrl *ReviewController) ListForProperty(c *gin.Context) {
	reviews, err := ctrl.service.ListForProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
