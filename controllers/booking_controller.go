package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
)

// BookingController serves guest and host booking endpoints.
type BookingController struct {
	service services.BookingService
	logger  *zap.Logger
}

func NewBookingController(service services.BookingService, logger *zap.Logger) *BookingController {
	return &BookingController{service: service, logger: logger}
}

// Create handles POST /api/bookings.
func (ctrl *BookingController) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	booking, err := ctrl.service.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// Mine handles GET /api/bookings/mine.
func (ctrl *BookingController) Mine(c *gin.Context) {
	bookings, err := ctrl.service.ListForGuest(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Hosting handles GET /api/bookings/hosting.
func (ctrl *BookingController) Hosting(c *gin.Context) {
	bookings, err := ctrl.service.ListForHost(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateStatus handles PATCH /api/bookings/:id/status.
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	booking, err := ctrl.service.UpdateStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Booking updated successfully",
		Data:    booking,
	})
}
