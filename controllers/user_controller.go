package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/middleware"
	"rentals-api/services"
)

// UserController serves registration, login and the current account.
type UserController struct {
	service services.UserService
	logger  *zap.Logger
}

func NewUserController(service services.UserService, logger *zap.Logger) *UserController {
	return &UserController{service: service, logger: logger}
}

// Register handles POST /api/auth/register.
func (ctrl *UserController) Register(c *gin.Context) {
	// 1. Bind the body
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	// 2. Create the account
	resp, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/users/me.
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.service.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// BecomeHost handles POST /api/users/me/host. The response carries a new
// token with the host role.
func (ctrl *UserController) BecomeHost(c *gin.Context) {
	resp, err := ctrl.service.BecomeHost(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, ctrl.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
