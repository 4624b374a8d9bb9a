package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentals-api/middleware"
	"rentals-api/utils"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Properties *PropertyController
	Users      *UserController
	Amenities  *AmenityController
	Bookings   *BookingController
	Reviews    *ReviewController
	Favorites  *FavoriteController
	GraphQL    http.Handler
}

// NewRouter builds the gin engine with every REST route and the GraphQL
// endpoint.
func NewRouter(h Handlers, tokens *utils.TokenManager, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())

	auth := middleware.AuthMiddleware(tokens)
	host := middleware.HostMiddleware()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		properties := api.Group("/properties")
		properties.GET("", h.Properties.Search)
		properties.GET("/:id", h.Properties.GetByID)
		properties.GET("/:id/reviews", h.Reviews.ListForProperty)
		properties.POST("", auth, host, h.Properties.Create)
		properties.PUT("/:id", auth, h.Properties.Update)
		properties.DELETE("/:id", auth, h.Properties.Delete)

		api.GET("/amenities", h.Amenities.List)
		api.POST("/amenities", auth, h.Amenities.Create)

		api.POST("/auth/register", h.Users.Register)
		api.POST("/auth/login", h.Users.Login)

		users := api.Group("/users", auth)
		users.GET("/me", h.Users.Me)
		users.POST("/me/host", h.Users.BecomeHost)
		users.GET("/me/favorites", h.Favorites.List)
		users.POST("/me/favorites", h.Favorites.Add)
		users.DELETE("/me/favorites/:propertyId", h.Favorites.Remove)

		bookings := api.Group("/bookings", auth)
		bookings.POST("", h.Bookings.Create)
		bookings.GET("/mine", h.Bookings.Mine)
		bookings.GET("/hosting", host, h.Bookings.Hosting)
		bookings.PATCH("/:id/status", h.Bookings.UpdateStatus)

		api.POST("/reviews", auth, h.Reviews.Create)
	}

	if h.GraphQL != nil {
		router.POST("/graphql", gin.WrapH(h.GraphQL))
	}

	return router
}
