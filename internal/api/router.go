package api

import (
	"aidirectory-backend/config"
	_ "aidirectory-backend/docs"
	"aidirectory-backend/internal/api/v1/admin/moderation"
	adminUser "aidirectory-backend/internal/api/v1/admin/user"
	"aidirectory-backend/internal/api/v1/auth"
	"aidirectory-backend/internal/api/v1/collections"
	"aidirectory-backend/internal/api/v1/common/upload"
	"aidirectory-backend/internal/api/v1/content"
	"aidirectory-backend/internal/api/v1/contributions"
	"aidirectory-backend/internal/api/v1/favorites"
	"aidirectory-backend/internal/api/v1/search"
	userRoutes "aidirectory-backend/internal/api/v1/user"
	"aidirectory-backend/internal/api/v1/votes"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/utils"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the HTTP handler. The database and Redis must already be connected.
func NewRouter(cfg *config.Config) *gin.Engine {
	utils.RegisterBindingValidators()

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", Health)

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, auth.NewHandler(cfg))
		content.RegisterRoutes(v1)
		collections.RegisterRoutes(v1)
		search.RegisterRoutes(v1)
		userRoutes.RegisterPublicRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			votes.RegisterRoutes(authorized)
			favorites.RegisterRoutes(authorized)
			contributions.RegisterRoutes(authorized)
			upload.RegisterRoutes(authorized)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			adminUser.RegisterRoutes(admin)
			moderation.RegisterRoutes(admin)
		}
	}

	return router
}

type HealthResponse struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Health godoc
// @Summary Health check
// @Description Reports database and Redis connectivity. Redis is optional, so only a database failure is unhealthy.
// @Tags health
// @Produce json
// @Success 200 {object} utils.Response{data=api.HealthResponse}
// @Failure 503 {object} utils.Response{data=api.HealthResponse}
// @Router /healthz [get]
func Health(c *gin.Context) {
	ctx := c.Request.Context()
	resp := HealthResponse{Database: "ok", Redis: "ok"}
	status := http.StatusOK

	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if database.RedisClient == nil {
		resp.Redis = "disabled"
	} else if err := database.RedisClient.Ping(ctx).Err(); err != nil {
		resp.Redis = "unavailable"
	}

	message := "Service is healthy"
	if status != http.StatusOK {
		message = "Service is unhealthy"
	}
	c.JSON(status, utils.NewResponse(status, message, resp))
}
