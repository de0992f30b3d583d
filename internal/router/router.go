package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "linkbox/docs" // registers the swagger spec
	"linkbox/internal/config"
	"linkbox/internal/handler"
	"linkbox/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log zerolog.Logger,
	transferH *handler.TransferHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if !cfg.Server.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	api.GET("/health", healthH.Liveness)
	api.POST("/generate-presigned-url", transferH.Presign)

	files := api.Group("/files")
	files.GET("/:id", transferH.GetMetadata)
	files.GET("/:id/download", transferH.Download)

	return r
}
