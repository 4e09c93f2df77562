package router

import (
	"github.com/gin-gonic/gin"

	"rxtract/internal/config"
	"rxtract/internal/handler"
	"rxtract/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	prescriptionH *handler.PrescriptionHandler,
	jobH *handler.JobHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKey(cfg.Auth.APIKey))

	prescriptions := v1.Group("/prescriptions")
	prescriptions.POST("/analyze", prescriptionH.Analyze)
	prescriptions.POST("/analyze-text", prescriptionH.AnalyzeText)
	prescriptions.POST("/analyze-async", jobH.Submit)
	prescriptions.POST("/compare", prescriptionH.Compare)
	prescriptions.GET("/sample", prescriptionH.Sample)

	jobs := v1.Group("/jobs")
	jobs.POST("", jobH.Submit)
	jobs.GET("/:id", jobH.Get)
	jobs.GET("/:id/export", jobH.Export)

	return r
}
