package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlasml/carprice-api/pkg/metrics"
	"github.com/atlasml/carprice-api/pkg/prediction"
)

// SystemStatus captures the startup probe results reported by /health.
// Evaluated once at process start, not re-checked per request.
type SystemStatus struct {
	FeaturesLoaded bool
	RedisConnected bool
}

// SystemController serves the root banner, health, and metrics routes.
type SystemController struct {
	svc    *prediction.Service
	status SystemStatus
}

// NewSystemController creates the controller.
func NewSystemController(svc *prediction.Service, status SystemStatus) *SystemController {
	return &SystemController{svc: svc, status: status}
}

// RegisterRoutes implements Controller.
func (sc *SystemController) RegisterRoutes(r *gin.Engine) {
	r.GET("/", sc.root)
	r.GET("/health", sc.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (sc *SystemController) root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "CarPrice Prediction API",
		"version": sc.svc.ModelVersion(),
		"endpoints": gin.H{
			"health":  "/health",
			"predict": "/predict",
			"logs":    "/prediction-logs/:id",
			"metrics": "/metrics",
		},
	})
}

// health reports liveness: non-success when the model is not loaded.
func (sc *SystemController) health(ctx *gin.Context) {
	if !sc.svc.ModelLoaded() {
		ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: "model not loaded"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"model_loaded":    true,
		"model_version":   sc.svc.ModelVersion(),
		"features_loaded": sc.status.FeaturesLoaded,
		"redis_connected": sc.status.RedisConnected,
	})
}
