package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/atlasml/carprice-api/pkg/prediction"
)

// PredictionController serves the prediction and audit-log routes.
type PredictionController struct {
	svc *prediction.Service
	log zerolog.Logger
}

// NewPredictionController creates the controller.
func NewPredictionController(svc *prediction.Service, log zerolog.Logger) *PredictionController {
	return &PredictionController{svc: svc, log: log}
}

// RegisterRoutes implements Controller.
func (pc *PredictionController) RegisterRoutes(r *gin.Engine) {
	r.POST("/predict", pc.predict)
	r.GET("/prediction-logs/:id", pc.predictionLog)
}

// PredictRequest is the inbound payload. Pointer fields distinguish a
// missing field from a legitimate zero (max_power_bhp: 0 is valid).
type PredictRequest struct {
	Year        *int `json:"year" binding:"required"`
	MaxPowerBHP *int `json:"max_power_bhp" binding:"required"`
	TorqueNM    *int `json:"torque_nm" binding:"required"`
	EngineCC    *int `json:"engine_cc" binding:"required"`
}

// FeatureSet converts the bound request into the domain type.
func (r PredictRequest) FeatureSet() prediction.FeatureSet {
	return prediction.FeatureSet{
		Year:        *r.Year,
		MaxPowerBHP: *r.MaxPowerBHP,
		TorqueNM:    *r.TorqueNM,
		EngineCC:    *r.EngineCC,
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// predict handles POST /predict. Validation failures are rejected with
// 422 before the orchestrator runs and are never counted as prediction
// errors.
func (pc *PredictionController) predict(ctx *gin.Context) {
	var req PredictRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		pc.log.Warn().Err(err).Msg("predict bind failed")
		ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request: " + err.Error()})
		return
	}

	features := req.FeatureSet()
	if err := features.Validate(); err != nil {
		pc.log.Warn().Err(err).Msg("predict validation failed")
		ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	rec, err := pc.svc.Predict(ctx.Request.Context(), features)
	if err != nil {
		if errors.Is(err, prediction.ErrModelNotLoaded) {
			ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: "model is not available"})
			return
		}
		pc.log.Error().Err(err).Msg("predict failed")
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "prediction failed"})
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

// predictionLog handles GET /prediction-logs/:id.
func (pc *PredictionController) predictionLog(ctx *gin.Context) {
	id := ctx.Param("id")

	rec, err := pc.svc.GetLog(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, prediction.ErrLogNotFound):
			ctx.JSON(http.StatusNotFound, ErrorResponse{Detail: "prediction log not found"})
		case errors.Is(err, prediction.ErrStoreUnavailable):
			pc.log.Error().Err(err).Str("prediction_id", id).Msg("audit store unreachable")
			ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: "audit log store unavailable"})
		default:
			pc.log.Error().Err(err).Str("prediction_id", id).Msg("audit lookup failed")
			ctx.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "audit lookup failed"})
		}
		return
	}

	ctx.JSON(http.StatusOK, rec)
}
