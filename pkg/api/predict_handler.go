package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metrics"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/predictor"
)

// PredictHandler handles prediction form requests
type PredictHandler struct {
	pipeline *predictor.Pipeline
	store    metadatastore.MetadataStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewPredictHandler creates a new prediction handler. store may be nil,
// in which case predictions are not recorded.
func NewPredictHandler(pipeline *predictor.Pipeline, store metadatastore.MetadataStore, m *metrics.Metrics, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		pipeline: pipeline,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// HandleOptions returns the choices of the prediction form
func (h *PredictHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.pipeline.Options())
}

// HandlePredict runs one form submission through the pipeline
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.PredictionErrors.WithLabelValues("invalid_input").Inc()
		writeBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.pipeline.Predict(req)
	if err != nil {
		status, kind := predictionErrorStatus(err)
		h.metrics.PredictionErrors.WithLabelValues(kind).Inc()
		if status == http.StatusInternalServerError {
			writeInternalServerErrorResponse(w, "Prediction failed")
			return
		}
		writeErrorResponse(w, status, err.Error())
		return
	}
	h.metrics.Predictions.WithLabelValues(result.Label).Inc()

	record := &models.PredictionRecord{
		ID:        uuid.New().String(),
		Request:   req,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}
	if h.store != nil {
		if err := h.store.SavePrediction(record); err != nil {
			h.logger.Warn("failed to record prediction", zap.String("id", record.ID), zap.Error(err))
		}
	}

	writeJSONResponse(w, http.StatusOK, record)
}

// HandleHistory lists recorded predictions, most recent first
func (h *PredictHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "Prediction history is not available")
		return
	}

	records, err := h.store.ListPredictions(parseLimit(r, 50))
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to list predictions")
		return
	}
	counts, err := h.store.CountPredictionsByLabel()
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to count predictions")
		return
	}

	if records == nil {
		records = []*models.PredictionRecord{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"predictions": records,
		"count":       len(records),
		"by_label":    counts,
	})
}

// HandleGet returns one recorded prediction
func (h *PredictHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "Prediction history is not available")
		return
	}

	record, err := h.store.GetPrediction(mux.Vars(r)["id"])
	if errors.Is(err, metadatastore.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "Prediction not found")
		return
	}
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to get prediction")
		return
	}
	writeJSONResponse(w, http.StatusOK, record)
}

// predictionErrorStatus maps a pipeline error to an HTTP status and a metric label
func predictionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, predictor.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, predictor.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown_category"
	case errors.Is(err, predictor.ErrUnmappedLabel):
		return http.StatusInternalServerError, "unmapped_label"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
