package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/exporter"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/metadatastore"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// ExportHandler handles server-side export job requests
type ExportHandler struct {
	exporter *exporter.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *exporter.Service) *ExportHandler {
	return &ExportHandler{exporter: exports}
}

// HandleSubmit queues an export of every series of one selection
func (h *ExportHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "Exports are not available")
		return
	}

	var req models.ExportJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "Invalid request body")
		return
	}
	if scope, err := models.ParseScope(string(req.Scope)); err == nil {
		req.Scope = scope
	}

	job, err := h.exporter.Submit(&req)
	switch {
	case errors.Is(err, exporter.ErrInvalidRequest):
		writeBadRequestResponse(w, err.Error())
		return
	case errors.Is(err, dataset.ErrUnknownSelection):
		writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeInternalServerErrorResponse(w, "Failed to submit export job")
		return
	}

	writeJSONResponse(w, http.StatusAccepted, job)
}

// HandleGet returns the status of an export job
func (h *ExportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "Exports are not available")
		return
	}

	job, err := h.exporter.Get(mux.Vars(r)["id"])
	if errors.Is(err, metadatastore.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "Export job not found")
		return
	}
	if err != nil {
		writeInternalServerErrorResponse(w, "Failed to get export job")
		return
	}
	writeJSONResponse(w, http.StatusOK, job)
}
