package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/dataset"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// DatasetHandler serves the dashboard views of the protest dataset
type DatasetHandler struct {
	datasets       *dataset.Store
	defaultEndYear int
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasets *dataset.Store, defaultEndYear int) *DatasetHandler {
	return &DatasetHandler{
		datasets:       datasets,
		defaultEndYear: defaultEndYear,
	}
}

// HandleSummary describes the active dataset snapshot
func (h *DatasetHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.datasets.Current().Summary(h.defaultEndYear))
}

// HandleYears lists the years of the dataset and the default range
func (h *DatasetHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	ds := h.datasets.Current()
	from, to := ds.DefaultYearRange(h.defaultEndYear)
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"years":        ds.Years(),
		"default_from": from,
		"default_to":   to,
	})
}

// HandleRegions lists the region selector values
func (h *DatasetHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{"regions": h.datasets.Current().Regions()})
}

// HandleCountries lists the country selector values
func (h *DatasetHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{"countries": h.datasets.Current().Countries()})
}

// HandleWorld returns the protests per country for one year, the first
// year of the dataset when none is given
func (h *DatasetHandler) HandleWorld(w http.ResponseWriter, r *http.Request) {
	ds := h.datasets.Current()

	year, err := parseYearParam(r, "year")
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	if year == 0 {
		year, _ = ds.YearBounds()
	}

	counts := ds.CountryCounts(year)
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"year":      year,
		"countries": counts,
	})
}

// HandleTrend returns one aggregated series as JSON, or as a CSV download
// with format=csv
func (h *DatasetHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	query := r.URL.Query()

	scope, err := models.ParseScope(vars["scope"])
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	from, err := parseYearParam(r, "from")
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}
	to, err := parseYearParam(r, "to")
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	q := models.TrendQuery{
		Scope:    scope,
		Name:     vars["name"],
		FromYear: from,
		ToYear:   to,
		Topic:    models.Topic(vars["topic"]),
		Chart:    models.ChartType(query.Get("chart")),
	}
	if v := query.Get("demand"); v != "" {
		demand, err := models.ParseDemand(v)
		if err != nil {
			writeBadRequestResponse(w, err.Error())
			return
		}
		q.Demand = demand
	}
	if v := query.Get("violence"); v != "" {
		kind, err := models.ParseViolenceKind(v)
		if err != nil {
			writeBadRequestResponse(w, err.Error())
			return
		}
		q.Violence = kind
	}

	series, err := h.datasets.Current().Trend(q, h.defaultEndYear)
	if errors.Is(err, dataset.ErrUnknownSelection) {
		writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	switch query.Get("format") {
	case "", "json":
		writeJSONResponse(w, http.StatusOK, series)
	case "csv":
		var buf bytes.Buffer
		if err := dataset.WriteCSV(&buf, series); err != nil {
			writeInternalServerErrorResponse(w, "Failed to render CSV")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", series.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	default:
		writeBadRequestResponse(w, fmt.Sprintf("unsupported format: %q", query.Get("format")))
	}
}
