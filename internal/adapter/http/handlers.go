package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/couchcryptid/air-quality-etl/internal/dashboard"
)

// Dashboard is the chart model the API serves. *dashboard.Controller
// implements it.
type Dashboard interface {
	Countries() []string
	Parameters() []string
	State() dashboard.State
	Select(s dashboard.State) (dashboard.State, error)
	BarChart(s dashboard.State) (dashboard.BarChart, error)
	Choropleth(featureNames []string) []dashboard.CountryFill
	Points(country string) []dashboard.Point
	Compare(country, pair string, n int) (dashboard.CompareChart, error)
}

type handlers struct {
	dash         Dashboard
	featureNames []string
	logger       *slog.Logger
}

func (h *handlers) countries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Countries())
}

func (h *handlers) parameters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Parameters())
}

func (h *handlers) getSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.State())
}

func (h *handlers) putSelection(w http.ResponseWriter, r *http.Request) {
	var s dashboard.State
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	got, err := h.dash.Select(s)
	if err != nil {
		h.writeDashboardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// barChart renders the stored selection unless country or parameter query
// values override it.
func (h *handlers) barChart(w http.ResponseWriter, r *http.Request) {
	s := h.dash.State()
	if v := r.URL.Query().Get("country"); v != "" {
		s.Country = v
	}
	if v := r.URL.Query().Get("parameter"); v != "" {
		s.Parameter = v
	}
	chart, err := h.dash.BarChart(s)
	if err != nil {
		h.writeDashboardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *handlers) choropleth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Choropleth(h.featureNames))
}

func (h *handlers) points(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Points(r.URL.Query().Get("country")))
}

func (h *handlers) compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		country = h.dash.State().Country
	}
	n := 0
	if v := q.Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = parsed
	}
	chart, err := h.dash.Compare(country, q.Get("pair"), n)
	if err != nil {
		h.writeDashboardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *handlers) legend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Legend())
}

func (h *handlers) writeDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownCountry):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrUnknownParameter), errors.Is(err, dashboard.ErrUnknownPair):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("dashboard request failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
