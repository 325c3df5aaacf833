package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tamarabusta/Aerolineas/internal/cache"
	"github.com/tamarabusta/Aerolineas/internal/export"
	"github.com/tamarabusta/Aerolineas/internal/metrics"
	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ReportService is the read side the reporting endpoints consume.
type ReportService interface {
	ListFlights(ctx context.Context) ([]*models.Flight, error)
	GetManifest(ctx context.Context, flightID int64) (*models.FlightManifest, error)
	GetSummary(ctx context.Context) (*models.Summary, error)
}

type ReportHandler struct {
	service  ReportService
	cache    cache.Cache
	ttl      time.Duration
	renderer export.DocumentRenderer
}

// NewReportHandler wires the reporting endpoints. renderer may be nil;
// the PDF export then answers 503.
func NewReportHandler(service ReportService, c cache.Cache, ttl time.Duration, renderer export.DocumentRenderer) *ReportHandler {
	return &ReportHandler{service: service, cache: c, ttl: ttl, renderer: renderer}
}

// GET /api/flights
func (h *ReportHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r, cache.FlightListKey()) {
		return
	}

	flights, err := h.service.ListFlights(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondAndCache(w, r, cache.FlightListKey(), flights)
}

// GET /api/reports/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r, cache.SummaryKey()) {
		return
	}

	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondAndCache(w, r, cache.SummaryKey(), summary)
}

// GET /api/reports/flights/{flight_id}
func (h *ReportHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathID(r, "flight_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.FlightManifestKey(flightID)
	if h.serveCached(w, r, key) {
		return
	}

	manifest, err := h.service.GetManifest(r.Context(), flightID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.respondAndCache(w, r, key, manifest)
}

// GET /api/reports/flights/{flight_id}/csv
// Always reads through to the database: exports are rare and must be
// exact.
func (h *ReportHandler) GetManifestCSV(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathID(r, "flight_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	manifest, err := h.service.GetManifest(r.Context(), flightID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.ManifestCSVFilename(manifest.Flight)))
	w.WriteHeader(http.StatusOK)

	// the status line is already on the wire, so a write failure here can
	// only abort the stream
	_ = export.WriteManifestCSV(w, manifest.Rows)
}

// GET /api/reports/flights/{flight_id}/pdf
// Like the CSV export, always reads through to the database. 503 when no
// renderer is wired, 502 when the renderer fails.
func (h *ReportHandler) GetManifestPDF(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathID(r, "flight_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "document rendering is not configured")
		return
	}

	manifest, err := h.service.GetManifest(r.Context(), flightID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	content, contentType, err := h.renderer.RenderManifest(r.Context(), manifest)
	if err != nil {
		writeError(w, http.StatusBadGateway, "document rendering failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// serveCached answers from Redis when the key is present. Cache errors
// degrade to a miss.
func (h *ReportHandler) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.cache == nil {
		return false
	}
	b, ok, err := h.cache.Get(r.Context(), key)
	if err != nil || !ok {
		return false
	}
	metrics.IncRedisHit()
	w.Header().Set("X-Cache", "HIT")
	writeRawJSON(w, http.StatusOK, b)
	return true
}

func (h *ReportHandler) respondAndCache(w http.ResponseWriter, r *http.Request, key string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(r.Context(), key, b, h.ttl)
	}

	metrics.IncRedisMiss()
	w.Header().Set("X-Cache", "MISS")
	writeRawJSON(w, http.StatusOK, b)
}
