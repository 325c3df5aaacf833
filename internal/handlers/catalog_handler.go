package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tamarabusta/Aerolineas/internal/cache"
	"github.com/tamarabusta/Aerolineas/internal/models"
)

// CatalogService is the slice of the service layer the catalog endpoints
// need.
type CatalogService interface {
	CreateAircraft(ctx context.Context, req *models.AircraftRequest) (*models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]*models.Aircraft, error)
	CreateFlight(ctx context.Context, req *models.FlightRequest) (*models.Flight, error)
	UpdateFlightStatus(ctx context.Context, id int64, status string) error
	CreatePassenger(ctx context.Context, req *models.PassengerRequest) (*models.Passenger, error)
	GetPassengerByDocument(ctx context.Context, document string) (*models.Passenger, error)
	CreateSeat(ctx context.Context, aircraftID int64, req *models.SeatRequest) (*models.Seat, error)
	ListSeats(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error)
}

type CatalogHandler struct {
	service CatalogService
	cache   cache.Cache
}

func NewCatalogHandler(service CatalogService, c cache.Cache) *CatalogHandler {
	return &CatalogHandler{service: service, cache: c}
}

// POST /api/aircraft
func (h *CatalogHandler) CreateAircraft(w http.ResponseWriter, r *http.Request) {
	var req models.AircraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	a, err := h.service.CreateAircraft(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GET /api/aircraft
func (h *CatalogHandler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAircraft(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/flights
func (h *CatalogHandler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req models.FlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	f, err := h.service.CreateFlight(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// the cached flight list no longer matches
	if h.cache != nil {
		_ = h.cache.Del(r.Context(), cache.FlightListKey())
	}

	writeJSON(w, http.StatusCreated, f)
}

// PATCH /api/flights/{flight_id}/status
func (h *CatalogHandler) UpdateFlightStatus(w http.ResponseWriter, r *http.Request) {
	flightID, err := pathID(r, "flight_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if err := h.service.UpdateFlightStatus(r.Context(), flightID, strings.ToLower(strings.TrimSpace(req.Status))); err != nil {
		writeServiceError(w, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Del(r.Context(), cache.FlightListKey())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     flightID,
		"status": req.Status,
	})
}

// POST /api/passengers
func (h *CatalogHandler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	var req models.PassengerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	p, err := h.service.CreatePassenger(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GET /api/passengers?document=...
func (h *CatalogHandler) GetPassenger(w http.ResponseWriter, r *http.Request) {
	document := strings.TrimSpace(r.URL.Query().Get("document"))
	if document == "" {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	p, err := h.service.GetPassengerByDocument(r.Context(), document)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /api/aircraft/{aircraft_id}/seats
func (h *CatalogHandler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := pathID(r, "aircraft_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SeatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	seat, err := h.service.CreateSeat(r.Context(), aircraftID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seat)
}

// GET /api/aircraft/{aircraft_id}/seats?status=
func (h *CatalogHandler) ListSeats(w http.ResponseWriter, r *http.Request) {
	aircraftID, err := pathID(r, "aircraft_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))

	seats, err := h.service.ListSeats(r.Context(), aircraftID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seats)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}
