package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tamarabusta/Aerolineas/internal/export"
	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ReservationService is the slice of the service layer the booking
// endpoints need.
type ReservationService interface {
	CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, reservationID int64) (*models.Booking, error)
	GetBookingByCode(ctx context.Context, code string) (*models.Booking, error)
	VoidTicket(ctx context.Context, ticketID int64) (*models.Ticket, error)
	TicketDocument(ctx context.Context, reservationID int64) (*export.TicketDocument, error)
}

type ReservationHandler struct {
	service  ReservationService
	renderer export.DocumentRenderer
}

// NewReservationHandler wires the booking endpoints. renderer may be nil;
// the document endpoint then answers 503.
func NewReservationHandler(service ReservationService, renderer export.DocumentRenderer) *ReservationHandler {
	return &ReservationHandler{service: service, renderer: renderer}
}

// POST /api/reservations
// 201: { "reservation": {...}, "ticket": {...} }
// 400 invalid input, 404 unknown flight/passenger/seat, 409 duplicate
// booking or taken seat, 422 departed flight, 500 code exhaustion.
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	booking, err := h.service.CreateReservation(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// GET /api/reservations/{reservation_id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reservation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GET /api/reservations/code/{code}
func (h *ReservationHandler) GetReservationByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	booking, err := h.service.GetBookingByCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GET /api/reservations/{reservation_id}/document
// Streams the rendered boarding document. 503 when no renderer is wired,
// 502 when the renderer fails.
func (h *ReservationHandler) GetReservationDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reservation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "document rendering is not configured")
		return
	}

	doc, err := h.service.TicketDocument(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	content, contentType, err := h.renderer.RenderTicket(r.Context(), doc)
	if err != nil {
		writeError(w, http.StatusBadGateway, "document rendering failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// POST /api/tickets/{ticket_id}/void
// 200 with the voided ticket; voiding an already voided ticket repeats
// the 200.
func (h *ReservationHandler) VoidTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "ticket_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ticket, err := h.service.VoidTicket(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
