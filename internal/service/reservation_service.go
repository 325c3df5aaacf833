package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tamarabusta/Aerolineas/internal/cache"
	"github.com/tamarabusta/Aerolineas/internal/export"
	"github.com/tamarabusta/Aerolineas/internal/kafka"
	"github.com/tamarabusta/Aerolineas/internal/metrics"
	"github.com/tamarabusta/Aerolineas/internal/models"
	"github.com/tamarabusta/Aerolineas/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// Booking validation failures, in the order they are checked.
	ErrStaleFlight      = errors.New("flight departure is in the past")
	ErrDuplicateBooking = errors.New("passenger already has a reservation for this flight")
	ErrSeatUnavailable  = errors.New("seat is not available")
)

// BookingStore is the persistence contract of the reservation engine.
// *repository.Store implements it; tests mock it.
type BookingStore interface {
	GetFlight(ctx context.Context, id int64) (*models.Flight, error)
	GetSeat(ctx context.Context, id int64) (*models.Seat, error)
	GetPassenger(ctx context.Context, id int64) (*models.Passenger, error)
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	GetReservationByCode(ctx context.Context, code string) (*models.Reservation, error)

	PassengerHasReservation(ctx context.Context, flightID, passengerID int64) (bool, error)
	SeatHasReservation(ctx context.Context, seatID int64) (bool, error)
	ReservationCodeExists(ctx context.Context, code string) (bool, error)

	CreateBooking(ctx context.Context, res *models.Reservation, eventTopic string, buildEvent func() (json.RawMessage, error)) (*models.Ticket, error)

	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	GetTicketByReservation(ctx context.Context, reservationID int64) (*models.Ticket, error)
	VoidTicket(ctx context.Context, id int64) error
	MarkTicketUsed(ctx context.Context, barcode string) error
}

type ReservationService struct {
	store      BookingStore
	cache      cache.Cache
	eventTopic string
	logger     *log.Logger

	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewReservationService(
	store BookingStore,
	c cache.Cache,
	eventTopic string,
	logger *log.Logger,
) *ReservationService {
	if logger == nil {
		logger = log.Default()
	}
	return &ReservationService{
		store:      store,
		cache:      c,
		eventTopic: eventTopic,
		logger:     logger,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateReservation runs the booking flow. Validation order matters and
// each failure has its own error kind:
//
//  1. the flight must depart in the future,
//  2. the passenger must not already hold a reservation on the flight,
//  3. the seat must be disponible and unbound,
//  4. a unique 6-char code must be found within the attempt bound.
//
// The pre-checks are advisory; the store's constraints re-raise the same
// conflicts if a concurrent booking wins the race.
func (s *ReservationService) CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.Booking, error) {
	if err := validateReservationRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	flight, err := s.store.GetFlight(ctx, req.FlightID)
	if err != nil {
		return nil, fmt.Errorf("get flight: %w", err)
	}
	if !flight.Departure.After(s.now()) {
		return nil, ErrStaleFlight
	}

	if _, err := s.store.GetPassenger(ctx, req.PassengerID); err != nil {
		return nil, fmt.Errorf("get passenger: %w", err)
	}

	booked, err := s.store.PassengerHasReservation(ctx, req.FlightID, req.PassengerID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate booking: %w", err)
	}
	if booked {
		return nil, ErrDuplicateBooking
	}

	seat, err := s.store.GetSeat(ctx, req.SeatID)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}
	if seat.Status != models.SeatStatusAvailable {
		return nil, ErrSeatUnavailable
	}
	taken, err := s.store.SeatHasReservation(ctx, req.SeatID)
	if err != nil {
		return nil, fmt.Errorf("check seat reservation: %w", err)
	}
	if taken {
		return nil, ErrSeatUnavailable
	}

	code, attempts, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ObserveCodeAttempts(attempts)

	res := &models.Reservation{
		FlightID:    req.FlightID,
		PassengerID: req.PassengerID,
		SeatID:      req.SeatID,
		Status:      models.ReservationStatusPending,
		Price:       req.Price,
		Code:        code,
	}

	// built after the insert so the event carries the generated id
	buildEvent := func() (json.RawMessage, error) {
		return json.Marshal(kafka.NewReservationCreated(res))
	}

	ticket, err := s.store.CreateBooking(ctx, res, s.eventTopic, buildEvent)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatConflict):
			return nil, ErrSeatUnavailable
		case errors.Is(err, repository.ErrDuplicateReservation):
			return nil, ErrDuplicateBooking
		case errors.Is(err, repository.ErrCodeConflict):
			return nil, ErrCodeExhausted
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncReservationsCreated()
	s.invalidateReportCaches(ctx, req.FlightID)

	return &models.Booking{Reservation: res, Ticket: ticket}, nil
}

// GetBooking returns the reservation together with its ticket.
func (s *ReservationService) GetBooking(ctx context.Context, reservationID int64) (*models.Booking, error) {
	if reservationID <= 0 {
		return nil, fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.store.GetTicketByReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	return &models.Booking{Reservation: res, Ticket: ticket}, nil
}

// GetBookingByCode resolves a booking from its 6-char reservation code,
// the lookup used at check-in.
func (s *ReservationService) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != codeLength {
		return nil, fmt.Errorf("%w: reservation code must be %d characters", ErrInvalidInput, codeLength)
	}

	res, err := s.store.GetReservationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	ticket, err := s.store.GetTicketByReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	return &models.Booking{Reservation: res, Ticket: ticket}, nil
}

// VoidTicket sets the ticket to anulado. Repeating the operation on an
// already voided ticket succeeds. The bound seat stays reservado and the
// reservation keeps its status: releasing them is deliberately NOT part
// of voiding.
func (s *ReservationService) VoidTicket(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	if ticketID <= 0 {
		return nil, fmt.Errorf("%w: ticket id must be positive", ErrInvalidInput)
	}

	if err := s.store.VoidTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	metrics.IncTicketsVoided()

	return s.store.GetTicket(ctx, ticketID)
}

// MarkTicketScanned processes a boarding scan: an active ticket with the
// barcode moves to usado. Scans for unknown, used or voided barcodes
// surface ErrNotFound.
func (s *ReservationService) MarkTicketScanned(ctx context.Context, barcode string) error {
	if barcode == "" {
		return fmt.Errorf("%w: barcode is empty", ErrInvalidInput)
	}
	if err := s.store.MarkTicketUsed(ctx, barcode); err != nil {
		return err
	}
	metrics.IncTicketsUsed()
	return nil
}

// TicketDocument gathers everything a boarding document needs for the
// reservation: booking, flight, passenger, seat and the scannable payload.
func (s *ReservationService) TicketDocument(ctx context.Context, reservationID int64) (*export.TicketDocument, error) {
	booking, err := s.GetBooking(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	res := booking.Reservation

	flight, err := s.store.GetFlight(ctx, res.FlightID)
	if err != nil {
		return nil, fmt.Errorf("get flight: %w", err)
	}
	passenger, err := s.store.GetPassenger(ctx, res.PassengerID)
	if err != nil {
		return nil, fmt.Errorf("get passenger: %w", err)
	}
	seat, err := s.store.GetSeat(ctx, res.SeatID)
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", err)
	}

	return &export.TicketDocument{
		Reservation: res,
		Ticket:      booking.Ticket,
		Flight:      flight,
		Passenger:   passenger,
		Seat:        seat,
		CodePayload: export.CodePayload(res, flight, passenger, seat),
	}, nil
}

func (s *ReservationService) generateCode(ctx context.Context) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return GenerateCode(s.rnd, func(code string) (bool, error) {
		return s.store.ReservationCodeExists(ctx, code)
	})
}

// invalidateReportCaches drops the cached views a new booking makes stale.
// Best effort: a cold cache is always safe.
func (s *ReservationService) invalidateReportCaches(ctx context.Context, flightID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx,
		cache.SummaryKey(),
		cache.FlightListKey(),
		cache.FlightManifestKey(flightID),
	); err != nil {
		s.logger.Printf("cache invalidation failed: %v", err)
	}
}

func validateReservationRequest(req *models.ReservationRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.FlightID <= 0 {
		return errors.New("flight_id is required")
	}
	if req.PassengerID <= 0 {
		return errors.New("passenger_id is required")
	}
	if req.SeatID <= 0 {
		return errors.New("seat_id is required")
	}
	if req.Price < 0 {
		return errors.New("price must be >= 0")
	}
	return nil
}
