package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// CatalogStore is the persistence contract of the operator-facing catalog:
// aircraft, flights, passengers and seat inventory.
type CatalogStore interface {
	CreateAircraft(ctx context.Context, a *models.Aircraft) error
	GetAircraft(ctx context.Context, id int64) (*models.Aircraft, error)
	ListAircraft(ctx context.Context) ([]*models.Aircraft, error)

	CreateFlight(ctx context.Context, f *models.Flight) error
	UpdateFlightStatus(ctx context.Context, id int64, status string) error
	CreatePassenger(ctx context.Context, p *models.Passenger) error
	GetPassengerByDocument(ctx context.Context, document string) (*models.Passenger, error)

	CreateSeat(ctx context.Context, s *models.Seat) error
	ListSeats(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error)
}

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) CreateAircraft(ctx context.Context, req *models.AircraftRequest) (*models.Aircraft, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("%w: model is required", ErrInvalidInput)
	}
	if req.Capacity <= 0 || req.Rows <= 0 || req.Columns <= 0 {
		return nil, fmt.Errorf("%w: capacity, rows and columns must be positive", ErrInvalidInput)
	}

	a := &models.Aircraft{
		Model:    strings.TrimSpace(req.Model),
		Capacity: req.Capacity,
		Rows:     req.Rows,
		Columns:  req.Columns,
	}
	if err := s.store.CreateAircraft(ctx, a); err != nil {
		return nil, fmt.Errorf("create aircraft: %w", err)
	}
	return a, nil
}

func (s *CatalogService) ListAircraft(ctx context.Context) ([]*models.Aircraft, error) {
	return s.store.ListAircraft(ctx)
}

func (s *CatalogService) CreateFlight(ctx context.Context, req *models.FlightRequest) (*models.Flight, error) {
	if err := validateFlightRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// the aircraft must exist before a flight can reference it
	if _, err := s.store.GetAircraft(ctx, req.AircraftID); err != nil {
		return nil, err
	}

	f := &models.Flight{
		AircraftID:  req.AircraftID,
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		Departure:   req.Departure,
		Arrival:     req.Arrival,
		Duration:    req.Arrival.Sub(req.Departure),
		Status:      models.FlightStatusScheduled,
		BasePrice:   req.BasePrice,
	}
	if err := s.store.CreateFlight(ctx, f); err != nil {
		return nil, fmt.Errorf("create flight: %w", err)
	}
	return f, nil
}

// UpdateFlightStatus moves a flight to cancelado or finalizado (or back
// to programado). Reservations on the flight are untouched; a cancelled
// flight simply stops accepting bookings once its departure passes.
func (s *CatalogService) UpdateFlightStatus(ctx context.Context, id int64, status string) error {
	if id <= 0 {
		return fmt.Errorf("%w: flight id must be positive", ErrInvalidInput)
	}
	switch status {
	case models.FlightStatusScheduled, models.FlightStatusCancelled, models.FlightStatusCompleted:
	default:
		return fmt.Errorf("%w: status must be programado|cancelado|finalizado", ErrInvalidInput)
	}
	return s.store.UpdateFlightStatus(ctx, id, status)
}

func (s *CatalogService) CreatePassenger(ctx context.Context, req *models.PassengerRequest) (*models.Passenger, error) {
	if err := validatePassengerRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p := &models.Passenger{
		Name:         strings.TrimSpace(req.Name),
		Document:     strings.TrimSpace(req.Document),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		BirthDate:    req.BirthDate,
		DocumentType: req.DocumentType,
	}
	if err := s.store.CreatePassenger(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) GetPassengerByDocument(ctx context.Context, document string) (*models.Passenger, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil, fmt.Errorf("%w: document is required", ErrInvalidInput)
	}
	return s.store.GetPassengerByDocument(ctx, document)
}

func (s *CatalogService) CreateSeat(ctx context.Context, aircraftID int64, req *models.SeatRequest) (*models.Seat, error) {
	if err := validateSeatRequest(aircraftID, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	aircraft, err := s.store.GetAircraft(ctx, aircraftID)
	if err != nil {
		return nil, err
	}
	if req.Row > aircraft.Rows {
		return nil, fmt.Errorf("%w: row %d exceeds aircraft rows (%d)", ErrInvalidInput, req.Row, aircraft.Rows)
	}

	seat := &models.Seat{
		AircraftID: aircraftID,
		Number:     strings.TrimSpace(req.Number),
		Row:        req.Row,
		Column:     strings.TrimSpace(req.Column),
		Type:       req.Type,
		Status:     models.SeatStatusAvailable,
	}
	if err := s.store.CreateSeat(ctx, seat); err != nil {
		return nil, fmt.Errorf("create seat: %w", err)
	}
	return seat, nil
}

// ListSeats filters the aircraft's inventory by status. Status mutation is
// not exposed here: seats only change state through the booking flow.
func (s *CatalogService) ListSeats(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error) {
	if aircraftID <= 0 {
		return nil, fmt.Errorf("%w: aircraft id must be positive", ErrInvalidInput)
	}
	if status != "" && !isValidSeatStatus(status) {
		return nil, fmt.Errorf("%w: status must be disponible|reservado|ocupado", ErrInvalidInput)
	}
	return s.store.ListSeats(ctx, aircraftID, status)
}

func validateFlightRequest(req *models.FlightRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.AircraftID <= 0 {
		return errors.New("aircraft_id is required")
	}
	if strings.TrimSpace(req.Origin) == "" {
		return errors.New("origin is required")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return errors.New("destination is required")
	}
	if req.Departure.IsZero() {
		return errors.New("departure is required")
	}
	if req.Arrival.IsZero() {
		return errors.New("arrival is required")
	}
	if !req.Arrival.After(req.Departure) {
		return errors.New("arrival must be after departure")
	}
	if req.BasePrice < 0 {
		return errors.New("base_price must be >= 0")
	}
	return nil
}

func validatePassengerRequest(req *models.PassengerRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(req.Document) == "" {
		return errors.New("document is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return errors.New("email is required")
	}
	if req.BirthDate.IsZero() {
		return errors.New("birth_date is required")
	}
	if req.DocumentType != models.DocumentTypeNationalID && req.DocumentType != models.DocumentTypePassport {
		return fmt.Errorf("document_type must be %s or %s", models.DocumentTypeNationalID, models.DocumentTypePassport)
	}
	return nil
}

func validateSeatRequest(aircraftID int64, req *models.SeatRequest) error {
	if aircraftID <= 0 {
		return errors.New("aircraft id must be positive")
	}
	if req == nil {
		return errors.New("request is nil")
	}
	if strings.TrimSpace(req.Number) == "" {
		return errors.New("seat number is required")
	}
	if req.Row <= 0 {
		return errors.New("row must be positive")
	}
	if strings.TrimSpace(req.Column) == "" {
		return errors.New("column is required")
	}
	if req.Type != models.SeatTypeEconomy && req.Type != models.SeatTypePremium {
		return fmt.Errorf("type must be %s or %s", models.SeatTypeEconomy, models.SeatTypePremium)
	}
	return nil
}

func isValidSeatStatus(s string) bool {
	return s == models.SeatStatusAvailable ||
		s == models.SeatStatusReserved ||
		s == models.SeatStatusOccupied
}
