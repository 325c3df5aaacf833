package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// Store composes the repositories and owns the one multi-entity write in
// the system: the booking transaction. Everything else delegates to the
// per-aggregate repositories.
type Store struct {
	db *pgxpool.Pool

	Aircraft     *AircraftRepository
	Flights      *FlightRepository
	Passengers   *PassengerRepository
	Seats        *SeatRepository
	Reservations *ReservationRepository
	Tickets      *TicketRepository
	Outbox       *OutboxRepository
	Reports      *ReportRepository
}

func NewStore(db *pgxpool.Pool, outboxMaxRetries int) *Store {
	return &Store{
		db:           db,
		Aircraft:     NewAircraftRepository(db),
		Flights:      NewFlightRepository(db),
		Passengers:   NewPassengerRepository(db),
		Seats:        NewSeatRepository(db),
		Reservations: NewReservationRepository(db),
		Tickets:      NewTicketRepository(db),
		Outbox:       NewOutboxRepository(db, outboxMaxRetries),
		Reports:      NewReportRepository(db),
	}
}

// CreateBooking runs the atomic unit of the reservation flow: claim the
// seat, insert the reservation, issue the ticket and stage the outbox
// event, all in one transaction. A failure at any step rolls the whole
// booking back, so a seat marked reservado without a reservation row (or
// vice versa) is never observable.
//
// The event payload is built by buildEvent after the reservation and
// ticket rows exist, so it sees their generated ids. Pass an empty topic
// to skip event publication.
func (s *Store) CreateBooking(ctx context.Context, res *models.Reservation, eventTopic string, buildEvent func() (json.RawMessage, error)) (*models.Ticket, error) {
	if res == nil {
		return nil, fmt.Errorf("reservation is nil")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.Seats.ClaimTx(ctx, tx, res.SeatID); err != nil {
		return nil, err
	}

	if err := s.Reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ReservationID: res.ID,
		Barcode:       res.Code,
		Status:        models.TicketStatusActive,
	}
	if err := s.Tickets.CreateTx(ctx, tx, ticket); err != nil {
		return nil, err
	}

	if eventTopic != "" && buildEvent != nil {
		event, err := buildEvent()
		if err != nil {
			return nil, fmt.Errorf("build booking event: %w", err)
		}
		ob := &models.OutboxMessage{
			Topic:   eventTopic,
			Payload: event,
		}
		if err := s.Outbox.CreateMessage(ctx, tx, ob); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}
	return ticket, nil
}

// The delegation methods below satisfy the service-layer store interfaces
// (BookingStore, CatalogStore, ReportStore).

func (s *Store) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	return s.Flights.Get(ctx, id)
}

func (s *Store) ListFlights(ctx context.Context) ([]*models.Flight, error) {
	return s.Flights.List(ctx)
}

func (s *Store) CreateFlight(ctx context.Context, f *models.Flight) error {
	return s.Flights.Create(ctx, f)
}

func (s *Store) UpdateFlightStatus(ctx context.Context, id int64, status string) error {
	return s.Flights.UpdateStatus(ctx, id, status)
}

func (s *Store) CreateAircraft(ctx context.Context, a *models.Aircraft) error {
	return s.Aircraft.Create(ctx, a)
}

func (s *Store) GetAircraft(ctx context.Context, id int64) (*models.Aircraft, error) {
	return s.Aircraft.Get(ctx, id)
}

func (s *Store) ListAircraft(ctx context.Context) ([]*models.Aircraft, error) {
	return s.Aircraft.List(ctx)
}

func (s *Store) CreatePassenger(ctx context.Context, p *models.Passenger) error {
	return s.Passengers.Create(ctx, p)
}

func (s *Store) CreateSeat(ctx context.Context, seat *models.Seat) error {
	return s.Seats.Create(ctx, seat)
}

func (s *Store) ListSeats(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error) {
	return s.Seats.ListByAircraft(ctx, aircraftID, status)
}

func (s *Store) FlightManifest(ctx context.Context, flightID int64) ([]models.ManifestRow, error) {
	return s.Reports.FlightManifest(ctx, flightID)
}

func (s *Store) Summary(ctx context.Context) (*models.Summary, error) {
	return s.Reports.Summary(ctx)
}

func (s *Store) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	return s.Seats.Get(ctx, id)
}

func (s *Store) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.Reservations.Get(ctx, id)
}

func (s *Store) GetReservationByCode(ctx context.Context, code string) (*models.Reservation, error) {
	return s.Reservations.GetByCode(ctx, code)
}

func (s *Store) GetPassengerByDocument(ctx context.Context, document string) (*models.Passenger, error) {
	return s.Passengers.GetByDocument(ctx, document)
}

func (s *Store) GetPassenger(ctx context.Context, id int64) (*models.Passenger, error) {
	return s.Passengers.Get(ctx, id)
}

func (s *Store) PassengerHasReservation(ctx context.Context, flightID, passengerID int64) (bool, error) {
	return s.Reservations.ExistsForPassenger(ctx, flightID, passengerID)
}

func (s *Store) SeatHasReservation(ctx context.Context, seatID int64) (bool, error) {
	return s.Reservations.ExistsForSeat(ctx, seatID)
}

func (s *Store) ReservationCodeExists(ctx context.Context, code string) (bool, error) {
	return s.Reservations.CodeExists(ctx, code)
}

func (s *Store) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	return s.Tickets.Get(ctx, id)
}

func (s *Store) GetTicketByReservation(ctx context.Context, reservationID int64) (*models.Ticket, error) {
	return s.Tickets.GetByReservation(ctx, reservationID)
}

func (s *Store) VoidTicket(ctx context.Context, id int64) error {
	return s.Tickets.Void(ctx, id)
}

func (s *Store) MarkTicketUsed(ctx context.Context, barcode string) error {
	return s.Tickets.MarkUsedByBarcode(ctx, barcode)
}
