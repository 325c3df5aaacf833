package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")

	// Unique-constraint violations on the reservas table. The constraints
	// are the final arbiter for concurrent bookings; the service layer maps
	// these onto its own error kinds.
	ErrDuplicateReservation = errors.New("passenger already has a reservation for this flight")
	ErrSeatConflict         = errors.New("seat is already bound to a reservation")
	ErrCodeConflict         = errors.New("reservation code already exists")
)

const uniqueViolation = "23505"

// mapReservationConflict translates a pg unique violation on reservas into
// the matching sentinel. Constraint names are pinned by migrations/001_init.sql.
func mapReservationConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "reservas_pasajero_vuelo_key":
		return ErrDuplicateReservation
	case "reservas_asiento_key":
		return ErrSeatConflict
	case "reservas_codigo_reserva_key":
		return ErrCodeConflict
	}
	return err
}
