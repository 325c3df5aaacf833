package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func uniqueViolationOn(constraint string) error {
	return &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraint}
}

func TestMapReservationConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate passenger+flight", uniqueViolationOn("reservas_pasajero_vuelo_key"), ErrDuplicateReservation},
		{"seat already bound", uniqueViolationOn("reservas_asiento_key"), ErrSeatConflict},
		{"code collision", uniqueViolationOn("reservas_codigo_reserva_key"), ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapReservationConflict(tt.err), tt.want)
		})
	}
}

func TestMapReservationConflict_PassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapReservationConflict(plain))

	wrapped := fmt.Errorf("insert reservation: %w", uniqueViolationOn("reservas_pasajero_vuelo_key"))
	assert.ErrorIs(t, mapReservationConflict(wrapped), ErrDuplicateReservation)

	otherCode := &pgconn.PgError{Code: "23503", ConstraintName: "reservas_vuelo_id_fkey"}
	assert.Equal(t, error(otherCode), mapReservationConflict(otherCode))

	unknownConstraint := uniqueViolationOn("pasajeros_documento_key")
	assert.Equal(t, unknownConstraint, mapReservationConflict(unknownConstraint))
}
