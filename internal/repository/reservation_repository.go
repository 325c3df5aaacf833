package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

type ReservationRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateTx inserts the reservation inside the booking transaction. Unique
// violations on (pasajero, vuelo), asiento or codigo_reserva come back as
// the matching sentinel errors.
func (r *ReservationRepository) CreateTx(ctx context.Context, tx pgx.Tx, res *models.Reservation) error {
	if res == nil {
		return fmt.Errorf("reservation is nil")
	}
	if res.Code == "" {
		return fmt.Errorf("reservation code is empty")
	}

	query := r.sb.
		Insert("reservas").
		Columns("vuelo_id", "pasajero_id", "asiento_id", "estado", "precio", "codigo_reserva").
		Values(res.FlightID, res.PassengerID, res.SeatID, res.Status, res.Price, res.Code).
		Suffix("RETURNING id, fecha_reserva")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert reservation sql: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		if mapped := mapReservationConflict(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	query := r.reservationSelect().Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation sql: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	if code == "" {
		return nil, fmt.Errorf("code is empty")
	}

	query := r.reservationSelect().Where(sq.Eq{"codigo_reserva": code})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation by code sql: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation by code: %w", err)
	}
	return res, nil
}

// ExistsForPassenger reports whether the passenger already holds a
// reservation on the flight. Advisory pre-check; the unique constraint is
// the final arbiter.
func (r *ReservationRepository) ExistsForPassenger(ctx context.Context, flightID, passengerID int64) (bool, error) {
	query := r.sb.
		Select("1").
		From("reservas").
		Where(sq.Eq{"vuelo_id": flightID, "pasajero_id": passengerID}).
		Limit(1)

	return r.exists(ctx, query)
}

// ExistsForSeat reports whether any reservation is bound to the seat.
func (r *ReservationRepository) ExistsForSeat(ctx context.Context, seatID int64) (bool, error) {
	query := r.sb.
		Select("1").
		From("reservas").
		Where(sq.Eq{"asiento_id": seatID}).
		Limit(1)

	return r.exists(ctx, query)
}

// CodeExists reports whether a reservation code is already issued.
func (r *ReservationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := r.sb.
		Select("1").
		From("reservas").
		Where(sq.Eq{"codigo_reserva": code}).
		Limit(1)

	return r.exists(ctx, query)
}

func (r *ReservationRepository) exists(ctx context.Context, query sq.SelectBuilder) (bool, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists sql: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

func (r *ReservationRepository) reservationSelect() sq.SelectBuilder {
	return r.sb.
		Select("id", "vuelo_id", "pasajero_id", "asiento_id", "estado", "fecha_reserva", "precio", "codigo_reserva").
		From("reservas")
}

func scanReservation(row pgx.Row) (*models.Reservation, error) {
	var res models.Reservation
	err := row.Scan(
		&res.ID,
		&res.FlightID,
		&res.PassengerID,
		&res.SeatID,
		&res.Status,
		&res.CreatedAt,
		&res.Price,
		&res.Code,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
