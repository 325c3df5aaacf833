package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

var allowedFlightStatuses = map[string]struct{}{
	models.FlightStatusScheduled: {},
	models.FlightStatusCancelled: {},
	models.FlightStatusCompleted: {},
}

type FlightRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewFlightRepository(db *pgxpool.Pool) *FlightRepository {
	return &FlightRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *FlightRepository) Create(ctx context.Context, f *models.Flight) error {
	if f == nil {
		return fmt.Errorf("flight is nil")
	}
	if f.Origin == "" || f.Destination == "" {
		return fmt.Errorf("origin and destination are required")
	}
	if !f.Arrival.After(f.Departure) {
		return fmt.Errorf("arrival must be after departure")
	}
	if _, ok := allowedFlightStatuses[f.Status]; !ok {
		return fmt.Errorf("invalid flight status: %s", f.Status)
	}

	duration := pgtype.Interval{
		Microseconds: f.Arrival.Sub(f.Departure).Microseconds(),
		Valid:        true,
	}

	query := r.sb.
		Insert("vuelos").
		Columns("avion_id", "origen", "destino", "fecha_salida", "fecha_llegada", "duracion", "estado", "precio_base").
		Values(f.AircraftID, f.Origin, f.Destination, f.Departure, f.Arrival, duration, f.Status, f.BasePrice).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert flight sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&f.ID); err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	f.Duration = f.Arrival.Sub(f.Departure)
	return nil
}

func (r *FlightRepository) Get(ctx context.Context, id int64) (*models.Flight, error) {
	query := r.flightSelect().Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get flight sql: %w", err)
	}

	f, err := scanFlight(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

// List returns all flights ordered by departure time, soonest first.
func (r *FlightRepository) List(ctx context.Context) ([]*models.Flight, error) {
	query := r.flightSelect().OrderBy("fecha_salida ASC", "id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list flights sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight row: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flight rows: %w", err)
	}
	return result, nil
}

func (r *FlightRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, ok := allowedFlightStatuses[status]; !ok {
		return fmt.Errorf("invalid flight status: %s", status)
	}

	query := r.sb.
		Update("vuelos").
		Set("estado", status).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update flight status sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update flight status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FlightRepository) flightSelect() sq.SelectBuilder {
	return r.sb.
		Select("id", "avion_id", "origen", "destino", "fecha_salida", "fecha_llegada", "duracion", "estado", "precio_base").
		From("vuelos")
}

func scanFlight(row pgx.Row) (*models.Flight, error) {
	var (
		f        models.Flight
		duration pgtype.Interval
	)
	err := row.Scan(
		&f.ID,
		&f.AircraftID,
		&f.Origin,
		&f.Destination,
		&f.Departure,
		&f.Arrival,
		&duration,
		&f.Status,
		&f.BasePrice,
	)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		f.Duration = time.Duration(duration.Microseconds)*time.Microsecond +
			time.Duration(duration.Days)*24*time.Hour
	}
	return &f, nil
}
