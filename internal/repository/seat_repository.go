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

var allowedSeatStatuses = map[string]struct{}{
	models.SeatStatusAvailable: {},
	models.SeatStatusReserved:  {},
	models.SeatStatusOccupied:  {},
}

type SeatRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSeatRepository(db *pgxpool.Pool) *SeatRepository {
	return &SeatRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SeatRepository) Create(ctx context.Context, s *models.Seat) error {
	if s == nil {
		return fmt.Errorf("seat is nil")
	}
	if s.Number == "" {
		return fmt.Errorf("seat number is empty")
	}
	if _, ok := allowedSeatStatuses[s.Status]; !ok {
		return fmt.Errorf("invalid seat status: %s", s.Status)
	}

	query := r.sb.
		Insert("asientos").
		Columns("avion_id", "numero", "fila", "columna", "tipo", "estado").
		Values(s.AircraftID, s.Number, s.Row, s.Column, s.Type, s.Status).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert seat sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("insert seat: %w", err)
	}
	return nil
}

func (r *SeatRepository) Get(ctx context.Context, id int64) (*models.Seat, error) {
	query := r.sb.
		Select("id", "avion_id", "numero", "fila", "columna", "tipo", "estado").
		From("asientos").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get seat sql: %w", err)
	}

	var s models.Seat
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&s.ID, &s.AircraftID, &s.Number, &s.Row, &s.Column, &s.Type, &s.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get seat: %w", err)
	}
	return &s, nil
}

// ListByAircraft returns the aircraft's seats, optionally filtered by status.
func (r *SeatRepository) ListByAircraft(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error) {
	if status != "" {
		if _, ok := allowedSeatStatuses[status]; !ok {
			return nil, fmt.Errorf("invalid seat status: %s", status)
		}
	}

	filters := sq.And{sq.Eq{"avion_id": aircraftID}}
	if status != "" {
		filters = append(filters, sq.Eq{"estado": status})
	}

	query := r.sb.
		Select("id", "avion_id", "numero", "fila", "columna", "tipo", "estado").
		From("asientos").
		Where(filters).
		OrderBy("fila ASC", "columna ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list seats sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Seat, 0)
	for rows.Next() {
		var s models.Seat
		if err := rows.Scan(&s.ID, &s.AircraftID, &s.Number, &s.Row, &s.Column, &s.Type, &s.Status); err != nil {
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seat rows: %w", err)
	}
	return result, nil
}

// ClaimTx flips an available seat to reservado inside the booking
// transaction. Zero rows affected means the seat was not available, which
// is the storage-level arbiter for concurrent claims.
func (r *SeatRepository) ClaimTx(ctx context.Context, tx pgx.Tx, seatID int64) error {
	query := r.sb.
		Update("asientos").
		Set("estado", models.SeatStatusReserved).
		Where(sq.Eq{"id": seatID, "estado": models.SeatStatusAvailable})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build claim seat sql: %w", err)
	}

	tag, err := tx.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSeatConflict
	}
	return nil
}
