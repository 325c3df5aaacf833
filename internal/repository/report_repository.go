package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ReportRepository serves the read-only reporting queries: the per-flight
// passenger manifest and the system-wide summary.
type ReportRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FlightManifest returns one row per reservation on the flight, ordered by
// seat number so the export is stable.
func (r *ReportRepository) FlightManifest(ctx context.Context, flightID int64) ([]models.ManifestRow, error) {
	query := r.sb.
		Select(
			"p.nombre",
			"p.documento",
			"a.numero",
			"res.precio",
			"res.codigo_reserva",
		).
		From("reservas res").
		Join("pasajeros p ON p.id = res.pasajero_id").
		Join("asientos a ON a.id = res.asiento_id").
		Where(sq.Eq{"res.vuelo_id": flightID}).
		OrderBy("a.numero ASC", "res.id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build manifest sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query manifest: %w", err)
	}
	defer rows.Close()

	result := make([]models.ManifestRow, 0)
	for rows.Next() {
		var row models.ManifestRow
		if err := rows.Scan(
			&row.PassengerName,
			&row.PassengerDocument,
			&row.SeatNumber,
			&row.Price,
			&row.ReservationCode,
		); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifest rows: %w", err)
	}
	return result, nil
}

// Summary aggregates the whole system: totals, seat occupancy and revenue.
// Revenue is 0 when no reservations exist.
func (r *ReportRepository) Summary(ctx context.Context) (*models.Summary, error) {
	const summarySQL = `
SELECT
	(SELECT COUNT(*) FROM vuelos),
	(SELECT COUNT(*) FROM reservas),
	(SELECT COUNT(*) FROM pasajeros),
	(SELECT COUNT(*) FROM asientos WHERE estado <> 'disponible'),
	(SELECT COUNT(*) FROM asientos WHERE estado = 'disponible'),
	(SELECT COALESCE(SUM(precio), 0) FROM reservas)
`

	var (
		s       models.Summary
		revenue pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, summarySQL).Scan(
		&s.TotalFlights,
		&s.TotalReservations,
		&s.TotalPassengers,
		&s.SeatsOccupied,
		&s.SeatsAvailable,
		&revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}

	if revenue.Valid {
		f, err := revenue.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("convert revenue: %w", err)
		}
		s.TotalRevenue = f.Float64
	}
	return &s, nil
}
