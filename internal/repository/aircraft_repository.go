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

type AircraftRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAircraftRepository(db *pgxpool.Pool) *AircraftRepository {
	return &AircraftRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AircraftRepository) Create(ctx context.Context, a *models.Aircraft) error {
	if a == nil {
		return fmt.Errorf("aircraft is nil")
	}

	query := r.sb.
		Insert("aviones").
		Columns("modelo", "capacidad", "filas", "columnas").
		Values(a.Model, a.Capacity, a.Rows, a.Columns).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert aircraft sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&a.ID); err != nil {
		return fmt.Errorf("insert aircraft: %w", err)
	}
	return nil
}

func (r *AircraftRepository) Get(ctx context.Context, id int64) (*models.Aircraft, error) {
	query := r.sb.
		Select("id", "modelo", "capacidad", "filas", "columnas").
		From("aviones").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get aircraft sql: %w", err)
	}

	var a models.Aircraft
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&a.ID, &a.Model, &a.Capacity, &a.Rows, &a.Columns)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get aircraft: %w", err)
	}
	return &a, nil
}

func (r *AircraftRepository) List(ctx context.Context) ([]*models.Aircraft, error) {
	query := r.sb.
		Select("id", "modelo", "capacidad", "filas", "columnas").
		From("aviones").
		OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list aircraft sql: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list aircraft: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Aircraft, 0)
	for rows.Next() {
		var a models.Aircraft
		if err := rows.Scan(&a.ID, &a.Model, &a.Capacity, &a.Rows, &a.Columns); err != nil {
			return nil, fmt.Errorf("scan aircraft row: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aircraft rows: %w", err)
	}
	return result, nil
}
