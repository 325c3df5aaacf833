package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

var ErrDuplicateDocument = errors.New("document already registered")

type PassengerRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPassengerRepository(db *pgxpool.Pool) *PassengerRepository {
	return &PassengerRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PassengerRepository) Create(ctx context.Context, p *models.Passenger) error {
	if p == nil {
		return fmt.Errorf("passenger is nil")
	}

	query := r.sb.
		Insert("pasajeros").
		Columns("nombre", "documento", "email", "telefono", "fecha_nacimiento", "tipo_documento").
		Values(p.Name, p.Document, p.Email, p.Phone, p.BirthDate, p.DocumentType).
		Suffix("RETURNING id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert passenger sql: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&p.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateDocument
		}
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

func (r *PassengerRepository) Get(ctx context.Context, id int64) (*models.Passenger, error) {
	query := r.sb.
		Select("id", "nombre", "documento", "email", "telefono", "fecha_nacimiento", "tipo_documento").
		From("pasajeros").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get passenger sql: %w", err)
	}

	var p models.Passenger
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&p.ID, &p.Name, &p.Document, &p.Email, &p.Phone, &p.BirthDate, &p.DocumentType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get passenger: %w", err)
	}
	return &p, nil
}

func (r *PassengerRepository) GetByDocument(ctx context.Context, document string) (*models.Passenger, error) {
	if document == "" {
		return nil, fmt.Errorf("document is empty")
	}

	query := r.sb.
		Select("id", "nombre", "documento", "email", "telefono", "fecha_nacimiento", "tipo_documento").
		From("pasajeros").
		Where(sq.Eq{"documento": document})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get passenger by document sql: %w", err)
	}

	var p models.Passenger
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&p.ID, &p.Name, &p.Document, &p.Email, &p.Phone, &p.BirthDate, &p.DocumentType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get passenger by document: %w", err)
	}
	return &p, nil
}
