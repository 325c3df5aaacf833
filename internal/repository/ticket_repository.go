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

type TicketRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateTx issues the ticket inside the booking transaction.
func (r *TicketRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Ticket) error {
	if t == nil {
		return fmt.Errorf("ticket is nil")
	}
	if t.Barcode == "" {
		return fmt.Errorf("barcode is empty")
	}

	query := r.sb.
		Insert("boletos").
		Columns("reserva_id", "codigo_barra", "estado").
		Values(t.ReservationID, t.Barcode, t.Status).
		Suffix("RETURNING id, fecha_emision")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert ticket sql: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.IssuedAt); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*models.Ticket, error) {
	query := r.ticketSelect().Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get ticket sql: %w", err)
	}

	t, err := scanTicket(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) GetByReservation(ctx context.Context, reservationID int64) (*models.Ticket, error) {
	query := r.ticketSelect().Where(sq.Eq{"reserva_id": reservationID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get ticket by reservation sql: %w", err)
	}

	t, err := scanTicket(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket by reservation: %w", err)
	}
	return t, nil
}

// Void sets the ticket to anulado unconditionally. Voiding an already
// voided ticket is not an error. Seat and reservation state are left
// untouched; releasing them is a separate operation.
func (r *TicketRepository) Void(ctx context.Context, id int64) error {
	query := r.sb.
		Update("boletos").
		Set("estado", models.TicketStatusVoided).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build void ticket sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("void ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkUsedByBarcode transitions an active ticket to usado. Tickets that are
// already used or voided are left alone.
func (r *TicketRepository) MarkUsedByBarcode(ctx context.Context, barcode string) error {
	if barcode == "" {
		return fmt.Errorf("barcode is empty")
	}

	query := r.sb.
		Update("boletos").
		Set("estado", models.TicketStatusUsed).
		Where(sq.Eq{"codigo_barra": barcode, "estado": models.TicketStatusActive})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build mark ticket used sql: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("mark ticket used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TicketRepository) ticketSelect() sq.SelectBuilder {
	return r.sb.
		Select("id", "reserva_id", "codigo_barra", "fecha_emision", "estado").
		From("boletos")
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.ReservationID, &t.Barcode, &t.IssuedAt, &t.Status)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
