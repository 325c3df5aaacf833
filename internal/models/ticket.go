package models

import "time"

// Ticket status only moves forward: activo -> usado or activo -> anulado.
const (
	TicketStatusActive = "activo"
	TicketStatusUsed   = "usado"
	TicketStatusVoided = "anulado"
)

type Ticket struct {
	ID            int64     `json:"id" db:"id"`
	ReservationID int64     `json:"reservation_id" db:"reserva_id"`
	Barcode       string    `json:"barcode" db:"codigo_barra"`
	IssuedAt      time.Time `json:"issued_at" db:"fecha_emision"`
	Status        string    `json:"status" db:"estado"`
}
