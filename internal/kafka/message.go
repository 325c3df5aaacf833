package kafka

import (
	"time"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ReservationCreated is the event staged in the outbox when a booking
// commits. Downstream consumers (notifications, analytics) key on the
// reservation code.
type ReservationCreated struct {
	ReservationID int64     `json:"reservation_id"`
	Code          string    `json:"code"`
	FlightID      int64     `json:"flight_id"`
	PassengerID   int64     `json:"passenger_id"`
	SeatID        int64     `json:"seat_id"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewReservationCreated(res *models.Reservation) *ReservationCreated {
	return &ReservationCreated{
		ReservationID: res.ID,
		Code:          res.Code,
		FlightID:      res.FlightID,
		PassengerID:   res.PassengerID,
		SeatID:        res.SeatID,
		Price:         res.Price,
		CreatedAt:     res.CreatedAt,
	}
}

// BoardingScan arrives on the scan topic when a gate agent scans a ticket.
type BoardingScan struct {
	Barcode   string    `json:"barcode"`
	ScannedAt time.Time `json:"scanned_at"`
}
