package models

import "time"

const (
	ReservationStatusPending   = "pendiente"
	ReservationStatusConfirmed = "confirmada"
	ReservationStatusCancelled = "cancelada"
)

type Reservation struct {
	ID          int64     `json:"id" db:"id"`
	FlightID    int64     `json:"flight_id" db:"vuelo_id"`
	PassengerID int64     `json:"passenger_id" db:"pasajero_id"`
	SeatID      int64     `json:"seat_id" db:"asiento_id"`
	Status      string    `json:"status" db:"estado"`
	CreatedAt   time.Time `json:"created_at" db:"fecha_reserva"`
	Price       float64   `json:"price" db:"precio"`
	Code        string    `json:"code" db:"codigo_reserva"`
}

type ReservationRequest struct {
	FlightID    int64   `json:"flight_id"`
	PassengerID int64   `json:"passenger_id"`
	SeatID      int64   `json:"seat_id"`
	Price       float64 `json:"price"`
}

// Booking is the reservation together with its issued ticket, as returned
// by the booking flow and the reservation view.
type Booking struct {
	Reservation *Reservation `json:"reservation"`
	Ticket      *Ticket      `json:"ticket"`
}
