package models

import "time"

// Flight status values. The string values match the database vocabulary
// so existing rows stay readable.
const (
	FlightStatusScheduled = "programado"
	FlightStatusCancelled = "cancelado"
	FlightStatusCompleted = "finalizado"
)

type Flight struct {
	ID          int64         `json:"id" db:"id"`
	AircraftID  int64         `json:"aircraft_id" db:"avion_id"`
	Origin      string        `json:"origin" db:"origen"`
	Destination string        `json:"destination" db:"destino"`
	Departure   time.Time     `json:"departure" db:"fecha_salida"`
	Arrival     time.Time     `json:"arrival" db:"fecha_llegada"`
	Duration    time.Duration `json:"duration_seconds" db:"duracion"`
	Status      string        `json:"status" db:"estado"`
	BasePrice   float64       `json:"base_price" db:"precio_base"`
}

type FlightRequest struct {
	AircraftID  int64     `json:"aircraft_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	BasePrice   float64   `json:"base_price"`
}
