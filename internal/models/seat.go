package models

const (
	SeatTypeEconomy = "economy"
	SeatTypePremium = "premium"
)

const (
	SeatStatusAvailable = "disponible"
	SeatStatusReserved  = "reservado"
	SeatStatusOccupied  = "ocupado"
)

type Seat struct {
	ID         int64  `json:"id" db:"id"`
	AircraftID int64  `json:"aircraft_id" db:"avion_id"`
	Number     string `json:"number" db:"numero"`
	Row        int    `json:"row" db:"fila"`
	Column     string `json:"column" db:"columna"`
	Type       string `json:"type" db:"tipo"`
	Status     string `json:"status" db:"estado"`
}

type SeatRequest struct {
	Number string `json:"number"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Type   string `json:"type"`
}
